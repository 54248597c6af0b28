package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/Peppermint995/Scrbbl-Clone/internal/room"
	"github.com/Peppermint995/Scrbbl-Clone/logger"
)

// Redis keeps each room as a hash with one entry per top-level record
// field (JSON-encoded where the field is a slice) plus a side list for
// the feed, so log appends stay commutative while field replaces stay
// last-writer-wins. Every write publishes on the room's channel; the
// subscription stream re-reads the record on each notification.
type Redis struct {
	addr string
	pool *redis.Pool
}

func NewRedis(addr string) *Redis {
	return &Redis{
		addr: addr,
		pool: &redis.Pool{
			MaxIdle:     8,
			IdleTimeout: 240 * time.Second,
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", addr)
			},
			TestOnBorrow: func(c redis.Conn, t time.Time) error {
				if time.Since(t) < time.Minute {
					return nil
				}
				_, err := c.Do("PING")
				return err
			},
		},
	}
}

func roomKey(id string) string  { return "room:" + id }
func logKey(id string) string   { return "room:" + id + ":log" }
func eventChan(id string) string { return "room:" + id + ":events" }

const indexKey = "rooms:index"

func (r *Redis) Read(ctx context.Context, roomID string) (*room.Room, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer conn.Close()
	return readRoom(conn, roomID)
}

func readRoom(conn redis.Conn, roomID string) (*room.Room, error) {
	vals, err := redis.StringMap(conn.Do("HGETALL", roomKey(roomID)))
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", roomID, err)
	}
	if len(vals) == 0 {
		return nil, ErrNotFound
	}

	rm := &room.Room{
		ID:            vals["id"],
		Private:       vals["isPrivate"] == "1",
		CurrentDrawer: vals["currentDrawer"],
		CurrentWord:   vals["currentWord"],
	}
	rm.CreatedAt, _ = strconv.ParseInt(vals["createdAt"], 10, 64)
	if raw := vals["players"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &rm.Players); err != nil {
			return nil, fmt.Errorf("store: decode players for %s: %w", roomID, err)
		}
	}
	if raw := vals["lines"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &rm.Lines); err != nil {
			return nil, fmt.Errorf("store: decode lines for %s: %w", roomID, err)
		}
	}

	entries, err := redis.Strings(conn.Do("LRANGE", logKey(roomID), 0, -1))
	if err != nil {
		return nil, fmt.Errorf("store: read log for %s: %w", roomID, err)
	}
	rm.Messages = make([]room.LogEntry, 0, len(entries))
	for _, raw := range entries {
		var e room.LogEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		rm.Messages = append(rm.Messages, e)
	}
	return rm, nil
}

func (r *Redis) Create(ctx context.Context, rm *room.Room) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer conn.Close()

	// HSETNX on the id field is the create race: exactly one concurrent
	// creator wins, the rest see AlreadyExists and re-read to join.
	claimed, err := redis.Int(conn.Do("HSETNX", roomKey(rm.ID), "id", rm.ID))
	if err != nil {
		return fmt.Errorf("store: create %s: %w", rm.ID, err)
	}
	if claimed == 0 {
		return ErrAlreadyExists
	}

	players, err := json.Marshal(rm.Players)
	if err != nil {
		return fmt.Errorf("store: encode players: %w", err)
	}
	lines, err := json.Marshal(rm.Lines)
	if err != nil {
		return fmt.Errorf("store: encode lines: %w", err)
	}
	private := "0"
	if rm.Private {
		private = "1"
	}
	if _, err := conn.Do("HSET", roomKey(rm.ID),
		"isPrivate", private,
		"players", players,
		"currentDrawer", rm.CurrentDrawer,
		"currentWord", rm.CurrentWord,
		"lines", lines,
		"createdAt", strconv.FormatInt(rm.CreatedAt, 10),
	); err != nil {
		return fmt.Errorf("store: create %s: %w", rm.ID, err)
	}
	if _, err := conn.Do("SADD", indexKey, rm.ID); err != nil {
		logger.Error("store: index %s: %v", rm.ID, err)
	}
	r.publish(conn, rm.ID)
	return nil
}

func (r *Redis) AppendToLog(ctx context.Context, roomID string, entry room.LogEntry) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer conn.Close()

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("store: encode log entry: %w", err)
	}
	if _, err := conn.Do("RPUSH", logKey(roomID), raw); err != nil {
		return fmt.Errorf("store: append log %s: %w", roomID, err)
	}
	r.publish(conn, roomID)
	return nil
}

func (r *Redis) ReplaceFields(ctx context.Context, roomID string, fields Fields) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer conn.Close()

	args := redis.Args{}.Add(roomKey(roomID))
	if fields.Players != nil {
		raw, err := json.Marshal(*fields.Players)
		if err != nil {
			return fmt.Errorf("store: encode players: %w", err)
		}
		args = args.Add("players", raw)
	}
	if fields.CurrentDrawer != nil {
		args = args.Add("currentDrawer", *fields.CurrentDrawer)
	}
	if fields.CurrentWord != nil {
		args = args.Add("currentWord", *fields.CurrentWord)
	}
	if fields.Lines != nil {
		raw, err := json.Marshal(*fields.Lines)
		if err != nil {
			return fmt.Errorf("store: encode lines: %w", err)
		}
		args = args.Add("lines", raw)
	}
	if len(args) == 1 {
		return nil
	}
	if _, err := conn.Do("HSET", args...); err != nil {
		return fmt.Errorf("store: replace fields %s: %w", roomID, err)
	}
	r.publish(conn, roomID)
	return nil
}

func (r *Redis) publish(conn redis.Conn, roomID string) {
	if _, err := conn.Do("PUBLISH", eventChan(roomID), "1"); err != nil {
		logger.Error("store: publish %s: %v", roomID, err)
	}
}

func (r *Redis) ListRooms(ctx context.Context) ([]RoomInfo, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer conn.Close()

	ids, err := redis.Strings(conn.Do("SMEMBERS", indexKey))
	if err != nil {
		return nil, fmt.Errorf("store: list rooms: %w", err)
	}
	infos := make([]RoomInfo, 0, len(ids))
	for _, id := range ids {
		vals, err := redis.Strings(conn.Do("HMGET", roomKey(id), "isPrivate", "players", "createdAt"))
		if err != nil || len(vals) < 3 {
			continue
		}
		var players []room.Player
		if vals[1] != "" {
			_ = json.Unmarshal([]byte(vals[1]), &players)
		}
		createdAt, _ := strconv.ParseInt(vals[2], 10, 64)
		infos = append(infos, RoomInfo{
			ID:        id,
			Private:   vals[0] == "1",
			Occupancy: len(players),
			CreatedAt: createdAt,
		})
	}
	return infos, nil
}

// Subscribe emits a snapshot now and then after every published change.
// The pub/sub connection is re-dialed on failure, so the stream survives
// network blips; a re-read after reconnect covers anything missed.
func (r *Redis) Subscribe(ctx context.Context, roomID string) (<-chan *room.Room, error) {
	if _, err := r.Read(ctx, roomID); err != nil {
		return nil, err
	}

	out := make(chan *room.Room, 8)
	go func() {
		defer close(out)
		for ctx.Err() == nil {
			if err := r.pump(ctx, roomID, out); err != nil {
				logger.Error("store: subscription for %s interrupted: %v", roomID, err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
			}
		}
	}()
	return out, nil
}

func (r *Redis) pump(ctx context.Context, roomID string, out chan *room.Room) error {
	conn, err := redis.DialContext(ctx, "tcp", r.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	psc := redis.PubSubConn{Conn: conn}
	if err := psc.Subscribe(eventChan(roomID)); err != nil {
		return err
	}

	// Close the pub/sub connection when ctx ends so Receive unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if err := r.emit(ctx, roomID, out); err != nil {
		return err
	}
	for {
		switch v := psc.Receive().(type) {
		case redis.Message:
			if err := r.emit(ctx, roomID, out); err != nil {
				return err
			}
		case error:
			if ctx.Err() != nil {
				return nil
			}
			return v
		}
	}
}

func (r *Redis) emit(ctx context.Context, roomID string, out chan *room.Room) error {
	snap, err := r.Read(ctx, roomID)
	if err != nil {
		return err
	}
	// Latest-wins delivery: a lagging consumer loses an intermediate
	// snapshot, never the newest one.
	select {
	case out <- snap:
	default:
		select {
		case <-out:
		default:
		}
		select {
		case out <- snap:
		default:
		}
	}
	return nil
}
