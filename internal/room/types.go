package room

// Wire shapes for the shared room record. Field names match the store
// document exactly; every participant reads and writes the same shape.

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Stroke struct {
	Color  string  `json:"color"`
	Size   int     `json:"size"`
	Points []Point `json:"points"`
}

type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	AvatarColor string `json:"avatarColor"`
	AvatarIcon  string `json:"avatarIcon"`
}

// LogEntry is one line of the room feed: either a chat/guess message or,
// when System is set, a notice produced by the game itself.
type LogEntry struct {
	Sender     string `json:"sender"`
	SenderID   string `json:"senderId"`
	Text       string `json:"text"`
	System     bool   `json:"system"`
	AvatarIcon string `json:"avatarIcon"`
	Timestamp  int64  `json:"timestamp"`
}

// Room is the unit of shared state, one record per code.
type Room struct {
	ID            string     `json:"id"`
	Private       bool       `json:"isPrivate"`
	Players       []Player   `json:"players"`
	CurrentDrawer string     `json:"currentDrawer"`
	CurrentWord   string     `json:"currentWord"`
	Lines         []Stroke   `json:"lines"`
	Messages      []LogEntry `json:"messages"`
	CreatedAt     int64      `json:"createdAt"`
}

// PlayerIndex returns the position of id in join order, or -1.
func (r *Room) PlayerIndex(id string) int {
	for i, p := range r.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *Room) HasPlayer(id string) bool {
	return r.PlayerIndex(id) >= 0
}

func (r *Room) IsDrawer(id string) bool {
	return id != "" && r.CurrentDrawer == id
}

// Clone deep-copies the record so callers can hand out snapshots without
// aliasing the slices underneath.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Players = append([]Player(nil), r.Players...)
	cp.Messages = append([]LogEntry(nil), r.Messages...)
	cp.Lines = make([]Stroke, len(r.Lines))
	for i, s := range r.Lines {
		cp.Lines[i] = s
		cp.Lines[i].Points = append([]Point(nil), s.Points...)
	}
	return &cp
}
