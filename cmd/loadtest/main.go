// Command loadtest floods one room with simulated participants: each
// client authenticates, joins, then alternates guesses and strokes while
// reading the state stream. Useful for eyeballing reconciliation under
// concurrent writers.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

const (
	baseURL = "http://localhost:3000"
	wsURL   = "ws://localhost:3000/ws"
)

type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func main() {
	args := os.Args
	if len(args) < 2 {
		log.Fatal("Usage: loadtest <number_of_clients> [roomId]")
	}
	numClients, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatal("Invalid number of clients:", err)
	}

	roomID := ""
	if len(args) >= 3 {
		roomID = args[2]
	}

	for i := 0; i < numClients; i++ {
		go runClient(i, &roomID)
		time.Sleep(200 * time.Millisecond) // let the first client create the room
	}

	select {} // block forever (let goroutines run)
}

func postJSON(path, token string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func runClient(n int, roomID *string) {
	name := fmt.Sprintf("player%d", n)

	var guest struct {
		PlayerID string `json:"playerId"`
		Token    string `json:"token"`
	}
	if err := postJSON("/auth/guest", "", map[string]string{"name": name}, &guest); err != nil {
		log.Printf("%s: auth failed: %v", name, err)
		return
	}

	var joined struct {
		RoomID string `json:"roomId"`
	}
	join := map[string]any{"roomId": *roomID, "name": name, "avatarIcon": "🤖"}
	if err := postJSON("/room/join", guest.Token, join, &joined); err != nil {
		log.Printf("%s: join failed: %v", name, err)
		return
	}
	*roomID = joined.RoomID
	fmt.Printf("%s joined %s\n", name, joined.RoomID)

	conn, _, err := websocket.DefaultDialer.Dial(
		fmt.Sprintf("%s/%s?token=%s", wsURL, joined.RoomID, guest.Token), nil)
	if err != nil {
		log.Printf("%s: ws connect: %v", name, err)
		return
	}
	defer conn.Close()

	// Drain the state stream so the write side never stalls.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	messages := []WSMessage{
		{Type: "surface", Data: json.RawMessage(`{"w":800,"h":600}`)},
		{Type: "guess", Data: json.RawMessage(fmt.Sprintf(`{"text":"guess from %s"}`, name))},
		{Type: "stroke_begin", Data: json.RawMessage(fmt.Sprintf(`{"color":"#000000","size":5,"x":%d,"y":%d}`, rand.Intn(800), rand.Intn(600)))},
		{Type: "stroke_point", Data: json.RawMessage(fmt.Sprintf(`{"x":%d,"y":%d}`, rand.Intn(800), rand.Intn(600)))},
		{Type: "stroke_end", Data: json.RawMessage(`{}`)},
	}

	for i := 0; i < 100; i++ {
		msg := messages[rand.Intn(len(messages))]
		raw, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			log.Printf("%s: write error: %v", name, err)
			return
		}
		time.Sleep(time.Duration(100+rand.Intn(900)) * time.Millisecond)
	}
	fmt.Printf("%s finished sending messages\n", name)
}
