package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestFeedHubConcurrentSendsToOneConnection(t *testing.T) {
	hub := NewFeedHub()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register("u1", conn)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	deadline := time.Now().Add(2 * time.Second)
	for !hub.IsOnline("u1") {
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Several followees checking in at once all broadcast to the same
	// follower; the per-connection lock must serialize the writes.
	const sends = 25
	var wg sync.WaitGroup
	for i := 0; i < sends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast([]string{"u1"}, FeedEvent{Type: "checkin_created"})
		}()
	}
	wg.Wait()

	for i := 0; i < sends; i++ {
		client.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := client.ReadMessage(); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
	}
}

func TestFeedHubSendToOfflineUser(t *testing.T) {
	hub := NewFeedHub()

	if hub.IsOnline("ghost") {
		t.Error("empty hub reports user online")
	}
	if err := hub.SendToUser("ghost", FeedEvent{Type: "checkin_created"}); err == nil {
		t.Error("send to offline user succeeded")
	}
}
