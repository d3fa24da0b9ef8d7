package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestServer(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(s.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestServerReplaysSceneOnConnect(t *testing.T) {
	g := streamScene(t)
	s := NewServer(g, Hooks{}, nil)
	conn := dialTestServer(t, s)

	seen := map[string]CreateMessage{}
	for range g.Bodies {
		var msg CreateMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type != MessageTypeCreate {
			t.Fatalf("got %q message before replay finished", msg.Type)
		}
		seen[msg.ID] = msg
	}
	for _, b := range g.Bodies {
		if _, ok := seen[b.Desc.Name]; !ok {
			t.Errorf("no create message for %q", b.Desc.Name)
		}
	}
	if seen["Saturn"].Ring == nil {
		t.Error("Saturn's create message lost its ring")
	}
}

func TestServerDispatchesSelect(t *testing.T) {
	g := streamScene(t)
	selected := make(chan string, 1)
	s := NewServer(g, Hooks{
		Select: func(name string) bool {
			selected <- name
			return name == "Saturn"
		},
	}, nil)
	conn := dialTestServer(t, s)

	for range g.Bodies {
		var msg CreateMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatal(err)
		}
	}

	if err := conn.WriteJSON(InboundMessage{Type: MessageTypeSelect, Name: "Saturn"}); err != nil {
		t.Fatal(err)
	}
	select {
	case name := <-selected:
		if name != "Saturn" {
			t.Fatalf("hook got %q, want Saturn", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("select hook never ran")
	}

	// Selecting an unknown body yields an info notice.
	if err := conn.WriteJSON(InboundMessage{Type: MessageTypeSelect, Name: "Pluto"}); err != nil {
		t.Fatal(err)
	}
	<-selected
	var info InfoMessage
	if err := conn.ReadJSON(&info); err != nil {
		t.Fatal(err)
	}
	if info.Type != MessageTypeInfo || !strings.Contains(info.Message, "Pluto") {
		t.Fatalf("got %+v, want an info notice naming Pluto", info)
	}
}

func TestServerBroadcastsUpdates(t *testing.T) {
	g := streamScene(t)
	s := NewServer(g, Hooks{}, nil)
	conn := dialTestServer(t, s)

	for range g.Bodies {
		var msg CreateMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatal(err)
		}
	}

	// The client registers after the replay; wait for it to show up
	// before broadcasting.
	deadline := time.Now().Add(5 * time.Second)
	for s.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	s.Broadcast(1)
	for range g.Bodies {
		var msg UpdateMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type != MessageTypeUpdate {
			t.Fatalf("got %q message, want update", msg.Type)
		}
		if msg.ID == "" || msg.ServerTime == 0 {
			t.Fatalf("incomplete update: %+v", msg)
		}
	}
}

func TestServerAnswersPing(t *testing.T) {
	g := streamScene(t)
	s := NewServer(g, Hooks{}, nil)
	conn := dialTestServer(t, s)

	for range g.Bodies {
		var msg CreateMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatal(err)
		}
	}

	if err := conn.WriteJSON(InboundMessage{Type: MessageTypePing, ClientTime: 42.5}); err != nil {
		t.Fatal(err)
	}
	var pong PongMessage
	if err := conn.ReadJSON(&pong); err != nil {
		t.Fatal(err)
	}
	if pong.Type != MessageTypePong || pong.ClientTime != 42.5 || pong.ServerTime == 0 {
		t.Fatalf("bad pong: %+v", pong)
	}
}
