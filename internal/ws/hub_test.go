package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/auth"
	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, topic string) *Client {
	return &Client{
		hub:   hub,
		topic: topic,
		send:  make(chan []byte, 256),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHubRegistration(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, enum.TopicKitchen)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if !hub.rooms[enum.TopicKitchen][client] {
		t.Fatal("client not registered in kitchen room")
	}
}

func TestHubCleanupEmptyRoom(t *testing.T) {
	hub := startHub(t)
	client1 := mockClient(hub, enum.TopicOrders)
	client2 := mockClient(hub, enum.TopicOrders)

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)
	if n := hub.Subscribers(enum.TopicOrders); n != 2 {
		t.Fatalf("expected 2 clients, got %d", n)
	}

	hub.unregister <- client1
	time.Sleep(10 * time.Millisecond)
	if n := hub.Subscribers(enum.TopicOrders); n != 1 {
		t.Fatalf("expected 1 client after first unregister, got %d", n)
	}

	hub.unregister <- client2
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if hub.rooms[enum.TopicOrders] != nil {
		t.Fatal("room should be deleted when last client unregisters")
	}
}

func TestPublishToTopic(t *testing.T) {
	hub := startHub(t)
	kitchen1 := mockClient(hub, enum.TopicKitchen)
	kitchen2 := mockClient(hub, enum.TopicKitchen)
	orders := mockClient(hub, enum.TopicOrders)

	hub.register <- kitchen1
	hub.register <- kitchen2
	hub.register <- orders
	time.Sleep(10 * time.Millisecond)

	hub.Publish(enum.TopicKitchen, enum.EventKOTCommitted, map[string]string{"order_id": "250101001"})

	for i, client := range []*Client{kitchen1, kitchen2} {
		select {
		case msg := <-client.send:
			var received Event
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("kitchen%d: failed to unmarshal: %v", i+1, err)
			}
			if received.Type != enum.EventKOTCommitted {
				t.Errorf("kitchen%d: type %q", i+1, received.Type)
			}
			if string(received.Payload) != `{"order_id":"250101001"}` {
				t.Errorf("kitchen%d: payload %s", i+1, received.Payload)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("kitchen%d did not receive message", i+1)
		}
	}

	select {
	case <-orders.send:
		t.Fatal("orders subscriber should not receive kitchen events")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishUnencodablePayloadDropped(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, enum.TopicKitchen)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.Publish(enum.TopicKitchen, enum.EventKOTCommitted, make(chan int))

	select {
	case <-client.send:
		t.Fatal("nothing should be sent")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client := mockClient(hub, enum.TopicKitchen)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	if _, ok := <-client.send; ok {
		t.Fatal("client channel should be closed")
	}
}

func TestServeWS(t *testing.T) {
	const secret = "test-secret"
	hub := startHub(t)
	r := chi.NewRouter()
	r.Get("/ws/{topic}", func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, secret, w, r)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	token, err := auth.GenerateToken(secret, uuid.New(), "Alice", enum.StaffRoleCashier)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	t.Run("missing token", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/ws/kitchen")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", resp.StatusCode)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/ws/kitchen?token=not-a-jwt")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", resp.StatusCode)
		}
	})

	t.Run("unknown topic", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/ws/payroll?token=" + token)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", resp.StatusCode)
		}
	})

	t.Run("receives published events", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(base+"/ws/kitchen?token="+token, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.Close()

		deadline := time.Now().Add(time.Second)
		for hub.Subscribers(enum.TopicKitchen) == 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		hub.Publish(enum.TopicKitchen, enum.EventKOTCommitted, map[string]string{"order_id": "250101001"})

		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type != enum.EventKOTCommitted {
			t.Errorf("type: %q", ev.Type)
		}
	})

	t.Run("one frame per event", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(base+"/ws/orders?token="+token, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.Close()

		deadline := time.Now().Add(time.Second)
		for hub.Subscribers(enum.TopicOrders) == 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		hub.Publish(enum.TopicOrders, enum.EventRefundProcessed, map[string]string{"order_id": "250101001"})
		hub.Publish(enum.TopicOrders, enum.EventRefundProcessed, map[string]string{"order_id": "250101002"})

		for i := 0; i < 2; i++ {
			conn.SetReadDeadline(time.Now().Add(time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				t.Fatalf("read %d: %v", i, err)
			}
			var ev Event
			if err := json.Unmarshal(msg, &ev); err != nil {
				t.Fatalf("frame %d is not a single event: %v", i, err)
			}
		}
	})
}
