package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// signatureWSServer answers signatureSubscribe with subID and, when
// notify is non-nil, follows up with the one-shot notification.
func signatureWSServer(t *testing.T, subID int64, notify interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer c.Close()

		_, msg, err := c.ReadMessage()
		if err != nil {
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			t.Errorf("unmarshal request: %v", err)
			return
		}
		if req.Method != "signatureSubscribe" {
			t.Errorf("expected signatureSubscribe, got %s", req.Method)
		}

		if err := c.WriteJSON(wsSubscribeResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  subID,
		}); err != nil {
			return
		}

		if notify != nil {
			time.Sleep(50 * time.Millisecond)
			if err := c.WriteJSON(wsNotification{
				JSONRPC: "2.0",
				Method:  "signatureNotification",
				Params: &wsNotificationParams{
					Subscription: subID,
					Result: wsNotificationResult{
						Context: wsContext{Slot: 5207624},
						Value:   wsSignatureValue{Err: notify},
					},
				},
			}); err != nil {
				return
			}
		}

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWSClient_SubscribeSignature_Success(t *testing.T) {
	// Err stays nil in the notification, marshal drops nil so use the
	// explicit json null via a typed nil inside the wrapper.
	server := signatureWSServer(t, 24040, json.RawMessage("null"))
	defer server.Close()

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	ch, err := client.SubscribeSignature(ctx, "testsig")
	if err != nil {
		t.Fatalf("SubscribeSignature: %v", err)
	}

	select {
	case notif, ok := <-ch:
		if !ok {
			t.Fatal("channel closed without notification")
		}
		if notif.Signature != "testsig" {
			t.Errorf("expected testsig, got %s", notif.Signature)
		}
		if notif.Slot != 5207624 {
			t.Errorf("expected slot 5207624, got %d", notif.Slot)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for notification")
	}

	// One-shot: the channel must be closed now.
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after notification")
		}
	case <-time.After(time.Second):
		t.Error("channel not closed after notification")
	}
}

func TestWSClient_SubscribeSignature_TxError(t *testing.T) {
	server := signatureWSServer(t, 7, map[string]interface{}{
		"InstructionError": []interface{}{0, "Custom"},
	})
	defer server.Close()

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	ch, err := client.SubscribeSignature(ctx, "failedsig")
	if err != nil {
		t.Fatalf("SubscribeSignature: %v", err)
	}

	select {
	case notif := <-ch:
		if notif.Err == nil {
			t.Error("expected on-chain error in notification")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for notification")
	}
}

func TestWSClient_Close(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if !client.closed.Load() {
		t.Error("client should be closed")
	}

	// Double close should be safe
	if err := client.Close(); err != nil {
		t.Errorf("double Close: %v", err)
	}

	if _, err := client.SubscribeSignature(ctx, "sig"); err == nil {
		t.Error("expected error subscribing after close")
	}
}

func TestWSClient_SubscribeTimeout(t *testing.T) {
	// Server never confirms the subscription.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	config := DefaultWSConfig()
	config.SubscribeTimeout = 100 * time.Millisecond

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), &config)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	if _, err := client.SubscribeSignature(ctx, "sig"); err == nil {
		t.Error("expected subscription timeout")
	}
}
