package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want %d", h.ClientCount(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// readFrame reads one SSE frame, which ends with a blank line
func readFrame(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		if line == "" {
			return strings.Join(lines, "\n")
		}
		lines = append(lines, line)
	}
}

func TestBroadcastReachesClient(t *testing.T) {
	h, _ := startHub(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	stream := bufio.NewReader(resp.Body)
	if frame := readFrame(t, stream); frame != ": connected" {
		t.Errorf("first frame = %q", frame)
	}
	waitForClients(t, h, 1)

	h.Broadcast(map[string]string{"type": "person_created"})

	if frame := readFrame(t, stream); frame != `data: {"type":"person_created"}` {
		t.Errorf("event frame = %q", frame)
	}
}

func TestClientDisconnect(t *testing.T) {
	h, _ := startHub(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	readFrame(t, bufio.NewReader(resp.Body))
	waitForClients(t, h, 1)

	cancel()
	resp.Body.Close()
	waitForClients(t, h, 0)
}

func TestStoppedHubRejectsClients(t *testing.T) {
	h, cancel := startHub(t)
	cancel()
	<-h.done

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestKeepAlive(t *testing.T) {
	h, _ := startHub(t)
	h.KeepAlive = 20 * time.Millisecond
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	stream := bufio.NewReader(resp.Body)
	readFrame(t, stream)
	if frame := readFrame(t, stream); frame != ": keepalive" {
		t.Errorf("frame = %q, want keepalive", frame)
	}
}
