package daemon

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"railcheck/internal/config"
)

func dialOverlay(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/overlay"
	conn, err := websocket.Dial(url, "", srv.URL)
	if err != nil {
		t.Fatalf("dial overlay: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := conn.SetDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, req overlayRequest) {
	t.Helper()
	if err := websocket.JSON.Send(conn, req); err != nil {
		t.Fatalf("send %s: %v", req.Type, err)
	}
}

func receive(t *testing.T, conn *websocket.Conn) overlayFrame {
	t.Helper()
	var frame overlayFrame
	if err := websocket.JSON.Receive(conn, &frame); err != nil {
		t.Fatalf("receive: %v", err)
	}
	return frame
}

func TestOverlaySocketLoadAndResize(t *testing.T) {
	_, srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Overlay.DebounceMS = 150
	})
	conn := dialOverlay(t, srv)

	send(t, conn, overlayRequest{Type: "load", Plan: "R1_haut", Width: 500, Height: 250})
	loaded := receive(t, conn)
	if loaded.Type != "overlay" || loaded.Plan != "R1_haut" || loaded.Shapes != 2 {
		t.Fatalf("load frame = %+v", loaded)
	}
	if loaded.Width != 500 || !strings.Contains(loaded.SVG, `class="hl"`) {
		t.Fatalf("load frame = %+v", loaded)
	}

	// A burst of resizes produces one rebuild at the last size.
	for _, width := range []float64{400, 300, 250} {
		send(t, conn, overlayRequest{Type: "resize", Width: width, Height: width / 2})
	}
	resized := receive(t, conn)
	if resized.Type != "overlay" || resized.Width != 250 || resized.Height != 125 {
		t.Fatalf("resize frame = %+v", resized)
	}
	if !strings.Contains(resized.SVG, `x="25"`) {
		t.Fatalf("resized overlay not rescaled:\n%s", resized.SVG)
	}

	if err := conn.SetReadDeadline(time.Now().Add(400 * time.Millisecond)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	var extra overlayFrame
	if err := websocket.JSON.Receive(conn, &extra); err == nil {
		t.Fatalf("unexpected extra frame: %+v", extra)
	}
}

func TestOverlaySocketErrors(t *testing.T) {
	_, srv := newTestServer(t, nil)

	tests := []struct {
		name string
		req  overlayRequest
		want string
	}{
		{name: "resize before load", req: overlayRequest{Type: "resize", Width: 10, Height: 10}, want: "no plan loaded"},
		{name: "unknown plan", req: overlayRequest{Type: "load", Plan: "R9_haut"}, want: "unknown plan"},
		{name: "unknown frame", req: overlayRequest{Type: "zoom"}, want: "unsupported frame type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dialOverlay(t, srv)
			send(t, conn, tt.req)
			frame := receive(t, conn)
			if frame.Type != "error" || !strings.Contains(frame.Message, tt.want) {
				t.Fatalf("frame = %+v, want error %q", frame, tt.want)
			}
		})
	}
}

func TestOverlaySocketNaturalSize(t *testing.T) {
	_, srv := newTestServer(t, nil)
	conn := dialOverlay(t, srv)

	send(t, conn, overlayRequest{Type: "load", Plan: "train"})
	frame := receive(t, conn)
	if frame.Width != 200 || frame.Height != 50 || frame.Shapes != 2 {
		t.Fatalf("frame = %+v", frame)
	}
}
