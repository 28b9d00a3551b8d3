package daemon

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"railcheck/internal/logging"
	"railcheck/internal/overlay"
	"railcheck/internal/plans"
)

const maxDecodeErrorsPerConn = 3

// overlayRequest is a frame sent by a plan view.
type overlayRequest struct {
	Type   string  `json:"type"`
	Plan   string  `json:"plan,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// overlayFrame is a frame pushed to a plan view.
type overlayFrame struct {
	Type    string  `json:"type"`
	Plan    string  `json:"plan,omitempty"`
	SVG     string  `json:"svg,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Shapes  int     `json:"shapes"`
	Message string  `json:"message,omitempty"`
}

type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func (p *wsPeer) writeFrame(frame overlayFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

func (p *wsPeer) writeError(message string) error {
	return p.writeFrame(overlayFrame{Type: "error", Message: message})
}

// overlayHub serves /ws/overlay. Each connection owns a canvas and a
// rebuilder, so resize bursts from one view never delay another.
type overlayHub struct {
	plans  *plans.Library
	quiet  time.Duration
	logger *slog.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newOverlayHub(lib *plans.Library, quiet time.Duration, logger *slog.Logger) *overlayHub {
	return &overlayHub{
		plans:  lib,
		quiet:  quiet,
		logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

func (h *overlayHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(h.serve).ServeHTTP(w, r)
}

func (h *overlayHub) track(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *overlayHub) untrack(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}

// closeAll disconnects every open view. Hijacked connections are not closed
// by http.Server.Shutdown.
func (h *overlayHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.Close()
	}
}

func (h *overlayHub) serve(conn *websocket.Conn) {
	h.track(conn)
	defer func() {
		h.untrack(conn)
		_ = conn.Close()
	}()
	// Clear the server-wide write timeout inherited from the HTTP request.
	_ = conn.SetDeadline(time.Time{})

	logger := h.logger
	if req := conn.Request(); req != nil {
		logger = logging.WithContext(req.Context(), logger)
	}
	session := newOverlaySession(h.plans, h.quiet, &wsPeer{encoder: json.NewEncoder(conn)}, logger)
	defer session.close()

	decoder := json.NewDecoder(conn)
	decodeErrors := 0
	for {
		var req overlayRequest
		if err := decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			_ = session.peer.writeError("invalid frame payload")
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			decoder = json.NewDecoder(conn)
			continue
		}
		decodeErrors = 0
		session.handle(req)
	}
}

type overlaySession struct {
	plans     *plans.Library
	peer      *wsPeer
	canvas    *overlay.SVGCanvas
	rebuilder *overlay.Rebuilder
	logger    *slog.Logger

	mu      sync.Mutex
	current plans.Plan
	loaded  bool
}

func newOverlaySession(lib *plans.Library, quiet time.Duration, peer *wsPeer, logger *slog.Logger) *overlaySession {
	canvas := overlay.NewSVGCanvas()
	s := &overlaySession{
		plans:     lib,
		peer:      peer,
		canvas:    canvas,
		rebuilder: overlay.NewRebuilder(lib.Builder(), canvas, quiet),
		logger:    logger,
	}
	s.rebuilder.OnBuilt(s.push)
	return s
}

func (s *overlaySession) handle(req overlayRequest) {
	switch strings.ToLower(strings.TrimSpace(req.Type)) {
	case "load":
		plan, err := s.plans.Get(req.Plan)
		if err != nil {
			_ = s.peer.writeError(err.Error())
			return
		}
		s.mu.Lock()
		s.current = plan
		s.loaded = true
		s.mu.Unlock()
		s.rebuilder.Load(plan.RegionMap(), s.display(plan, req))
	case "resize":
		s.mu.Lock()
		plan, loaded := s.current, s.loaded
		s.mu.Unlock()
		if !loaded {
			_ = s.peer.writeError("no plan loaded")
			return
		}
		s.rebuilder.Trigger(s.display(plan, req))
	default:
		_ = s.peer.writeError("unsupported frame type")
	}
}

// display sizes the plan as requested; a zero dimension keeps the natural one.
func (s *overlaySession) display(plan plans.Plan, req overlayRequest) overlay.DisplayContext {
	width, height := req.Width, req.Height
	if width <= 0 {
		width = float64(plan.NaturalWidth)
	}
	if height <= 0 {
		height = float64(plan.NaturalHeight)
	}
	return plan.Display(width, height)
}

// push runs after each rebuild while the canvas is still consistent.
func (s *overlaySession) push(dc overlay.DisplayContext, drawn int) {
	s.mu.Lock()
	planID := s.current.ID
	s.mu.Unlock()

	frame := overlayFrame{
		Type:   "overlay",
		Plan:   planID,
		SVG:    s.canvas.String(),
		Width:  dc.DisplayWidth,
		Height: dc.DisplayHeight,
		Shapes: drawn,
	}
	if err := s.peer.writeFrame(frame); err != nil {
		s.logger.Debug("overlay push failed",
			logging.String(logging.FieldPlan, planID),
			logging.Error(err),
		)
	}
}

func (s *overlaySession) close() {
	s.rebuilder.Stop()
}
