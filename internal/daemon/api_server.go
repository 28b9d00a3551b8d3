package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"railcheck/internal/api"
	"railcheck/internal/catalog"
	"railcheck/internal/config"
	"railcheck/internal/export"
	"railcheck/internal/logging"
	"railcheck/internal/plans"
	"railcheck/internal/store"
)

// maxUploadBytes bounds a multipart photo upload when no attachment limit is configured.
const maxUploadBytes = 32 << 20

type apiServer struct {
	bind     string
	token    string
	logger   *slog.Logger
	daemon   *Daemon
	records  *api.RecordService
	plans    *plans.Library
	overlays *overlayHub
	maxBytes int64

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:     strings.TrimSpace(cfg.Paths.APIBind),
		token:    strings.TrimSpace(cfg.Paths.APIToken),
		logger:   logging.NewComponentLogger(logger, "api-server"),
		daemon:   d,
		records:  d.records,
		plans:    d.plans,
		maxBytes: cfg.Attachments.MaxBytes,
	}
	srv.overlays = newOverlayHub(d.plans, time.Duration(cfg.Overlay.DebounceMS)*time.Millisecond, srv.logger)
	srv.server = &http.Server{
		Handler:           srv.handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) handler() http.Handler {
	mux := http.NewServeMux()
	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, authMiddleware(s.token, h))
	}

	route("GET /api/status", s.handleStatus)
	route("GET /api/catalog", s.handleCatalog)
	route("GET /api/profile", s.handleGetProfile)
	route("PUT /api/profile", s.handlePutProfile)
	route("GET /api/records", s.handleListRecords)
	route("POST /api/records", s.handleAddRecord)
	route("DELETE /api/records", s.handleClearRecords)
	route("GET /api/records/{id}", s.handleGetRecord)
	route("PATCH /api/records/{id}", s.handleUpdateComment)
	route("DELETE /api/records/{id}", s.handleDeleteRecord)
	route("GET /api/records/{id}/attachments", s.handleListAttachments)
	route("POST /api/records/{id}/attachments", s.handleAttach)
	route("GET /api/export", s.handleExport)
	route("GET /api/plans", s.handleListPlans)
	route("GET /api/plans/{id}/overlay.svg", s.handleOverlay)
	route("GET /api/plans/{id}/hit", s.handleHit)
	mux.Handle("GET /ws/overlay", authMiddleware(s.token, s.overlays.ServeHTTP))

	return s.withCorrelation(mux)
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("api bind address is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	s.overlays.closeAll()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// withCorrelation tags every request with a correlation id, honoring one
// supplied by the client.
func (s *apiServer) withCorrelation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Correlation-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Correlation-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.WithCorrelationID(r.Context(), id)))
	})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.daemon.Status(r.Context())
	s.writeJSON(w, http.StatusOK, api.DaemonStatus{
		Running:         status.Running,
		PID:             status.PID,
		DatabasePath:    status.DatabasePath,
		LockFilePath:    status.LockFilePath,
		PlansDir:        status.PlansDir,
		Records:         status.Stats.Records,
		Attachments:     status.Stats.Attachments,
		AttachmentBytes: status.Stats.AttachmentBytes,
		Issues:          status.Issues,
	})
}

func (s *apiServer) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.BuildCatalog())
}

func (s *apiServer) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.records.Profile(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

func (s *apiServer) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var req api.Profile
	if !s.decode(w, r, &req) {
		return
	}
	profile, err := s.records.SetProfile(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

func (s *apiServer) handleListRecords(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.RecordListResponse{Items: items})
}

func (s *apiServer) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	var req api.NewRecordRequest
	if !s.decode(w, r, &req) {
		return
	}
	rec, err := s.records.Add(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.RecordResponse{Record: rec})
}

func (s *apiServer) handleClearRecords(w http.ResponseWriter, r *http.Request) {
	res, err := s.records.Clear(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *apiServer) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.records.Describe(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.RecordResponse{Record: rec})
}

func (s *apiServer) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req api.CommentRequest
	if !s.decode(w, r, &req) {
		return
	}
	rec, err := s.records.UpdateComment(r.Context(), r.PathValue("id"), req.Comment)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.RecordResponse{Record: rec})
}

func (s *apiServer) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.records.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.Attachments(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.AttachmentListResponse{Items: items})
}

// handleAttach accepts either a multipart form with a "photo" file field or
// a raw body named by the "name" query parameter.
func (s *apiServer) handleAttach(w http.ResponseWriter, r *http.Request) {
	limit := int64(maxUploadBytes)
	if s.maxBytes > 0 {
		limit = s.maxBytes + 1<<20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var (
		name        string
		contentType string
		data        []byte
		err         error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		file, header, ferr := r.FormFile("photo")
		if ferr != nil {
			s.writeError(w, http.StatusBadRequest, "missing photo field: "+ferr.Error())
			return
		}
		defer file.Close()
		name = header.Filename
		contentType = header.Header.Get("Content-Type")
		data, err = io.ReadAll(file)
	} else {
		name = r.URL.Query().Get("name")
		contentType = r.Header.Get("Content-Type")
		data, err = io.ReadAll(r.Body)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, fmt.Errorf("%w: upload exceeds %d bytes", api.ErrAttachmentTooLarge, tooLarge.Limit))
			return
		}
		s.writeError(w, http.StatusBadRequest, "read photo: "+err.Error())
		return
	}
	if len(data) == 0 {
		s.writeError(w, http.StatusBadRequest, "empty photo")
		return
	}

	att, err := s.records.Attach(r.Context(), r.PathValue("id"), name, contentType, data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, att)
}

func (s *apiServer) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	res, err := s.records.Export(r.Context(), &buf)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("export download interrupted", logging.Error(err))
	}
}

func (s *apiServer) handleListPlans(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.PlanListResponse{Items: api.FromPlans(s.plans.List())})
}

func (s *apiServer) handleOverlay(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	width, height, ok := s.displaySize(w, r, id)
	if !ok {
		return
	}
	canvas, err := s.plans.Overlay(id, width, height)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := canvas.WriteTo(w); err != nil {
		s.logger.Warn("overlay write failed", logging.String(logging.FieldPlan, id), logging.Error(err))
	}
}

func (s *apiServer) handleHit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	width, height, ok := s.displaySize(w, r, id)
	if !ok {
		return
	}
	query := r.URL.Query()
	x, errX := strconv.ParseFloat(query.Get("x"), 64)
	y, errY := strconv.ParseFloat(query.Get("y"), 64)
	if errX != nil || errY != nil {
		s.writeError(w, http.StatusBadRequest, "x and y must be numbers")
		return
	}
	el, hit, err := s.plans.Hit(id, x, y, width, height)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := api.HitResponse{Hit: hit}
	if hit {
		resp.Zone = el.Zone
		if matched, ok := catalog.MatchZone(planOptions(id), el.Zone); ok {
			resp.Matched = matched
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// displaySize reads width and height query parameters, defaulting to the
// plan's natural size.
func (s *apiServer) displaySize(w http.ResponseWriter, r *http.Request, id string) (float64, float64, bool) {
	plan, err := s.plans.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return 0, 0, false
	}
	width, height := float64(plan.NaturalWidth), float64(plan.NaturalHeight)
	query := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *float64
	}{{"width", &width}, {"height", &height}} {
		raw := strings.TrimSpace(query.Get(p.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid "+p.key)
			return 0, 0, false
		}
		*p.dst = v
	}
	return width, height, true
}

// planOptions lists what a click on plan id may select: carriages on the
// train schematic, zones on a saloon plan.
func planOptions(id string) []string {
	if id == catalog.TrainPlan.ID {
		return catalog.Carriages()
	}
	for _, carriage := range catalog.Carriages() {
		levels, err := catalog.Levels(carriage)
		if err != nil {
			continue
		}
		for _, level := range levels {
			ref, ok := catalog.Plan(carriage, level)
			if !ok || ref.ID != id {
				continue
			}
			zones, _ := catalog.Zones(carriage, level)
			return zones
		}
	}
	return nil
}

func (s *apiServer) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// fail maps domain errors onto HTTP status codes.
func (s *apiServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, plans.ErrUnknownPlan):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInvalidRecord),
		errors.Is(err, catalog.ErrUnknownCarriage),
		errors.Is(err, catalog.ErrUnknownLevel),
		errors.Is(err, catalog.ErrLevelNotApplicable),
		errors.Is(err, catalog.ErrZoneRequired),
		errors.Is(err, api.ErrAttachmentType):
		status = http.StatusBadRequest
	case errors.Is(err, api.ErrAttachmentTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, export.ErrNothingToExport):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		logging.WithContext(r.Context(), s.logger).Error("request failed",
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	}
	s.writeError(w, status, err.Error())
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
