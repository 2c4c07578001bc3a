package fitserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"

	"github.com/evefit/fitcalc/pkg/catalog"
	"github.com/evefit/fitcalc/pkg/fit"
	"github.com/evefit/fitcalc/pkg/fitsession"
	"github.com/evefit/fitcalc/pkg/obs"
)

// errUnknownType is returned when a holder-creation request names a type
// id absent from the catalog.
var errUnknownType = errors.New("fitserver: unknown type id")

// ServerConfig configures a Server: an Address plus WebSocket-upgrader
// knobs and a graceful-shutdown timeout.
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080".
	Address string

	// ReadBufferSize/WriteBufferSize size the WebSocket upgrader's buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the WebSocket handshake's Origin header.
	// Defaults to same-origin-only if nil.
	CheckOrigin func(r *http.Request) bool

	// ShutdownTimeout bounds how long Shutdown waits for in-flight HTTP
	// requests to drain. Hijacked WebSocket connections are not waited for.
	ShutdownTimeout time.Duration

	// Sessions configures the underlying fitsession.Manager.
	Sessions fitsession.ManagerConfig
}

// DefaultServerConfig returns sane defaults for local/demo use.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:         ":8080",
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		ShutdownTimeout: 10 * time.Second,
		Sessions:        fitsession.DefaultManagerConfig(),
	}
}

// Server is the REST + WebSocket surface over the fit-level API.
type Server struct {
	config   *ServerConfig
	catalog  *catalog.Catalog
	sessions *fitsession.Manager
	metrics  *obs.Metrics
	tracer   trace.Tracer

	upgrader websocket.Upgrader
	logger   *slog.Logger
	router   chi.Router

	hostedMu sync.RWMutex
	hosted   map[string]*hostedFit

	httpServer *http.Server
}

// New builds a Server around cat. If config is nil, DefaultServerConfig is
// used. Pass metrics to wire Prometheus collectors (nil disables them).
func New(cat *catalog.Catalog, config *ServerConfig, metrics *obs.Metrics, logger *slog.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "fitserver")

	s := &Server{
		config:   config,
		catalog:  cat,
		sessions: fitsession.NewManager(config.Sessions, logger),
		metrics:  metrics,
		logger:   logger,
		hosted:   make(map[string]*hostedFit),
		tracer:   obs.Tracer(""),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			// A nil CheckOrigin keeps gorilla/websocket's same-origin check.
			CheckOrigin: config.CheckOrigin,
		},
	}
	s.sessions.OnEvict(func(id string, _ *fit.Fit) {
		s.hostedMu.Lock()
		if hf, ok := s.hosted[id]; ok {
			hf.closeAllClients()
			delete(s.hosted, id)
		}
		s.hostedMu.Unlock()
	})

	s.router = s.buildRouter()
	return s
}

// Router exposes the underlying chi.Router, e.g. for tests using
// httptest.NewServer(s.Router()).
func (s *Server) Router() chi.Router { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/fits", func(r chi.Router) {
		r.Post("/", s.handleCreateFit)
		r.Get("/{fitID}/validate", s.handleValidate)
		r.Delete("/{fitID}", s.handleDeleteFit)
		r.Post("/{fitID}/holders", s.handleAddHolder)
		r.Get("/{fitID}/ws", s.handleWebSocket)
	})

	r.Route("/holders", func(r chi.Router) {
		r.Delete("/{holderID}", s.handleRemoveHolder)
		r.Post("/{holderID}/pair", s.handlePair)
		r.Patch("/{holderID}/state", s.handleSetState)
		r.Patch("/{holderID}/skill-level", s.handleSetSkillLevel)
		r.Get("/{holderID}/attributes/{attrID}", s.handleGetAttribute)
	})

	return r
}

// ListenAndServe starts the HTTP server; it blocks until the server stops
// or an unrecoverable error occurs.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address,
		Handler: s.router,
	}
	s.logger.Info("fitserver listening", "address", s.config.Address)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server and the session manager's
// idle-cleanup loop.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sessions.Close()
	if s.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) lookupHosted(fitID string) (*hostedFit, bool) {
	s.hostedMu.RLock()
	defer s.hostedMu.RUnlock()
	hf, ok := s.hosted[fitID]
	return hf, ok
}

// handleCreateFit implements POST /fits.
func (s *Server) handleCreateFit(w http.ResponseWriter, r *http.Request) {
	id := fitsession.NewID()
	hf := newHostedFit(id, s.catalog, s.logger, s.metrics)

	if err := s.sessions.Create(id, hf.f); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.hostedMu.Lock()
	s.hosted[id] = hf
	s.hostedMu.Unlock()

	if s.metrics != nil {
		s.metrics.SetActiveFits(s.sessions.Len())
	}
	writeJSON(w, http.StatusCreated, createFitResponse{ID: id})
}

// handleDeleteFit implements DELETE /fits/{fitID}.
func (s *Server) handleDeleteFit(w http.ResponseWriter, r *http.Request) {
	fitID := chi.URLParam(r, "fitID")
	if err := s.sessions.Remove(fitID); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	s.hostedMu.Lock()
	if hf, ok := s.hosted[fitID]; ok {
		hf.closeAllClients()
		delete(s.hosted, fitID)
	}
	s.hostedMu.Unlock()
	if s.metrics != nil {
		s.metrics.SetActiveFits(s.sessions.Len())
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddHolder implements POST /fits/{fitID}/holders.
func (s *Server) handleAddHolder(w http.ResponseWriter, r *http.Request) {
	fitID := chi.URLParam(r, "fitID")
	hf, ok := s.lookupHosted(fitID)
	if !ok {
		writeError(w, http.StatusNotFound, fitsession.ErrNotFound)
		return
	}

	var req addHolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	t, ok := s.catalog.Type(catalog.TypeID(req.TypeID))
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownType)
		return
	}

	h := fit.NewHolder(t)
	if err := hf.f.Add(h); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	holderID := hf.registerHolder(h)
	hf.flushInvalidations()

	writeJSON(w, http.StatusCreated, addHolderResponse{ID: holderID})
}

// handleRemoveHolder implements DELETE /holders/{holderID}.
func (s *Server) handleRemoveHolder(w http.ResponseWriter, r *http.Request) {
	holderID := chi.URLParam(r, "holderID")
	hf, h, ok := s.findHolder(holderID)
	if !ok {
		writeError(w, http.StatusNotFound, fitsession.ErrNotFound)
		return
	}
	if err := hf.f.Remove(h); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	hf.unregisterHolder(holderID)
	hf.flushInvalidations()
	w.WriteHeader(http.StatusNoContent)
}

// handlePair implements POST /holders/{holderID}/pair, establishing the
// module<->charge _other relation.
func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	holderID := chi.URLParam(r, "holderID")
	hf, h, ok := s.findHolder(holderID)
	if !ok {
		writeError(w, http.StatusNotFound, fitsession.ErrNotFound)
		return
	}

	var req pairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	other, ok := hf.holder(req.OtherHolderID)
	if !ok {
		writeError(w, http.StatusNotFound, fitsession.ErrNotFound)
		return
	}

	if err := hf.f.Pair(h, other); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	hf.flushInvalidations()
	w.WriteHeader(http.StatusNoContent)
}

// handleSetState implements PATCH /holders/{holderID}/state.
func (s *Server) handleSetState(w http.ResponseWriter, r *http.Request) {
	holderID := chi.URLParam(r, "holderID")
	hf, h, ok := s.findHolder(holderID)
	if !ok {
		writeError(w, http.StatusNotFound, fitsession.ErrNotFound)
		return
	}

	var req setStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.SetState(catalog.State(req.State)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	hf.flushInvalidations()
	w.WriteHeader(http.StatusNoContent)
}

// handleSetSkillLevel implements PATCH /holders/{holderID}/skill-level, the
// one externally writable attribute.
func (s *Server) handleSetSkillLevel(w http.ResponseWriter, r *http.Request) {
	holderID := chi.URLParam(r, "holderID")
	hf, h, ok := s.findHolder(holderID)
	if !ok {
		writeError(w, http.StatusNotFound, fitsession.ErrNotFound)
		return
	}

	var req setSkillLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.SetSkillLevel(req.Level); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	hf.flushInvalidations()
	w.WriteHeader(http.StatusNoContent)
}

// handleGetAttribute implements GET /holders/{holderID}/attributes/{attrID}.
func (s *Server) handleGetAttribute(w http.ResponseWriter, r *http.Request) {
	holderID := chi.URLParam(r, "holderID")
	_, h, ok := s.findHolder(holderID)
	if !ok {
		writeError(w, http.StatusNotFound, fitsession.ErrNotFound)
		return
	}

	attrID, err := strconv.Atoi(chi.URLParam(r, "attrID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	v, err := obs.TraceRead(r.Context(), s.tracer, int32(h.Type.ID), int32(attrID), func(context.Context) (float64, error) {
		return h.Get(catalog.AttrID(attrID))
	})
	if s.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.ObserveRead(outcome, time.Since(start).Seconds(), true, strconv.Itoa(attrID))
	}
	if err != nil {
		if errors.Is(err, fit.ErrAttributeNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, attributeResponse{Value: v})
}

// handleValidate implements GET /fits/{fitID}/validate.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	fitID := chi.URLParam(r, "fitID")
	hf, ok := s.lookupHosted(fitID)
	if !ok {
		writeError(w, http.StatusNotFound, fitsession.ErrNotFound)
		return
	}

	var resp validateResponse
	_ = obs.TraceValidate(r.Context(), s.tracer, func(context.Context) (map[string]int, error) {
		result := hf.f.Validate()
		resp = validateResponse{OK: len(result) == 0}
		counts := make(map[string]int, len(result))
		if len(result) > 0 {
			resp.Violations = make(map[string][]violationDTO, len(result))
			for name, violations := range result {
				dtos := make([]violationDTO, 0, len(violations))
				for _, v := range violations {
					dtos = append(dtos, violationDTO{HolderID: hf.holderID(v.Holder), Data: v.Data})
				}
				resp.Violations[name] = dtos
				counts[name] = len(violations)
				if s.metrics != nil {
					s.metrics.ObserveRestrictionCheck(name, "fail")
				}
			}
		} else if s.metrics != nil {
			s.metrics.ObserveRestrictionCheck("all", "pass")
		}
		return counts, nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) findHolder(holderID string) (*hostedFit, *fit.Holder, bool) {
	s.hostedMu.RLock()
	defer s.hostedMu.RUnlock()
	for _, hf := range s.hosted {
		if h, ok := hf.holder(holderID); ok {
			return hf, h, true
		}
	}
	return nil, nil, false
}
