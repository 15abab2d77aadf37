package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/nisimpson/dynaroute/appsync"
	"github.com/nisimpson/dynaroute/internal/app"
	"github.com/sirupsen/logrus"
)

// maxEventBytes bounds request bodies.
const maxEventBytes = 1 << 20

type server struct {
	app      *app.App
	log      logrus.FieldLogger
	handlers map[string]appsync.Handler
}

func newServer(a *app.App, log logrus.FieldLogger) *server {
	s := &server{
		app:      a,
		log:      log,
		handlers: make(map[string]appsync.Handler),
	}
	for _, repo := range a.Repositories() {
		name := repo.Domain().Name
		router, _ := a.Router(name)
		s.handlers[name] = appsync.NewHandler(router, func(o *appsync.HandlerOptions) {
			o.Logger = log
		})
	}
	return s
}

// Routes returns the HTTP handler.
//
//	POST /{domain}  body: AppSync resolver event, response: resolver payload
//	GET  /healthz
func (s *server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLog)

	r.Get("/healthz", s.health)
	r.Post("/{domain}", s.resolve)
	return r
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *server) resolve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "domain")
	handler, ok := s.handlers[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown domain "+name)
		return
	}

	var event appsync.Event
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err := dec.Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event: "+err.Error())
		return
	}
	if event.Info.FieldName == "" {
		writeError(w, http.StatusBadRequest, "info.fieldName is required")
		return
	}

	payload, err := handler(r.Context(), event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    ww.Status(),
			"duration":  time.Since(start).String(),
			"requestId": chimw.GetReqID(r.Context()),
		}).Info("request")
	})
}

// writeJSON always writes a body; a nil payload encodes as null.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": message,
			"code":    status,
		},
	})
}
