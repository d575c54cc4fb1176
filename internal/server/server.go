// Package server hosts generated descriptions over HTTP.
//
// Every request builds its own document, so concurrent requests never share
// a schema repository.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mark3labs/msgdoc/internal/document"
	"github.com/mark3labs/msgdoc/internal/logger"
)

// DefaultDocumentName is the {name} segment of the description route.
const DefaultDocumentName = "v1"

// BuildFunc produces a transformed document for one request.
type BuildFunc func(ctx context.Context, legacy bool) (*openapi3.T, error)

// Config configures the router.
type Config struct {
	// DocumentName is matched against /swagger/{name}/swagger.{ext}.
	DocumentName string
	// Legacy is the mode used when a request has no legacy query parameter.
	Legacy bool
	Build  BuildFunc
	// Registry receives the request metrics served on /metrics. A private
	// registry is created when nil.
	Registry *prometheus.Registry
}

type handler struct {
	cfg     Config
	log     *logrus.Logger
	metrics *metrics
}

// NewRouter registers:
//
//	GET /swagger/{name}/swagger.json
//	GET /swagger/{name}/swagger.yaml
//	GET /healthz
//	GET /metrics
func NewRouter(cfg Config) *mux.Router {
	if cfg.DocumentName == "" {
		cfg.DocumentName = DefaultDocumentName
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	h := &handler{cfg: cfg, log: logger.L(), metrics: newMetrics(cfg.Registry)}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware, h.recoveryMiddleware)
	r.HandleFunc("/swagger/{name}/swagger.{ext:json|yaml}", h.serveDocument).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

func (h *handler) serveDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	format := document.FormatJSON
	if vars["ext"] == "yaml" {
		format = document.FormatYAML
	}
	legacy := h.cfg.Legacy
	fail := func(code int, msg string) {
		h.metrics.observeRequest(string(format), legacy, code)
		http.Error(w, msg, code)
	}

	if vars["name"] != h.cfg.DocumentName {
		fail(http.StatusNotFound, "404 page not found")
		return
	}
	if raw := r.URL.Query().Get("legacy"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			fail(http.StatusBadRequest, "invalid legacy parameter")
			return
		}
		legacy = v
	}

	entry := h.log.WithField("request", RequestIDFromContext(r.Context()))
	started := time.Now()
	doc, err := h.cfg.Build(r.Context(), legacy)
	h.metrics.observeBuild(legacy, started)
	if err != nil {
		entry.WithError(err).Error("build document")
		fail(http.StatusInternalServerError, "failed to build document")
		return
	}
	data, err := document.Marshal(doc, format, legacy)
	if err != nil {
		entry.WithError(err).Error("serialize document")
		fail(http.StatusInternalServerError, "failed to serialize document")
		return
	}
	h.metrics.observeRequest(string(format), legacy, http.StatusOK)
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Serve runs an HTTP server on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving descriptions on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
