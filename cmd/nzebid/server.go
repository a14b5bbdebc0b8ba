package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nzebi/dico/pkg/lexicon"
	"github.com/nzebi/dico/pkg/overlay"
	"github.com/nzebi/dico/pkg/remote"
	"github.com/nzebi/dico/pkg/source"
	"github.com/nzebi/dico/pkg/word"
)

type Server struct {
	http.Server
	router    chi.Router
	logger    *zap.Logger
	service   *lexicon.Service
	pageLimit int
	// closers are closed in reverse order after the service.
	closers []io.Closer
}

// New wires the dictionary described by conf.
func New(logger *zap.Logger, conf *Config) (*Server, error) {
	var closers []io.Closer
	fail := func(err error) (*Server, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
		return nil, err
	}

	store, err := overlay.Open(&conf.Overlay, logger.Named("overlay"))
	if err != nil {
		return fail(err)
	}
	closers = append(closers, store)

	tree, err := loadTree(conf.Categories.Path)
	if err != nil {
		return fail(err)
	}

	var static source.Source
	if conf.Bulk.Path != "" || conf.Bulk.URL != "" || conf.Bulk.BaseURL != "" {
		static = source.NewStatic(nil, &source.StaticConfig{
			BaseURL: conf.Bulk.BaseURL,
			URL:     conf.Bulk.URL,
			Path:    conf.Bulk.Path,
			Timeout: conf.Bulk.Timeout,
		}, logger.Named("static"))
	}

	var (
		remoteSource source.Source
		writer       lexicon.RemoteWriter
	)
	table, err := openTable(&conf.Remote)
	if err != nil {
		return fail(err)
	}
	if table != nil {
		if c, ok := table.(io.Closer); ok {
			closers = append(closers, c)
		}
		breaker := remote.NewBreaker(table, &remote.BreakerConfig{}, logger.Named("breaker"))
		remoteSource = remote.NewSource(breaker, logger.Named("remote"))
		writer = breaker
	}

	policy, err := source.ParsePolicy(conf.Policy)
	if err != nil {
		return fail(err)
	}
	mode, err := lexicon.ParseRemoteMode(conf.Remote.Mode)
	if err != nil {
		return fail(err)
	}

	registry := prometheus.NewRegistry()
	metrics := lexicon.NewMetrics(registry)
	loader := source.Default(static, store, remoteSource, &source.LoaderConfig{
		Policy:  policy,
		Timeout: conf.Bulk.Timeout,
	}, logger.Named("loader"))
	cache := lexicon.NewCache(loader, nil, metrics, logger.Named("cache"))
	service := lexicon.NewService(cache, store, writer, tree, &lexicon.ServiceConfig{
		Remote: mode,
	}, metrics, logger.Named("service"))

	if conf.Bulk.Watch && conf.Bulk.Path != "" {
		watcher, err := lexicon.NewWatcher(conf.Bulk.Path, cache, logger.Named("watcher"))
		if err != nil {
			service.Close()
			return fail(err)
		}
		closers = append(closers, watcher)
	}

	s := newServer(logger, service, registry, conf.Page.Limit)
	s.closers = closers
	s.Addr = conf.Host
	return s, nil
}

func newServer(logger *zap.Logger, service *lexicon.Service, registry *prometheus.Registry, pageLimit int) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger,
		service:   service,
		pageLimit: pageLimit,
	}
	s.router.Use(s.middleLogging)
	s.router.Route("/words", func(r chi.Router) {
		r.Get("/", s.handleBrowse())
		r.Post("/", s.handleAdd())
		r.Get("/{id}", s.handleGet())
		r.Put("/{id}", s.handleEdit())
		r.Delete("/{id}", s.handleDelete())
	})
	s.router.Get("/categories", s.handleCategories())
	s.router.Get("/favorites", s.handleFavorites())
	s.router.Post("/favorites/{id}", s.handleToggleFavorite())
	s.router.Get("/state/{name}", s.handleGetState())
	s.router.Put("/state/{name}", s.handlePutState())
	s.router.Post("/cache/invalidate", s.handleInvalidate())
	if registry != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	s.Server.Handler = s.router
	return s
}

func loadTree(path string) (*word.Tree, error) {
	if path == "" {
		return word.DefaultTree(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can not open categories: %w", err)
	}
	defer f.Close()
	return word.LoadTree(f)
}

// openTable returns nil when no remote database is configured.
func openTable(conf *RemoteConfig) (remote.Table, error) {
	switch strings.ToLower(conf.Kind) {
	case "", "none":
		return nil, nil
	case "supabase":
		return remote.NewSupabase(&remote.SupabaseConfig{
			URL:   conf.URL,
			Key:   conf.Key,
			Table: conf.Table,
		})
	case "sqlite":
		return remote.OpenSQL(conf.DSN)
	default:
		return nil, fmt.Errorf("unknown remote kind %q", conf.Kind)
	}
}

func (s *Server) Close(ctx context.Context) error {
	var reasons []string
	if serverErr := s.Server.Shutdown(ctx); serverErr != nil {
		reasons = append(reasons, "server shutdown failed: "+serverErr.Error())
	}
	if serviceErr := s.service.Close(); serviceErr != nil {
		reasons = append(reasons, "service close failed: "+serviceErr.Error())
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			reasons = append(reasons, "close failed: "+err.Error())
		}
	}
	if len(reasons) > 0 {
		return fmt.Errorf("close failed because: %s", strings.Join(reasons, " AND "))
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, vPtr interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	buffer := new(bytes.Buffer)
	if err := json.NewEncoder(buffer).Encode(vPtr); err != nil {
		s.logger.Error("encoding failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"encoding error"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buffer.Bytes())
}

func (s *Server) middleLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("request",
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("client", r.RemoteAddr),
			zap.String("method", r.Method),
		)
		next.ServeHTTP(w, r)
	})
}
