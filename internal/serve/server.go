package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"folio/internal/catalog"
	"folio/internal/domain/config"
	"folio/internal/render"
)

const (
	serverIdleTimeout     = 1 * time.Minute
	serverReadTimeout     = 10 * time.Second
	serverWriteTimeout    = 30 * time.Second
	serverShutdownTimeout = 10 * time.Second
	reloadTimeout         = 30 * time.Second

	defaultReloadTries = 5
)

// Server answers catalog queries over HTTP. The catalog is an immutable
// snapshot swapped atomically on reload; handlers never see a partial one.
type Server struct {
	cfg     config.Config
	log     zerolog.Logger
	src     catalog.Source
	ser     *render.Serializer
	metrics *metrics

	cat atomic.Pointer[catalog.Catalog]

	reloadTries uint

	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

type Option func(*Server)

// WithReloadTries bounds how often a reload is attempted before the
// current snapshot is kept.
func WithReloadTries(n uint) Option {
	return func(s *Server) { s.reloadTries = n }
}

// New loads the initial catalog from the configured data file. A missing
// or broken file yields an empty catalog, not an error.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger, opts ...Option) *Server {
	var ropts []render.Option
	if cfg.Build.HighlightStyle != "" {
		ropts = append(ropts, render.WithHighlighting(cfg.Build.HighlightStyle))
	}
	s := &Server{
		cfg:         cfg,
		log:         log.With().Str("component", "serve").Logger(),
		src:         catalog.FileSource(cfg.Build.DataFile),
		ser:         render.NewSerializer(ropts...),
		metrics:     newMetrics(),
		reloadTries: defaultReloadTries,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.swap(catalog.Load(ctx, s.src, s.catalogOptions()))
	return s
}

func (s *Server) catalogOptions() catalog.Options {
	return catalog.Options{Logger: s.log, WordsPerMinute: s.cfg.Catalog.WordsPerMinute}
}

// Catalog returns the current snapshot.
func (s *Server) Catalog() *catalog.Catalog {
	return s.cat.Load()
}

func (s *Server) swap(c *catalog.Catalog) {
	s.cat.Store(c)
	s.metrics.articles.Set(float64(c.Len()))
}

// Reload re-reads the data file, retrying with backoff while it is missing
// or malformed (e.g. half written). On failure the previous snapshot stays.
func (s *Server) Reload(ctx context.Context) error {
	op := func() (*catalog.Catalog, error) {
		return catalog.LoadStrict(ctx, s.src, s.catalogOptions())
	}
	c, err := backoff.Retry[*catalog.Catalog](ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(s.reloadTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.log.Debug().Err(err).Dur("retry_in", next).Msg("reload attempt failed")
		}),
	)
	if err != nil {
		s.metrics.reloads.WithLabelValues("error").Inc()
		return fmt.Errorf("reload %s: %w", s.src, err)
	}
	s.swap(c)
	s.metrics.reloads.WithLabelValues("ok").Inc()
	s.log.Info().Int("articles", c.Len()).Msg("catalog reloaded")
	return nil
}

func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(s.instrument)

	mux.Route("/api", func(mux chi.Router) {
		mux.Route("/articles", func(mux chi.Router) {
			mux.Get("/", s.handleArticles)
			mux.Get("/{dir}/{slug}", s.handleArticle)
			mux.Get("/{dir}/{slug}/related", s.handleRelated)
		})
		mux.Get("/categories", s.handleCategories)
		mux.Get("/category-dirs/{dir}", s.handleCategoryDir)
		mux.Get("/tags", s.handleTags)
	})
	mux.Get("/healthz", s.handleHealthz)
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return mux
}

// MetricsHandler exposes the server's Prometheus registry.
func (s *Server) MetricsHandler() http.Handler {
	return s.metrics.handler()
}

func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.cfg.Serve.Watch {
		if err := s.startWatch(ctx); err != nil {
			return fmt.Errorf("serve: watch: %w", err)
		}
	}

	var metricsSrv *http.Server
	if s.cfg.Serve.MetricsAddr != "" {
		mux := chi.NewRouter()
		mux.Handle("/metrics", s.MetricsHandler())
		metricsSrv = s.start("metrics", s.cfg.Serve.MetricsAddr, mux)
	}

	srv := &http.Server{
		Addr:         s.cfg.Serve.Addr,
		IdleTimeout:  serverIdleTimeout,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		Handler:      s.Routes(),
	}

	// 支持 ctx 取消
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("error shutting down server")
		}
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
	}()

	s.log.Info().Str("addr", s.cfg.Serve.Addr).Int("articles", s.Catalog().Len()).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) start(name, addr string, h http.Handler) *http.Server {
	srv := &http.Server{
		Addr:         addr,
		IdleTimeout:  serverIdleTimeout,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		Handler:      h,
	}
	go func() {
		s.log.Info().Str("addr", addr).Msgf("%s server started", name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msgf("cannot start %s server", name)
		}
	}()
	return srv
}

// startWatch watches the directory holding the data file: generators
// replace it by rename, which a watch on the file itself would lose.
func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w
		if e := w.Add(filepath.Dir(s.cfg.Build.DataFile)); e != nil {
			err = e
			return
		}
		go s.watchLoop(ctx)
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	target := filepath.Clean(s.cfg.Build.DataFile)
	s.log.Info().Str("file", target).Msg("watching for data changes")

	debounce := time.NewTicker(time.Hour)
	debounce.Stop()

	wait := s.cfg.Serve.Debounce
	if wait <= 0 {
		wait = 200 * time.Millisecond
	}
	trigger := func() {
		select {
		case <-debounce.C:
		default:
		}
		debounce.Reset(wait)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("watcher error")
		case <-debounce.C:
			debounce.Stop()
			ctx2, cancel := context.WithTimeout(ctx, reloadTimeout)
			if err := s.Reload(ctx2); err != nil {
				s.log.Error().Err(err).Msg("reload failed, keeping previous catalog")
			}
			cancel()
		}
	}
}
