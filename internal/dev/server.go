package dev

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vcrobe/nojs-elements/internal/config"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Logger receives build and request logs. Default: discard.
	Logger *slog.Logger

	// OnBuildComplete is called after every build.
	OnBuildComplete func(result BuildResult)
}

// Server is the development server.
type Server struct {
	config     *config.Config
	options    ServerOptions
	logger     *slog.Logger
	compiler   *Compiler
	watcher    *Watcher
	reload     *ReloadServer
	metrics    *Metrics
	httpServer *http.Server
	changeCh   chan Change
	buildMu    sync.Mutex
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	compiler := NewCompiler(CompilerConfig{
		ProjectPath: cfg.Dir(),
		Entry:       cfg.Entry,
		OutputDir:   cfg.OutputPath(),
		WasmFile:    config.DefaultWasmFile,
		Title:       cfg.Name,
		Tags:        cfg.Build.Tags,
		LDFlags:     cfg.Build.LDFlags,
	})

	ignore := append(append([]string(nil), DefaultIgnore...), cfg.Dev.Ignore...)
	ignore = append(ignore, filepath.Base(cfg.OutputPath()))
	watcher := NewWatcher(WatcherConfig{
		Paths:  cfg.WatchPaths(),
		Ignore: ignore,
		Logger: logger,
	})

	metrics := NewMetrics()
	return &Server{
		config:   cfg,
		options:  options,
		logger:   logger,
		compiler: compiler,
		watcher:  watcher,
		reload:   NewReloadServer(metrics),
		metrics:  metrics,
		changeCh: make(chan Change, 64),
	}
}

// Handler returns the HTTP handler serving the build output, the reload
// channel and /metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(s.logRequests)

	r.Handle("/metrics", s.metrics.Handler())
	if s.config.ReloadEnabled() {
		r.Get(ReloadPath, s.reload.HandleWebSocket)
	}
	r.Get("/", s.serveIndex)
	r.Get("/"+IndexFile, s.serveIndex)
	r.Handle("/*", http.FileServer(http.Dir(s.config.OutputPath())))
	return r
}

// serveIndex serves index.html, injecting the reload client when it is
// enabled and missing.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	page, err := os.ReadFile(filepath.Join(s.config.OutputPath(), IndexFile))
	if err != nil {
		http.Error(w, "index.html not built yet", http.StatusServiceUnavailable)
		return
	}
	if s.config.ReloadEnabled() {
		if injected, err := InjectReloadClient(page); err == nil {
			page = injected
		} else {
			s.logger.Warn("reload client not injected", "error", err)
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(page)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// Build compiles the entry package and refreshes the support files.
func (s *Server) Build(ctx context.Context) BuildResult {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	result := s.compiler.Build(ctx)
	if result.Success {
		if err := s.compiler.Prepare(ctx, false); err != nil {
			result.Success = false
			result.Error = err
			result.Output = err.Error()
		}
	}

	s.metrics.built(result)
	if s.options.OnBuildComplete != nil {
		s.options.OnBuildComplete(result)
	}
	if result.Success {
		s.logger.Info("build succeeded", "duration", result.Duration.Round(time.Millisecond))
	} else {
		s.logger.Error("build failed", "error", result.Error)
	}
	return result
}

// Start builds once, then serves and rebuilds on change until ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.Build(ctx)

	s.watcher.OnChange(func(change Change) {
		select {
		case s.changeCh <- change:
		default:
		}
	})
	go func() {
		if err := s.watcher.Start(ctx); err != nil {
			s.logger.Error("watcher stopped", "error", err)
		}
	}()
	go s.processChanges(ctx)

	s.httpServer = &http.Server{
		Addr:              s.config.DevAddress(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("serving", "url", s.config.DevURL())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.stop()
		return nil
	case err := <-errCh:
		s.stop()
		return err
	}
}

func (s *Server) stop() {
	s.reload.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.httpServer.Shutdown(ctx)
}

// processChanges serialises change handling and coalesces bursts.
func (s *Server) processChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-s.changeCh:
			changes := []Change{change}
			for draining := true; draining; {
				select {
				case next := <-s.changeCh:
					changes = append(changes, next)
				default:
					draining = false
				}
			}
			s.handleChanges(ctx, changes)
		}
	}
}

// handleChanges rebuilds on source changes and reloads pages on any
// change that produced a servable result.
func (s *Server) handleChanges(ctx context.Context, changes []Change) {
	rebuild := false
	for _, change := range changes {
		s.logger.Info("changed", "path", change.Path, "type", change.Type)
		if change.Type == ChangeGo {
			rebuild = true
		}
	}

	if rebuild {
		result := s.Build(ctx)
		if !result.Success {
			s.reload.NotifyError(result.Output)
			return
		}
		s.reload.ClearError()
	}
	s.reload.NotifyReload()
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Reload returns the server's reload channel.
func (s *Server) Reload() *ReloadServer {
	return s.reload
}
