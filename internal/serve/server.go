package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"linkdir/internal/build"
	"linkdir/internal/domain/config"
	"linkdir/internal/ingest"
)

// Server previews the generated site: it builds once, serves the output
// directory and rebuilds when the theme or a local workbook changes.
type Server struct {
	cfg     config.Config
	builder *build.Builder
	log     *slog.Logger

	buildMu sync.Mutex
	watcher *fsnotify.Watcher
	// files are watched through their directory; only these names count
	files     map[string]struct{}
	watchOnce sync.Once
	debounce  time.Duration
}

func New(cfg config.Config, builder *build.Builder, log *slog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		builder:  builder,
		log:      log,
		files:    make(map[string]struct{}),
		debounce: 200 * time.Millisecond,
	}
}

func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Handler serves the output directory.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.Build.PublicDir)))
	return r
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.Rebuild(ctx); err != nil {
		return err
	}
	if err := s.startWatch(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("serving", slog.String("address", addr), slog.String("dir", s.cfg.Build.PublicDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
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

type resetter interface{ Reset() error }

// Rebuild runs one build. Builds never overlap.
func (s *Server) Rebuild(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if r, ok := s.builder.Source.(resetter); ok {
		if err := r.Reset(); err != nil {
			s.log.Warn("workbook reset", slog.String("error", err.Error()))
		}
	}

	start := time.Now()
	res, err := s.builder.Run(ctx)
	if res == nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	if err != nil {
		// stage errors leave a partial site that is still worth serving
		s.log.Warn("rebuild finished with errors", slog.String("error", err.Error()))
	}
	s.log.Info("rebuild complete",
		slog.Int("links", res.Links),
		slog.Int("pages", res.Pages),
		slog.Duration("took", time.Since(start)))
	return nil
}

// WatchTargets lists the directories to watch: every directory of the theme,
// plus the directory of a local workbook.
func (s *Server) WatchTargets() ([]string, error) {
	var dirs []string
	themeRoot := filepath.Join(s.cfg.Build.ThemeDir, s.cfg.Site.Theme)
	err := filepath.WalkDir(themeRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk theme: %w", err)
	}

	if wb := s.cfg.Source.WorkbookURL; wb != "" && !ingest.IsRemote(wb) {
		abs, err := filepath.Abs(wb)
		if err != nil {
			return nil, err
		}
		s.files[abs] = struct{}{}
		dirs = append(dirs, filepath.Dir(abs))
	}
	return dirs, nil
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		dirs, e := s.WatchTargets()
		if e != nil {
			err = e
			return
		}
		for _, d := range dirs {
			if e := w.Add(d); e != nil {
				err = fmt.Errorf("watch %s: %w", d, e)
				return
			}
		}
		go s.watchLoop(ctx)
	})
	return err
}

// relevant drops events for files that merely share a directory with the
// workbook.
func (s *Server) relevant(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return true
	}
	themeRoot, err := filepath.Abs(filepath.Join(s.cfg.Build.ThemeDir, s.cfg.Site.Theme))
	if err == nil {
		if rel, err := filepath.Rel(themeRoot, abs); err == nil && filepath.IsLocal(rel) {
			return true
		}
	}
	_, ok := s.files[abs]
	return ok
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info("watching for file changes")
	debounce := time.NewTicker(time.Hour)
	debounce.Stop()

	trigger := func() {
		select {
		case <-debounce.C:
		default:
		}
		debounce.Reset(s.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 && s.relevant(ev.Name) {
				s.log.Debug("change detected", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", slog.String("error", err.Error()))
		case <-debounce.C:
			debounce.Stop()
			if err := s.Rebuild(ctx); err != nil {
				s.log.Error("rebuild failed", slog.String("error", err.Error()))
			}
		}
	}
}
