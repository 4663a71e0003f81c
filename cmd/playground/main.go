// The playground serves the translator's output over HTTP for quick
// inspection: each request translates the matching template on demand and
// returns the generated macro source as plain text. Translations are
// cached per file and invalidated when the source changes on disk.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kilianc/csx/internal/csx/project"
	"github.com/kilianc/csx/internal/csx/translate"
	"github.com/kilianc/csx/internal/csx/watch"
)

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: playground [flags]")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Serves translated templates from the project's input directory,")
		_, _ = fmt.Fprintln(os.Stderr, "re-translating them as they change on disk.")
		flag.PrintDefaults()
	}
	addrFlag := flag.String("addr", ":8080", "listen address")
	configFlag := flag.String("config", "csx.yaml", "project file (defaults apply when missing)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := project.Load(*configFlag)
	if err != nil {
		fatal(log, err)
	}

	srv, err := newServer(cfg, log)
	if err != nil {
		fatal(log, err)
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         *addrFlag,
		Handler:      srv,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("playground listening", "addr", *addrFlag, "in", cfg.In)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal(log, err)
	}
}

func fatal(log *slog.Logger, err error) {
	log.Error("playground failed", "error", err)
	os.Exit(1)
}

type server struct {
	router  chi.Router
	cfg     project.Config
	log     *slog.Logger
	watcher *watch.Watcher

	mu    sync.Mutex
	cache map[string][]byte // source path -> translated output
}

func newServer(cfg project.Config, log *slog.Logger) (*server, error) {
	watcher, err := watch.New(cfg.In)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", cfg.In, err)
	}

	s := &server{
		cfg:     cfg,
		log:     log,
		watcher: watcher,
		cache:   map[string][]byte{},
	}

	go func() {
		for {
			select {
			case name, ok := <-watcher.Changed():
				if !ok {
					return
				}
				s.mu.Lock()
				delete(s.cache, name)
				s.mu.Unlock()
				log.Info("template changed", "path", name)
			case err, ok := <-watcher.Errors():
				if !ok {
					return
				}
				log.Error("watch error", "error", err)
			}
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/*", s.handleTemplate)
	s.router = r

	return s, nil
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) Close() error {
	return s.watcher.Close()
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var names []string
	err := filepath.WalkDir(s.cfg.In, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			if s.cfg.Excluded(de.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.cfg.Translates(de.Name()) {
			rel, err := filepath.Rel(s.cfg.In, path)
			if err != nil {
				return err
			}
			names = append(names, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		s.log.Error("listing templates", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sort.Strings(names)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, name := range names {
		fmt.Fprintf(w, "/%s\n", name)
	}
}

func (s *server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" || strings.Contains(name, "..") {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.cfg.In, filepath.FromSlash(name))
	key := filepath.ToSlash(path)

	s.mu.Lock()
	out, ok := s.cache[key]
	s.mu.Unlock()

	if !ok {
		src, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				http.NotFound(w, r)
				return
			}
			s.log.Error("reading template", "path", path, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out, err = translate.File(path, src)
		if err != nil {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprintf(w, "parse error: %v\n", err)
			return
		}
		s.mu.Lock()
		s.cache[key] = out
		s.mu.Unlock()
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(out)
}
