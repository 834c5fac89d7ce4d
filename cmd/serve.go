package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Bitlatte/pinpage/internal/config"
	"github.com/Bitlatte/pinpage/internal/logging"
	"github.com/Bitlatte/pinpage/internal/site"
)

const rebuildDebounce = 500 * time.Millisecond

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the blog locally and rebuilds on changes",
		Long: `The serve command builds the blog, serves the output directory over
HTTP, and watches the content, layouts, and static directories, rebuilding
the site when they change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), appConfig, port)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 4000, "port to serve the site on")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, port int) error {
	log := logging.L()
	builder := site.NewBuilder(cfg)
	if _, err := builder.Build(ctx); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range []string{cfg.ContentDir, cfg.LayoutsDir, cfg.StaticDir} {
		if err := watchTree(watcher, root); err != nil {
			log.Warn().Err(err).Str("dir", root).Msg("not watching")
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		watchLoop(ctx, watcher, rebuildDebounce, func(ctx context.Context) error {
			_, err := builder.Build(ctx)
			return err
		})
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newSiteHandler(cfg.OutputDir),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("dir", cfg.OutputDir).Msgf("serving on http://localhost:%d", port)
	err = srv.ListenAndServe()
	watcher.Close()
	wg.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("http server: %w", err)
}

// watchTree adds root and every directory below it; fsnotify is not recursive.
func watchTree(w *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); err != nil {
		return err
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logging.L().Warn().Err(err).Str("path", path).Msg("error walking")
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				logging.L().Warn().Err(err).Str("path", path).Msg("failed to watch")
			}
		}
		return nil
	})
}

// watchLoop calls rebuild once changes have been quiet for debounce. Rebuilds
// never overlap. It returns when ctx is done or the watcher is closed.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, rebuild func(context.Context) error) {
	log := logging.L()
	var (
		timer   *time.Timer
		buildMu sync.Mutex
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change detected")

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watchTree(w, event.Name); err != nil {
					log.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
				}
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				buildMu.Lock()
				defer buildMu.Unlock()
				log.Info().Msg("rebuilding site")
				if err := rebuild(ctx); err != nil {
					log.Error().Err(err).Msg("rebuild failed")
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// newSiteHandler serves dir without directory listings or caching.
func newSiteHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(r.URL.Path), "index.html")); err != nil {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		files.ServeHTTP(w, r)
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
