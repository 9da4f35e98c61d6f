package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cmofkit/cmofkit/internal/cli/ui"
	"github.com/cmofkit/cmofkit/internal/recipe"
	"github.com/cmofkit/cmofkit/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [recipe]",
		Short: "Rebuild fixtures whenever the recipe or a metamodel changes",
		Long: `Build every fixture of a recipe, then keep rebuilding whenever the recipe
file or any metamodel it reads is written. Changes arriving within 100ms are
batched into one rebuild.

Build errors are reported and watching continues; fix the file and save
again.`,
		Example: `  cmofkit watch
  cmofkit watch test/fixtures.yaml --verbose`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := DefaultRecipe
			if len(args) > 0 {
				path = args[0]
			}

			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, cmd.OutOrStdout(), path, logger)
		},
	}
}

// rebuilder runs a recipe and reports the files a rebuild depends on
type rebuilder struct {
	path   string
	out    io.Writer
	logger *zap.Logger

	mu sync.Mutex
}

// run loads the recipe and exports every fixture. The returned files always
// include the recipe itself, even when loading fails.
func (rb *rebuilder) run(ctx context.Context) ([]string, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	files := []string{rb.path}

	r, err := recipe.Load(rb.path)
	if err != nil {
		return files, err
	}
	files = append(files, r.Inputs()...)

	fixtures, _ := r.Select("")
	if err := exportFixtures(ctx, rb.out, r, fixtures, rb.logger); err != nil {
		return files, err
	}
	return files, nil
}

func runWatch(ctx context.Context, w io.Writer, path string, logger *zap.Logger) error {
	out := &lockedWriter{w: w}
	rb := &rebuilder{path: path, out: out, logger: logger}

	files, err := rb.run(ctx)
	if err != nil {
		rebuildFailed(out, err)
	}

	var fw *watch.FileWatcher
	fw, err = watch.NewFileWatcher(files, func(changed []string) error {
		logger.Debug("rebuilding", zap.Strings("changed", changed))

		files, err := rb.run(ctx)
		if serr := fw.SetFiles(files); serr != nil {
			logger.Warn("failed to update watched files", zap.Error(serr))
		}
		if err != nil {
			rebuildFailed(out, err)
		}
		return nil
	}, logger)
	if err != nil {
		return err
	}

	if err := fw.Start(); err != nil {
		return err
	}

	fmt.Fprint(out, ui.Info(fmt.Sprintf("Watching %d file(s). Press Ctrl+C to stop", len(fw.Files())), color.NoColor))

	<-ctx.Done()

	if err := fw.Stop(); err != nil {
		return fmt.Errorf("error stopping watcher: %w", err)
	}
	return nil
}

// rebuildFailed reports a failed rebuild; watching continues
func rebuildFailed(w io.Writer, err error) {
	fmt.Fprint(w, ui.Warning("Rebuild failed: "+err.Error(), color.NoColor))
}

// lockedWriter serializes writes from the watch loop and the command
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
