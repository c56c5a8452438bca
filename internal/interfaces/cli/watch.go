package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/refsign-check/internal/application/consistency"
	"github.com/turtacn/refsign-check/internal/config"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/pkg/errors"
)

type watchOptions struct {
	language  string
	multiWord []string
	debounce  time.Duration
}

// NewWatchCmd creates the watch command: rescan FILE after every save.
func NewWatchCmd() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-check a file every time it is saved",
		Long: "Watch FILE and rescan it after each write, debounced like an editor\n" +
			"session. With --config the debounce follows analysis.debounce live.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.language, "lang", "l", "", "analysis language (de, en); defaults to analysis.language")
	cmd.Flags().StringSliceVarP(&opts.multiWord, "multi-word", "m", nil, "base stems to match as two-word terms")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 0, "quiet period before a rescan; defaults to analysis.debounce")
	return cmd
}

func runWatch(cmd *cobra.Command, path string, opts *watchOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	logger := cliCtx.Logger.Named("watch")

	target, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "invalid path").WithDetail(path)
	}
	initial, err := os.ReadFile(target)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read input").WithDetail(path)
	}

	engine, err := newEngine(cliCtx.Config, opts.language, logger, opts.multiWord...)
	if err != nil {
		return err
	}

	debounce := opts.debounce
	if debounce <= 0 {
		debounce = cliCtx.Config.Analysis.Debounce
	}

	// Each published result is printed against the text it was scanned from.
	var (
		mu    sync.Mutex
		texts = make(map[uint64]string)
	)
	sched := consistency.NewScheduler(engine,
		consistency.WithDebounce(debounce),
		consistency.WithSchedulerLogger(logger),
		consistency.WithOnResult(func(res *consistency.Result) {
			mu.Lock()
			defer mu.Unlock()
			text := texts[res.Generation]
			for gen := range texts {
				if gen <= res.Generation {
					delete(texts, gen)
				}
			}
			if err := PrintResult(cmd, NewCheckReport(path, text, res)); err != nil {
				logger.Warn("failed to print result", logging.Err(err))
			}
		}),
		consistency.WithOnError(func(err error) {
			PrintError(cmd, err)
		}),
	)
	defer sched.Close()

	submit := func(text string) {
		mu.Lock()
		defer mu.Unlock()
		texts[sched.Submit(text)] = text
	}

	if cliCtx.ConfigPath != "" && opts.debounce <= 0 {
		err := config.Watch(cliCtx.ConfigPath, func(cfg *config.Config) {
			sched.SetDebounce(cfg.Analysis.Debounce)
			logger.Info("debounce updated from config", logging.Duration("debounce", cfg.Analysis.Debounce))
		}, func(err error) {
			logger.Warn("ignoring invalid config change", logging.Err(err))
		})
		if err != nil {
			logger.Warn("config hot reload disabled", logging.Err(err))
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create file watcher")
	}
	defer fw.Close()
	// Editors often replace the file on save, so watch the directory.
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to watch directory").WithDetail(filepath.Dir(target))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	submit(string(initial))
	logger.Info("watching file", logging.String("file", target), logging.Duration("debounce", debounce))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watchLoop(gctx, fw, target, submit, logger)
	})
	err = g.Wait()
	if ctx.Err() != nil {
		logger.Info("watch stopped")
		return nil
	}
	return err
}

// watchLoop forwards the content of target to submit after each write or
// re-creation, until ctx is done or the watcher closes.
func watchLoop(ctx context.Context, fw *fsnotify.Watcher, target string, submit func(string), logger logging.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			data, err := os.ReadFile(target)
			if err != nil {
				// Transient during atomic saves; the following Create delivers it.
				logger.Debug("file not readable yet", logging.String("file", target), logging.Err(err))
				continue
			}
			submit(string(data))
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", logging.Err(err))
		}
	}
}

//Personal.AI order the ending
