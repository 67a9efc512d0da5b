package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/starvals/starvals/pkg/eval"
	"github.com/starvals/starvals/pkg/telemetry"
)

func newEvalCommand() *cobra.Command {
	var (
		expr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Evaluate a Starlark script with the container builtin",
		Long: `Evaluate a Starlark script file, or an inline expression given with -e,
and print the script's exported globals. With --watch, the file is
re-evaluated whenever it changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			timeout, err := cfg.Eval.TimeoutDuration()
			if err != nil {
				return err
			}
			ev := eval.New(timeout, logger.NewComponentLogger("eval"))
			ctx := cmd.Context()

			switch {
			case expr != "":
				if watch {
					return errors.New("--watch requires a script file, not an inline expression")
				}
				return evalScript(ctx, ev, "<expr>", expr)

			case len(args) == 1:
				if watch {
					return watchFile(ctx, ev, logger.NewComponentLogger("watch"), args[0])
				}
				return evalFile(ctx, ev, args[0])

			default:
				return errors.New("a script file or an -e expression is required")
			}
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "inline Starlark expression to evaluate")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-evaluate the script when the file changes")

	return cmd
}

func evalFile(ctx context.Context, ev *eval.Evaluator, path string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return evalScript(ctx, ev, filepath.Base(path), string(script))
}

func evalScript(ctx context.Context, ev *eval.Evaluator, name, script string) error {
	res, err := ev.Evaluate(ctx, name, script, nil)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(res.Globals))
	for name := range res.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s = %v\n", name, res.Globals[name])
	}
	return nil
}

// watchFile evaluates the script once, then re-evaluates it on every change
// until the context is cancelled. Evaluation failures are reported and
// watching continues.
func watchFile(ctx context.Context, ev *eval.Evaluator, logger *telemetry.Logger, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors commonly replace
	// the file on save, which would drop a direct watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	run := func() {
		if err := evalFile(ctx, ev, path); err != nil {
			logger.Error().Err(err).Str("file", path).Msg("evaluation failed")
		}
	}
	run()

	logger.Info().Str("file", path).Msg("watching for changes")

	// Debounce bursts of events from a single save.
	const reloadDelay = 500 * time.Millisecond
	var reloadTimer *time.Timer
	defer func() {
		if reloadTimer != nil {
			reloadTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			changed, err := filepath.Abs(event.Name)
			if err != nil || changed != target {
				continue
			}
			logger.Debug().Str("op", event.Op.String()).Msg("script changed")
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(reloadDelay, run)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watch error")
		}
	}
}
