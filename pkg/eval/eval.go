package eval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.starlark.net/starlark"

	"github.com/starvals/starvals/pkg/telemetry"
)

// DefaultTimeout bounds script execution when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Evaluator executes Starlark scripts with the container builtin.
type Evaluator struct {
	timeout time.Duration
	logger  *telemetry.Logger
}

// New creates an Evaluator. A zero timeout selects DefaultTimeout; a nil
// logger selects the process default.
func New(timeout time.Duration, logger *telemetry.Logger) *Evaluator {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = telemetry.FromContext(context.Background())
	}
	return &Evaluator{timeout: timeout, logger: logger}
}

// Result holds the outcome of a script evaluation.
type Result struct {
	// RunID uniquely identifies the evaluation in logs.
	RunID string

	// Globals are the script's exported globals converted to Go values.
	// Names starting with an underscore and function values are omitted.
	Globals map[string]interface{}

	// ExecutionTime is the wall-clock duration of the evaluation.
	ExecutionTime time.Duration
}

// Evaluate executes a Starlark script and returns its exported globals.
// The script runs on its own goroutine and is cancelled when the context
// is done or the evaluator's timeout elapses.
func (e *Evaluator) Evaluate(ctx context.Context, name, script string, input map[string]interface{}) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := e.logger.WithRunID(runID)

	predeclared, err := Predeclared(input)
	if err != nil {
		return nil, err
	}

	evalCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			logger.Info().Str("script", name).Msg(msg)
		},
	}

	type outcome struct {
		globals starlark.StringDict
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		globals, err := starlark.ExecFile(thread, name, script, predeclared)
		done <- outcome{globals, err}
	}()

	logger.Debug().Str("script", name).Msg("evaluation started")

	select {
	case <-evalCtx.Done():
		thread.Cancel(evalCtx.Err().Error())
		<-done // the interpreter unwinds promptly after Cancel
		logger.Warn().
			Str("script", name).
			Dur("elapsed", time.Since(start)).
			Msg("evaluation cancelled")
		if ctx.Err() != nil {
			return nil, fmt.Errorf("evaluation of %s cancelled: %w", name, ctx.Err())
		}
		return nil, fmt.Errorf("evaluation of %s timed out after %v", name, e.timeout)

	case out := <-done:
		if out.err != nil {
			logger.Error().
				Err(out.err).
				Str("script", name).
				Msg("evaluation failed")
			return nil, fmt.Errorf("evaluation of %s failed: %w", name, out.err)
		}

		globals, err := exportGlobals(out.globals)
		if err != nil {
			return nil, err
		}
		elapsed := time.Since(start)
		logger.Info().
			Str("script", name).
			Int("globals", len(globals)).
			Dur("elapsed", elapsed).
			Msg("evaluation finished")
		return &Result{RunID: runID, Globals: globals, ExecutionTime: elapsed}, nil
	}
}

// exportGlobals converts non-internal, non-function globals to Go values.
func exportGlobals(globals starlark.StringDict) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(globals))
	for name, val := range globals {
		if strings.HasPrefix(name, "_") {
			continue
		}
		switch val.(type) {
		case *starlark.Function, *starlark.Builtin:
			// Functions have no Go form. Containers are callable too but
			// carry data, so they convert like any other value.
			continue
		}
		goVal, err := FromValue(val)
		if err != nil {
			return nil, fmt.Errorf("failed to convert global %s: %w", name, err)
		}
		out[name] = goVal
	}
	return out, nil
}
