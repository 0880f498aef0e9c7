package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/textmesh/core"
	"github.com/hupe1980/textmesh/logging"
	"github.com/hupe1980/textmesh/room"
)

// DefaultTimeout bounds a run when the caller does not override it.
const DefaultTimeout = 30 * time.Second

// Options configure an Engine instance.
type Options struct {
	// GraceDelay is the interval between Connect and the inbound message
	// injection. Defaults to room.DefaultGraceDelay.
	GraceDelay time.Duration

	// DefaultTimeout bounds runs whose ExecuteOptions carry no timeout.
	DefaultTimeout time.Duration

	// Topic labels injected inbound events. Defaults to room.DefaultTopic.
	Topic string

	// Logger provides structured logging. Defaults to NoOpLogger.
	Logger logging.Logger
}

// ExecuteOptions configure a single run.
type ExecuteOptions struct {
	// Timeout overrides the engine's default per-run budget.
	Timeout time.Duration
}

// Engine executes entry functions against isolated simulated rooms. It is
// immutable after construction and safe for concurrent use; every run owns
// its own room, buffer and registry, so concurrent runs never observe each
// other's state.
type Engine struct {
	graceDelay     time.Duration
	defaultTimeout time.Duration
	topic          string
	logger         logging.Logger
}

// New creates an Engine with optional overrides.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		GraceDelay:     room.DefaultGraceDelay,
		DefaultTimeout: DefaultTimeout,
		Topic:          room.DefaultTopic,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		graceDelay:     opts.GraceDelay,
		defaultTimeout: opts.DefaultTimeout,
		topic:          opts.Topic,
		logger:         opts.Logger,
	}
}

// Execute performs one run: restore state, run the entry function, wait for
// injection and asynchronous work to settle, drain the output buffer, and
// report. The returned result always echoes the request's job id and always
// carries whatever state and output existed when the run terminated.
//
// The response text is every captured buffer entry joined with a single
// space, in capture order.
func (e *Engine) Execute(
	ctx context.Context,
	entry room.EntryFunc,
	req core.Request,
	optFns ...func(o *ExecuteOptions),
) core.Result {
	start := time.Now()

	execOpts := ExecuteOptions{Timeout: e.defaultTimeout}
	for _, fn := range optFns {
		fn(&execOpts)
	}

	if entry == nil {
		return core.Result{
			JobID:            req.JobID,
			Status:           core.StatusError,
			Error:            "no entry function provided",
			UpdatedState:     restoreState(req),
			ProcessingTimeMs: msSince(start),
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, execOpts.Timeout)
	defer cancel()

	history := restoreState(req)
	rm := room.New(runCtx, req.JobID, req.UserInput, history, func(o *room.Options) {
		o.GraceDelay = e.graceDelay
		o.Topic = e.topic
		o.Logger = e.logger
	})
	jc := room.NewJobContext(req.JobID, "text-agent", rm)

	e.logger.Debug("engine run started", "job_id", req.JobID, "timeout", execOpts.Timeout)

	entryDone := make(chan error, 1)
	go func() {
		entryDone <- runEntry(entry, jc)
	}()

	select {
	case <-runCtx.Done():
		// Stop the injection timer and signal handlers before collecting
		// whatever partial output exists.
		cancel()
		return e.finishExpired(runCtx, req, rm, execOpts.Timeout, start)

	case err := <-entryDone:
		if err != nil {
			cancel()
			e.logger.Warn("engine entry function failed", "job_id", req.JobID, "error", err)
			return e.finish(req, rm, core.StatusError, err.Error(), start)
		}
	}

	// Entry returned; wait for the injection task and async handlers.
	if err := rm.Settle(runCtx); err != nil {
		cancel()
		return e.finishExpired(runCtx, req, rm, execOpts.Timeout, start)
	}

	if err := rm.Err(); err != nil {
		e.logger.Warn("engine handler failed", "job_id", req.JobID, "error", err)
		return e.finish(req, rm, core.StatusError, err.Error(), start)
	}

	res := e.finish(req, rm, core.StatusSuccess, "", start)
	e.logger.Debug("engine run completed", "job_id", req.JobID, "response_bytes", len(res.ResponseText))
	return res
}

// restoreState clones the request state so the caller's copy never observes
// run mutations; absent state starts a fresh conversation.
func restoreState(req core.Request) *core.Conversation {
	if req.State == nil {
		return core.NewConversation()
	}
	return req.State.Clone()
}

// runEntry invokes the entry function converting panics into errors so
// untrusted code cannot crash the engine.
func runEntry(entry room.EntryFunc, jc *room.JobContext) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("entry function panic: %v", rec)
		}
	}()
	return entry(jc)
}

// finish drains the buffer and assembles a terminal result.
func (e *Engine) finish(req core.Request, rm *room.Room, status core.Status, errMsg string, start time.Time) core.Result {
	entries := rm.Buffer().Drain()
	msgs := make([]string, 0, len(entries))
	for _, entry := range entries {
		msgs = append(msgs, string(entry.Data))
	}

	return core.Result{
		JobID:            req.JobID,
		Status:           status,
		ResponseText:     strings.Join(msgs, " "),
		UpdatedState:     rm.History(),
		Error:            errMsg,
		ProcessingTimeMs: msSince(start),
	}
}

// finishExpired maps a context failure to a terminal status: deadline
// exhaustion is a timeout, anything else is an external cancellation.
func (e *Engine) finishExpired(runCtx context.Context, req core.Request, rm *room.Room, timeout time.Duration, start time.Time) core.Result {
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		e.logger.Warn("engine run timed out", "job_id", req.JobID, "timeout", timeout)
		return e.finish(req, rm, core.StatusTimeout, fmt.Sprintf("run exceeded timeout of %s", timeout), start)
	}
	return e.finish(req, rm, core.StatusError, "run cancelled", start)
}

// msSince returns elapsed wall time in fractional milliseconds.
func msSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
