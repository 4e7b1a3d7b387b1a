package enableapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/enableapp/xattr"
)

// Pipeline turns one dropped path into one ResultEntry.
type Pipeline struct {
	clearer Clearer
	log     *ResultLog
	logger  *slog.Logger
	timeout time.Duration
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLog makes the pipeline prepend to l instead of a fresh log.
func WithLog(l *ResultLog) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithLogger sets the logger used for per-item diagnostics.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTimeout bounds each clearing command. The command is killed when d
// elapses and the entry reports a timeout. Zero, the default, waits forever.
func WithTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewPipeline returns a pipeline that clears attributes with c.
// A nil c runs /usr/bin/xattr.
func NewPipeline(c Clearer, opts ...PipelineOption) *Pipeline {
	if c == nil {
		c = xattr.NewCommandClearer()
	}
	p := &Pipeline{
		clearer: c,
		log:     NewResultLog(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "pipeline")
	return p
}

// Log returns the log that Process prepends to.
func (p *Pipeline) Log() *ResultLog {
	return p.log
}

// Run clears attributes on path and classifies the outcome without touching
// the log. It blocks until the command exits and is safe to call from any
// goroutine.
func (p *Pipeline) Run(ctx context.Context, path string) ResultEntry {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	p.logger.Debug("clearing attributes", "path", path)
	start := time.Now()
	res, err := p.clearer.Clear(ctx, path)
	entry := Classify(path, res, err)
	if !entry.Success && p.timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		entry.Message = fmt.Sprintf("timed out after %s", p.timeout)
	}

	attrs := []any{
		"name", entry.Name,
		"path", path,
		"outcome", entry.Outcome,
		"exit_code", entry.ExitCode,
		"duration", time.Since(start),
	}
	if entry.Success {
		p.logger.Info("attributes cleared", attrs...)
	} else {
		p.logger.Warn("clearing failed", append(attrs, "message", entry.Message)...)
	}
	return entry
}

// Process runs path through the pipeline and prepends the entry to the log.
// Callers must not invoke Process concurrently if they depend on log order;
// use a Coordinator for that.
func (p *Pipeline) Process(ctx context.Context, path string) ResultEntry {
	entry := p.Run(ctx, path)
	p.log.Prepend(entry)
	return entry
}

// Classify builds the entry for one invocation of a Clearer on path.
//
//   - err != nil: the command never started; failure with err's description.
//   - exit status zero: success with SuccessMessage.
//   - otherwise: failure with the trimmed stderr, or UnknownError when
//     stderr was empty or not valid UTF-8.
func Classify(path string, res xattr.Result, err error) ResultEntry {
	entry := ResultEntry{
		ID:          uuid.New(),
		Name:        DisplayName(path),
		Path:        path,
		ExitCode:    res.ExitCode,
		ProcessedAt: time.Now(),
	}

	switch {
	case err != nil:
		entry.Outcome = OutcomeLaunchFailed
		entry.ExitCode = -1
		entry.Message = err.Error()
		var launchErr *xattr.LaunchError
		if errors.As(err, &launchErr) && launchErr.Err != nil {
			entry.Message = launchErr.Err.Error()
		}
		if entry.Message == "" {
			entry.Message = UnknownError
		}
	case res.OK():
		entry.Success = true
		entry.Outcome = OutcomeCleared
		entry.Message = SuccessMessage
	default:
		entry.Outcome = OutcomeExecFailed
		entry.Message = res.Stderr
		if res.Undecodable || entry.Message == "" {
			entry.Message = UnknownError
		}
	}
	return entry
}
