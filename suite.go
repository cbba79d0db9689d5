package iconsuite

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Artifact is one encoded PNG icon.
type Artifact struct {
	lifetime
	size int
	data []byte
}

func (a *Artifact) Size() int { return a.size }

// Name is the conventional file name, icon-<size>.png.
func (a *Artifact) Name() string { return fmt.Sprintf("icon-%d.png", a.size) }

func (a *Artifact) Bytes() ([]byte, error) {
	if !a.alive() {
		return nil, ErrReleased
	}
	return a.data, nil
}

func (a *Artifact) Release() error {
	if err := a.release(); err != nil {
		return err
	}
	a.data = nil
	return nil
}

// Entry is the outcome for one requested size: either an Artifact or a
// skipped marker when the source is smaller than Size.
type Entry struct {
	Size     int
	Artifact *Artifact
	Skipped  bool
}

// Result is the outcome of one successful suite pass.
type Result struct {
	Side    int
	Entries []Entry
}

// Artifacts returns the produced icons in ascending size order.
func (r *Result) Artifacts() []*Artifact {
	var out []*Artifact
	for _, e := range r.Entries {
		if e.Artifact != nil {
			out = append(out, e.Artifact)
		}
	}
	return out
}

func (r *Result) Skipped() []int {
	var out []int
	for _, e := range r.Entries {
		if e.Skipped {
			out = append(out, e.Size)
		}
	}
	return out
}

// Release releases every artifact. Artifacts that were already released are
// reported with ErrReleased after the rest have been released.
func (r *Result) Release() error {
	return releaseArtifacts(r.Artifacts())
}

func releaseArtifacts(as []*Artifact) error {
	var errs []error
	for _, a := range as {
		if err := a.Release(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Orchestrator produces a whole icon suite from one surface. Sizes are
// processed one at a time; a single Orchestrator must not run two passes on
// the same surface concurrently.
type Orchestrator struct {
	Engine *Engine
	Logger hclog.Logger
}

// GenerateSuite plans targets against the surface side and resamples every
// eligible size in ascending order. If any size fails, the pass fails with a
// *GenerationError carrying the artifacts completed so far.
func (o *Orchestrator) GenerateSuite(ctx context.Context, s *Surface, targets TargetSizes) (*Result, error) {
	logger := o.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	engine := o.Engine
	if engine == nil {
		engine = &Engine{}
	}

	if err := targets.Validate(); err != nil {
		return nil, err
	}
	plan := Plan(s.Side(), targets)
	logger.Debug("Plan", "side", s.Side(), "eligible", plan.Eligible, "skipped", plan.Skipped)

	produced := make(map[int]*Artifact, len(plan.Eligible))
	var completed []*Artifact
	for _, size := range plan.Eligible {
		data, err := engine.Resample(ctx, s, size)
		if err != nil {
			return nil, &GenerationError{Size: size, Completed: completed, Err: err}
		}
		a := &Artifact{size: size, data: data}
		produced[size] = a
		completed = append(completed, a)
		logger.Debug("Resampled", "size", size, "bytes", len(data))
	}

	r := &Result{Side: s.Side(), Entries: make([]Entry, 0, len(targets))}
	for _, t := range targets {
		if a, ok := produced[t]; ok {
			r.Entries = append(r.Entries, Entry{Size: t, Artifact: a})
		} else {
			r.Entries = append(r.Entries, Entry{Size: t, Skipped: true})
		}
	}
	return r, nil
}
