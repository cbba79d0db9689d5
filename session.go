package iconsuite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// State is the lifecycle stage of the current session.
type State int

const (
	StateIdle State = iota
	StateNormalized
	StateSuited
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNormalized:
		return "normalized"
	case StateSuited:
		return "suited"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// session is never modified after it is installed. Transitions build a new
// value and swap it in.
type session struct {
	state   State
	width   int
	height  int
	surface *Surface
	result  *Result
	handles map[int]Handle

	// source and normalized live as long as the surface.
	source     Handle
	normalized Handle
}

type IconView struct {
	Size    int    `json:"size"`
	Name    string `json:"name,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	URL     string `json:"url,omitempty"`
}

// View is a snapshot of a Workspace for display.
type View struct {
	State         State      `json:"state"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	Side          int        `json:"side"`
	SourceURL     string     `json:"source_url,omitempty"`
	NormalizedURL string     `json:"normalized_url,omitempty"`
	Icons         []IconView `json:"icons"`
}

type WorkspaceConfig struct {
	Decoder    *Decoder
	Normalizer *Normalizer
	Engine     *Engine
	Handles    *HandleStore
	Logger     hclog.Logger
}

// Workspace owns the surface, icons and handles of the most recently loaded
// image. Operations are serialized; a new Load releases everything the
// previous image owned once the new session is in place.
type Workspace struct {
	conf WorkspaceConfig
	orch *Orchestrator

	op  sync.Mutex
	mu  sync.RWMutex
	cur *session
}

func NewWorkspace(conf WorkspaceConfig) *Workspace {
	if conf.Logger == nil {
		conf.Logger = hclog.NewNullLogger()
	}
	if conf.Decoder == nil {
		conf.Decoder = &Decoder{}
	}
	if conf.Normalizer == nil {
		conf.Normalizer = &Normalizer{}
	}
	if conf.Engine == nil {
		conf.Engine = &Engine{}
	}
	if conf.Handles == nil {
		conf.Handles = NewHandleStore("/icons/", conf.Logger.Named("handles"))
	}
	return &Workspace{
		conf: conf,
		orch: &Orchestrator{Engine: conf.Engine, Logger: conf.Logger.Named("suite")},
	}
}

func (w *Workspace) Handles() *HandleStore { return w.conf.Handles }

func (w *Workspace) current() *session {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cur
}

func (w *Workspace) swap(next *session) *session {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.cur
	w.cur = next
	return prev
}

// Load decodes and normalizes data and makes it the current image. On
// failure the previous session is left as it was.
func (w *Workspace) Load(ctx context.Context, data []byte) error {
	w.op.Lock()
	defer w.op.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := w.conf.Decoder.Decode(data)
	if err != nil {
		return err
	}
	surface, err := w.conf.Normalizer.Normalize(src)
	width, height := src.Width(), src.Height()
	if relErr := src.Release(); relErr != nil {
		err = errors.Join(err, relErr)
	}
	if err != nil {
		if surface != nil {
			err = errors.Join(err, surface.Release())
		}
		return err
	}

	preview, err := w.conf.Engine.Preview(surface)
	if err != nil {
		return errors.Join(err, surface.Release())
	}

	w.conf.Logger.Debug("Loaded", "width", width, "height", height, "side", surface.Side())
	prev := w.swap(&session{
		state:      StateNormalized,
		width:      width,
		height:     height,
		surface:    surface,
		source:     w.conf.Handles.Publish("source", http.DetectContentType(data), data),
		normalized: w.conf.Handles.Publish("normalized.png", "image/png", preview),
	})
	return w.dispose(prev, true)
}

// Generate produces icons for targets from the current surface. On success
// the previous icons and their handles are released. On failure the icons
// completed during the failed pass are released and the previous session
// stays current.
func (w *Workspace) Generate(ctx context.Context, targets TargetSizes) error {
	w.op.Lock()
	defer w.op.Unlock()

	cur := w.current()
	if cur == nil || cur.state == StateIdle {
		return ErrNoImage
	}

	res, err := w.orch.GenerateSuite(ctx, cur.surface, targets)
	if err != nil {
		var gerr *GenerationError
		if errors.As(err, &gerr) {
			if relErr := releaseArtifacts(gerr.Completed); relErr != nil {
				return errors.Join(err, relErr)
			}
		}
		return err
	}

	handles := make(map[int]Handle)
	for _, a := range res.Artifacts() {
		data, err := a.Bytes()
		if err != nil {
			return errors.Join(err, w.revoke(handles), res.Release())
		}
		handles[a.Size()] = w.conf.Handles.Publish(a.Name(), "image/png", data)
	}

	prev := w.swap(&session{
		state:      StateSuited,
		width:      cur.width,
		height:     cur.height,
		surface:    cur.surface,
		result:     res,
		handles:    handles,
		source:     cur.source,
		normalized: cur.normalized,
	})
	w.conf.Logger.Debug("Generated", "icons", len(handles), "skipped", res.Skipped())
	return w.dispose(prev, false)
}

func (w *Workspace) revoke(handles map[int]Handle, extra ...Handle) error {
	var errs []error
	for _, h := range handles {
		extra = append(extra, h)
	}
	for _, h := range extra {
		if err := w.conf.Handles.Revoke(h.ID); err != nil {
			errs = append(errs, fmt.Errorf("handle %s: %w", h.URL, err))
		}
	}
	return errors.Join(errs...)
}

// dispose releases what s owned. The surface and its preview handles are kept
// when they moved to the next session.
func (w *Workspace) dispose(s *session, surface bool) error {
	if s == nil {
		return nil
	}
	var errs []error
	errs = append(errs, w.revoke(s.handles))
	if s.result != nil {
		errs = append(errs, s.result.Release())
	}
	if surface && s.surface != nil {
		errs = append(errs, w.revoke(nil, s.source, s.normalized), s.surface.Release())
	}
	return errors.Join(errs...)
}

func (w *Workspace) State() State {
	if cur := w.current(); cur != nil {
		return cur.state
	}
	return StateIdle
}

// Side returns the current surface side, or 0 when nothing is loaded.
func (w *Workspace) Side() int {
	if cur := w.current(); cur != nil && cur.surface != nil {
		return cur.surface.Side()
	}
	return 0
}

func (w *Workspace) View() View {
	cur := w.current()
	if cur == nil {
		return View{State: StateIdle}
	}
	v := View{
		State:         cur.state,
		Width:         cur.width,
		Height:        cur.height,
		Side:          cur.surface.Side(),
		SourceURL:     cur.source.URL,
		NormalizedURL: cur.normalized.URL,
	}
	if cur.result == nil {
		return v
	}
	for _, e := range cur.result.Entries {
		iv := IconView{Size: e.Size, Skipped: e.Skipped}
		if h, ok := cur.handles[e.Size]; ok {
			iv.Name = h.Name
			iv.URL = h.URL
		}
		v.Icons = append(v.Icons, iv)
	}
	return v
}

func (w *Workspace) suited() (*session, error) {
	cur := w.current()
	if cur == nil || cur.state != StateSuited {
		return nil, ErrNoImage
	}
	return cur, nil
}

// WriteBundle writes the current icons as a ZIP archive.
func (w *Workspace) WriteBundle(wr io.Writer, opts BundleOptions) error {
	w.op.Lock()
	defer w.op.Unlock()

	cur, err := w.suited()
	if err != nil {
		return err
	}
	return WriteBundle(wr, cur.result, opts)
}

// WriteIcons writes every current icon to dir as icon-<size>.png.
func (w *Workspace) WriteIcons(dir string) error {
	w.op.Lock()
	defer w.op.Unlock()

	cur, err := w.suited()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create dir: %w", err)
	}
	for _, a := range cur.result.Artifacts() {
		data, err := a.Bytes()
		if err != nil {
			return fmt.Errorf("%s: %w", a.Name(), err)
		}
		p := filepath.Join(dir, a.Name())
		w.conf.Logger.Debug("Write file", "path", p)
		if err := os.WriteFile(p, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
	}
	return nil
}

// Close releases everything the workspace owns and returns it to idle.
func (w *Workspace) Close() error {
	w.op.Lock()
	defer w.op.Unlock()
	return w.dispose(w.swap(nil), true)
}
