package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/coverlay/config"
	"github.com/grovetools/coverlay/coverage"
	"github.com/grovetools/coverlay/editor"
	"github.com/grovetools/coverlay/logging"
	"github.com/grovetools/coverlay/watcher"
)

// Editor is the view of the attached editor the service needs: which file
// has focus, which buffers are visible, and a way to learn about focus
// changes. *editor.Client satisfies it.
type Editor interface {
	ActiveFile() (string, error)
	VisibleBuffers() ([]editor.Buffer, error)
	OnFocusChange(fn func(file string)) (release func(), err error)
}

// Renderer paints a cache onto buffers. Rendering an empty cache clears all
// decorations. *editor.Renderer satisfies it.
type Renderer interface {
	Render(cache coverage.Cache, buffers []editor.Buffer)
}

// Presenter is the status display the service feeds. *statusbar.Presenter
// satisfies it.
type Presenter interface {
	Toggle(active bool)
	SetLoading(loading bool)
	SetCoverage(line, totalLine, branch, totalBranch coverage.Percent)
}

// Service owns the authoritative coverage cache and drives the refresh
// cycle: discover report files, read them, parse and merge into a new cache,
// swap it in atomically, render, and push the aggregate to the presenter.
// External triggers (filesystem events, focus changes, user commands) all
// funnel through here.
type Service struct {
	cfg           *config.Config
	workspaceRoot string
	editor        Editor
	renderer      Renderer
	presenter     Presenter
	log           *logrus.Entry

	mu        sync.Mutex
	cache     coverage.Cache
	state     State
	displayed bool
	releases  []func()

	// generation serializes cache writes: a refresh cycle discards its
	// result when a newer cycle has started since it began.
	generation uint64

	// Pipeline stages, replaceable in tests.
	discover    func(ctx context.Context) ([]string, error)
	load        func(paths []string) (map[string]string, error)
	parse       func(contents map[string]string) coverage.Cache
	subscribeFS func(onChange func(file string)) (release func(), err error)
}

// New builds a service for one workspace session.
func New(cfg *config.Config, workspaceRoot string, ed Editor, renderer Renderer, presenter Presenter) *Service {
	s := &Service{
		cfg:           cfg,
		workspaceRoot: workspaceRoot,
		editor:        ed,
		renderer:      renderer,
		presenter:     presenter,
		log:           logging.NewLogger("service"),
		cache:         coverage.Cache{},
		state:         StateInitializing,
	}
	s.discover = func(ctx context.Context) ([]string, error) {
		return coverage.FindCoverageFiles(ctx, cfg, workspaceRoot)
	}
	s.load = coverage.LoadFiles
	s.parse = func(contents map[string]string) coverage.Cache {
		return coverage.FilesToSections(contents, cfg.Coverage.BaseDir)
	}
	s.subscribeFS = s.watchReports
	return s
}

// Display runs one full refresh cycle and marks coverage as displayed.
func (s *Service) Display(ctx context.Context) {
	s.mu.Lock()
	s.displayed = true
	s.mu.Unlock()
	s.presenter.Toggle(true)
	s.refresh(ctx)
}

// Toggle switches the display on or off. Turning it off clears the visible
// decorations but keeps the cache, so turning it back on is instant.
func (s *Service) Toggle(ctx context.Context) {
	s.mu.Lock()
	displayed := s.displayed
	s.mu.Unlock()

	if displayed {
		s.RemoveCoverage()
		return
	}
	s.Display(ctx)
}

// Watch displays coverage once, then keeps it fresh: filesystem changes to
// report files trigger a full refresh, editor focus changes a lightweight
// re-render from the existing cache.
func (s *Service) Watch(ctx context.Context) error {
	s.Display(ctx)

	releaseFS, err := s.subscribeFS(func(file string) {
		s.log.WithField("file", file).Debug("Report change trigger")
		s.refresh(ctx)
	})
	if err != nil {
		return err
	}

	releaseFocus, err := s.editor.OnFocusChange(func(file string) {
		s.log.WithField("file", file).Debug("Focus change trigger")
		s.refreshFromCache()
	})
	if err != nil {
		releaseFS()
		return err
	}

	s.mu.Lock()
	s.releases = append(s.releases, releaseFS, releaseFocus)
	s.mu.Unlock()
	return nil
}

// RemoveCoverage clears all rendered decorations without discarding the
// cache, and marks coverage as not displayed.
func (s *Service) RemoveCoverage() {
	s.mu.Lock()
	s.displayed = false
	s.mu.Unlock()

	s.renderEmpty()
	s.presenter.Toggle(false)
	none := coverage.NoPercent
	s.presenter.SetCoverage(none, none, none, none)
}

// Close releases all subscriptions, resets the cache and issues one render
// with the empty cache so no decorations outlive the service.
func (s *Service) Close() error {
	s.mu.Lock()
	releases := s.releases
	s.releases = nil
	s.displayed = false
	s.cache = coverage.Cache{}
	s.mu.Unlock()

	for _, release := range releases {
		release()
	}

	s.renderEmpty()
	s.presenter.SetLoading(false)
	s.presenter.Toggle(false)
	return nil
}

// State returns the current refresh phase.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cache returns the current snapshot. Callers must treat it as read-only.
func (s *Service) Cache() coverage.Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache
}

// refresh runs one full cycle. The loading indicator is set before the
// first suspension point and cleared on every exit path; any unexpected
// failure lands in StateError with decorations untouched. While coverage is
// hidden the cycle is skipped entirely, matching refreshFromCache. A cycle
// that went stale because a newer one started meanwhile discards its result
// and suppresses its terminal transitions, so it can neither overwrite the
// newer cycle's state nor clear its loading indicator.
func (s *Service) refresh(ctx context.Context) {
	s.mu.Lock()
	displayed := s.displayed
	s.mu.Unlock()
	if !displayed {
		s.log.Debug("Skipping refresh while coverage is hidden")
		return
	}

	gen := atomic.AddUint64(&s.generation, 1)

	s.presenter.SetLoading(true)
	defer func() {
		if s.currentCycle(gen) {
			s.presenter.SetLoading(false)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("Refresh cycle panicked")
			if s.currentCycle(gen) {
				s.transition(StateError)
			}
		}
	}()

	s.transition(StateLoading)

	paths, err := s.discover(ctx)
	if err != nil {
		s.fail(gen, "Report discovery failed", err)
		return
	}

	contents, err := s.load(paths)
	if err != nil {
		s.fail(gen, "Report read failed", err)
		return
	}

	cache := s.parse(contents)

	s.mu.Lock()
	if !s.currentCycle(gen) {
		s.mu.Unlock()
		s.log.Debug("Discarding stale refresh result, a newer cycle started")
		return
	}
	s.cache = cache
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"reports": len(paths), "files": len(cache)}).
		Info("Coverage cache refreshed")

	s.transition(StateRendering)
	s.renderAndAggregate(cache)
	s.transition(StateReady)
}

// refreshFromCache is the lightweight focus-change variant: no rediscovery
// or reparsing, just re-render and recompute the aggregate from the cache
// already held.
func (s *Service) refreshFromCache() {
	s.mu.Lock()
	cache := s.cache
	displayed := s.displayed
	s.mu.Unlock()

	if !displayed {
		return
	}
	s.renderAndAggregate(cache)
}

func (s *Service) renderAndAggregate(cache coverage.Cache) {
	buffers, err := s.editor.VisibleBuffers()
	if err != nil {
		s.log.WithError(err).Warn("Could not list visible buffers")
		buffers = nil
	}
	s.renderer.Render(cache, buffers)

	// Aggregation failures degrade to "no coverage", never further.
	activeFile, err := s.editor.ActiveFile()
	if err != nil {
		s.log.WithError(err).Debug("No active editor for aggregate")
		activeFile = ""
	}
	summary := coverage.Summarize(cache, activeFile)
	s.presenter.SetCoverage(
		summary.FileLines, summary.TotalLines,
		summary.FileBranches, summary.TotalBranches,
	)
}

func (s *Service) renderEmpty() {
	buffers, err := s.editor.VisibleBuffers()
	if err != nil {
		buffers = nil
	}
	s.renderer.Render(coverage.Cache{}, buffers)
}

func (s *Service) watchReports(onChange func(file string)) (func(), error) {
	w, err := watcher.New(s.cfg, s.workspaceRoot, onChange)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)
	return func() {
		cancel()
		if err := w.Close(); err != nil {
			s.log.WithError(err).Debug("Failed to close report watcher")
		}
	}, nil
}

// currentCycle reports whether gen is still the newest refresh generation.
func (s *Service) currentCycle(gen uint64) bool {
	return atomic.LoadUint64(&s.generation) == gen
}

func (s *Service) fail(gen uint64, msg string, err error) {
	s.log.WithError(err).Error(msg)
	if !s.currentCycle(gen) {
		s.log.Debug("Suppressing error state from a stale cycle")
		return
	}
	s.transition(StateError)
}

func (s *Service) transition(next State) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()
	s.log.WithFields(logrus.Fields{"from": prev.String(), "to": next.String()}).
		Debug("State transition")
}
