package statusbar

import (
	"testing"

	"github.com/grovetools/coverlay/coverage"
)

// fakeItem records the last value pushed to each output channel.
type fakeItem struct {
	text    string
	tooltip string
	command string
	warn    bool
	visible bool
	closed  bool
}

func (f *fakeItem) SetText(text string)       { f.text = text }
func (f *fakeItem) SetTooltip(tooltip string) { f.tooltip = tooltip }
func (f *fakeItem) SetCommand(command string) { f.command = command }
func (f *fakeItem) SetWarn(warn bool)         { f.warn = warn }
func (f *fakeItem) Show()                     { f.visible = true }
func (f *fakeItem) Hide()                     { f.visible = false }
func (f *fakeItem) Close() error              { f.closed = true; return nil }

func newTestPresenter() (*Presenter, *fakeItem) {
	item := &fakeItem{}
	return NewPresenter(item, 60, 40), item
}

func TestInitialState(t *testing.T) {
	_, item := newTestPresenter()

	if item.text != "☂ Watch coverage" {
		t.Errorf("Unexpected initial text: %q", item.text)
	}
	if item.command != CommandWatch {
		t.Errorf("Inactive item should carry the watch command, got %q", item.command)
	}
	if item.warn {
		t.Error("Initial state must not warn")
	}
	if !item.visible {
		t.Error("Item should be shown")
	}
}

func TestSetCoverageAllFour(t *testing.T) {
	p, item := newTestPresenter()
	p.Toggle(true)

	p.SetCoverage(
		coverage.PercentValue(55), coverage.PercentValue(55),
		coverage.PercentValue(70), coverage.PercentValue(70),
	)

	if item.text != "☂ 55,70%/55,70% coverage" {
		t.Errorf("Unexpected text: %q", item.text)
	}
	if !item.warn {
		t.Error("Total line 55 is below the 60 threshold, expected warn")
	}
}

func TestSetCoverageLinePairOnly(t *testing.T) {
	p, item := newTestPresenter()
	p.Toggle(true)

	p.SetCoverage(
		coverage.PercentValue(80), coverage.PercentValue(90),
		coverage.NoPercent, coverage.NoPercent,
	)

	if item.text != "☂ 80%/90% coverage" {
		t.Errorf("Unexpected text: %q", item.text)
	}
	if item.warn {
		t.Error("Line-only display never warns")
	}
}

func TestSetCoverageLineOnly(t *testing.T) {
	p, item := newTestPresenter()
	p.Toggle(true)

	p.SetCoverage(coverage.PercentValue(42), coverage.NoPercent, coverage.NoPercent, coverage.NoPercent)

	if item.text != "☂ 42% coverage" {
		t.Errorf("Unexpected text: %q", item.text)
	}
	if item.warn {
		t.Error("Single-percentage display never warns")
	}
}

func TestSetCoverageUndefinedClears(t *testing.T) {
	p, item := newTestPresenter()
	p.Toggle(true)

	// Establish a warn state, then clear it with an undefined update.
	p.SetCoverage(
		coverage.PercentValue(10), coverage.PercentValue(10),
		coverage.PercentValue(10), coverage.PercentValue(10),
	)
	if !item.warn {
		t.Fatal("Expected warn before the clearing update")
	}

	p.SetCoverage(coverage.NoPercent, coverage.NoPercent, coverage.NoPercent, coverage.NoPercent)

	if item.text != "☂ No coverage" {
		t.Errorf("Undefined coverage should show the placeholder, got %q", item.text)
	}
	if item.warn {
		t.Error("A stale warn state must never survive an explicit update")
	}
}

func TestWarnRequiresActive(t *testing.T) {
	p, item := newTestPresenter()

	p.SetCoverage(
		coverage.PercentValue(10), coverage.PercentValue(10),
		coverage.PercentValue(10), coverage.PercentValue(10),
	)
	if item.warn {
		t.Error("Warn background applies only while active")
	}

	p.Toggle(true)
	if !item.warn {
		t.Error("Becoming active with low totals should warn")
	}

	p.Toggle(false)
	if item.warn {
		t.Error("Deactivating should drop the warn background")
	}
}

func TestLoadingTakesPriority(t *testing.T) {
	p, item := newTestPresenter()
	p.Toggle(true)
	p.SetCoverage(coverage.PercentValue(80), coverage.PercentValue(90), coverage.NoPercent, coverage.NoPercent)

	p.SetLoading(true)
	if item.text != "☂ Loading coverage…" {
		t.Errorf("Loading text must take priority, got %q", item.text)
	}

	p.SetLoading(false)
	if item.text != "☂ 80%/90% coverage" {
		t.Errorf("Clearing loading should restore the coverage text, got %q", item.text)
	}
}

func TestFlipLoading(t *testing.T) {
	p, item := newTestPresenter()

	p.FlipLoading()
	if item.text != "☂ Loading coverage…" {
		t.Errorf("FlipLoading from idle should show loading, got %q", item.text)
	}
	p.FlipLoading()
	if item.text == "☂ Loading coverage…" {
		t.Error("Second FlipLoading should clear loading")
	}
}

func TestToggleSwitchesCommand(t *testing.T) {
	p, item := newTestPresenter()

	p.Toggle(true)
	if item.command != CommandRemove || item.tooltip != "Remove coverage watch" {
		t.Errorf("Active item should offer removal, got %q / %q", item.command, item.tooltip)
	}

	p.Toggle(false)
	if item.command != CommandWatch || item.tooltip != "Start watching coverage" {
		t.Errorf("Inactive item should offer watching, got %q / %q", item.command, item.tooltip)
	}
}

func TestClose(t *testing.T) {
	p, item := newTestPresenter()
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !item.closed {
		t.Error("Close must release the underlying item")
	}
}
