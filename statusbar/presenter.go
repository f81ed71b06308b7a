package statusbar

import (
	"fmt"
	"sync"

	"github.com/grovetools/coverlay/coverage"
)

// Click commands exposed by the status item.
const (
	CommandWatch  = "coverlay.watch"
	CommandRemove = "coverlay.remove"
)

const icon = "☂"

// Presenter is a pure derived-state machine for the coverage status item. It
// knows nothing about how coverage is computed: it turns activity flags and
// percentages into text, tooltip, click command and warning color, and
// recomputes all of them in full on every input change.
type Presenter struct {
	mu   sync.Mutex
	item Item

	lineThreshold   float64
	branchThreshold float64

	isActive     bool
	isLoading    bool
	coverageText string
	hasCoverage  bool
	isWarn       bool
}

// NewPresenter wires a presenter to its status item. Thresholds are the
// workspace-aggregate percentages below which the item warns.
func NewPresenter(item Item, lineThreshold, branchThreshold float64) *Presenter {
	p := &Presenter{
		item:            item,
		lineThreshold:   lineThreshold,
		branchThreshold: branchThreshold,
	}
	p.render()
	return p
}

// Toggle marks coverage watching active or inactive.
func (p *Presenter) Toggle(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.isActive = active
	p.render()
}

// SetLoading sets the loading indicator.
func (p *Presenter) SetLoading(loading bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.isLoading = loading
	p.render()
}

// FlipLoading inverts the loading indicator.
func (p *Presenter) FlipLoading() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.isLoading = !p.isLoading
	p.render()
}

// SetCoverage updates the displayed percentages. All four inputs may be
// absent. The warn flag is reset before re-evaluation on every call, so a
// previous warn state never outlives the update that caused it:
//   - all four present: "{line},{branch}%/{totalLine},{totalBranch}%", warn
//     when a total falls below its threshold
//   - line and total line present: "{line}%/{totalLine}%", never warn
//   - only line present: "{line}%", never warn
//   - line absent: no known coverage, clear the text
func (p *Presenter) SetCoverage(line, totalLine, branch, totalBranch coverage.Percent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.isWarn = false

	switch {
	case !line.Defined():
		p.hasCoverage = false
		p.coverageText = ""
	case branch.Defined() && totalLine.Defined() && totalBranch.Defined():
		p.hasCoverage = true
		p.coverageText = fmt.Sprintf("%d,%d%%/%d,%d%%",
			line.Value(), branch.Value(), totalLine.Value(), totalBranch.Value())
		p.isWarn = float64(totalLine.Value()) < p.lineThreshold ||
			float64(totalBranch.Value()) < p.branchThreshold
	case totalLine.Defined():
		p.hasCoverage = true
		p.coverageText = fmt.Sprintf("%d%%/%d%%", line.Value(), totalLine.Value())
	default:
		p.hasCoverage = true
		p.coverageText = fmt.Sprintf("%d%%", line.Value())
	}

	p.render()
}

// Close releases the underlying status item.
func (p *Presenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.item.Close()
}

// render recomputes every derived output. Loading text takes priority over
// the active/inactive display; the warning background applies only while
// both warn and active hold.
func (p *Presenter) render() {
	switch {
	case p.isLoading:
		p.item.SetText(icon + " Loading coverage…")
	case p.isActive:
		text := p.coverageText
		if !p.hasCoverage {
			text = "No"
		}
		p.item.SetText(fmt.Sprintf("%s %s coverage", icon, text))
	default:
		p.item.SetText(icon + " Watch coverage")
	}

	if p.isActive {
		p.item.SetCommand(CommandRemove)
		p.item.SetTooltip("Remove coverage watch")
	} else {
		p.item.SetCommand(CommandWatch)
		p.item.SetTooltip("Start watching coverage")
	}

	p.item.SetWarn(p.isWarn && p.isActive)
	p.item.Show()
}
