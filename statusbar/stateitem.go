package statusbar

import (
	"strings"
	"time"

	"github.com/grovetools/coverlay/logging"
	"github.com/grovetools/coverlay/state"
)

// StateItem persists the coverage summary to the workspace state file so
// shell prompts (coverlay starship status) can show it after the watch
// session has moved on.
type StateItem struct {
	lastSummary string
	lastWarn    bool
}

// NewStateItem returns a state-file backed item.
func NewStateItem() *StateItem {
	return &StateItem{}
}

func (s *StateItem) SetText(text string) {
	summary := summaryFromText(text)
	if summary == s.lastSummary {
		return
	}
	s.lastSummary = summary
	s.persist()
}

func (s *StateItem) SetWarn(warn bool) {
	if warn == s.lastWarn {
		return
	}
	s.lastWarn = warn
	s.persist()
}

func (s *StateItem) SetTooltip(string) {}
func (s *StateItem) SetCommand(string) {}
func (s *StateItem) Show()             {}
func (s *StateItem) Hide()             {}

func (s *StateItem) Close() error {
	st, err := state.Load()
	if err != nil {
		return err
	}
	delete(st, state.KeySummary)
	delete(st, state.KeyWarn)
	delete(st, state.KeyUpdatedAt)
	return state.Save(st)
}

func (s *StateItem) persist() {
	st, err := state.Load()
	if err != nil {
		logging.NewLogger("statusbar").WithError(err).Debug("Could not load state file")
		return
	}
	if s.lastSummary == "" {
		delete(st, state.KeySummary)
		delete(st, state.KeyWarn)
	} else {
		st[state.KeySummary] = s.lastSummary
		st[state.KeyWarn] = s.lastWarn
	}
	st[state.KeyUpdatedAt] = time.Now().Format(time.RFC3339)
	if err := state.Save(st); err != nil {
		logging.NewLogger("statusbar").WithError(err).Debug("Could not persist state file")
	}
}

// summaryFromText reduces the rendered item text back to the bare summary
// string. Placeholder texts (watch prompt, loading, "No coverage") carry no
// summary worth persisting.
func summaryFromText(text string) string {
	s := strings.TrimPrefix(text, icon+" ")
	s = strings.TrimSuffix(s, " coverage")
	switch s {
	case "Watch", "No", "Loading coverage…":
		return ""
	}
	return s
}
