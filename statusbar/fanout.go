package statusbar

// Fanout duplicates presenter output across several items, e.g. the TUI
// statusline, the state file and the websocket broadcaster at once.
type Fanout []Item

func (f Fanout) SetText(text string) {
	for _, item := range f {
		item.SetText(text)
	}
}

func (f Fanout) SetTooltip(tooltip string) {
	for _, item := range f {
		item.SetTooltip(tooltip)
	}
}

func (f Fanout) SetCommand(command string) {
	for _, item := range f {
		item.SetCommand(command)
	}
}

func (f Fanout) SetWarn(warn bool) {
	for _, item := range f {
		item.SetWarn(warn)
	}
}

func (f Fanout) Show() {
	for _, item := range f {
		item.Show()
	}
}

func (f Fanout) Hide() {
	for _, item := range f {
		item.Hide()
	}
}

func (f Fanout) Close() error {
	var firstErr error
	for _, item := range f {
		if err := item.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
