package statusbar

// Item is the presentation resource the presenter drives: one status bar
// slot with text, a tooltip, a click command and an optional warning
// background. Implementations include the TUI statusline segment and the
// daemon's broadcast item.
type Item interface {
	// SetText replaces the visible text.
	SetText(text string)
	// SetTooltip replaces the hover/help text.
	SetTooltip(tooltip string)
	// SetCommand sets the command invoked when the item is activated.
	SetCommand(command string)
	// SetWarn switches the item between the default and warning background.
	SetWarn(warn bool)
	// Show makes the item visible.
	Show()
	// Hide removes the item from the status bar.
	Hide()
	// Close releases the item permanently.
	Close() error
}
