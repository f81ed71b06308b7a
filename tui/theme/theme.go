package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultThemeName = "kanagawa"

// --- Kanagawa palette ---
const (
	kanagawaGreen      = "#98BB6C"
	kanagawaYellow     = "#FF9E3B"
	kanagawaRed        = "#FF5D62"
	kanagawaOrange     = "#FFA066"
	kanagawaCyan       = "#7E9CD8"
	kanagawaViolet     = "#957FB8"
	kanagawaLightText  = "#DCD7BA"
	kanagawaMutedText  = "#727169"
	kanagawaBorder     = "#363646"
	kanagawaSubtleBg   = "#1F1F28"
	kanagawaWarnBg     = "#49443C"
	kanagawaSelectedBg = "#223249"
)

// --- Gruvbox palette ---
const (
	gruvboxGreen      = "#B8BB26"
	gruvboxYellow     = "#FABD2F"
	gruvboxRed        = "#FB4934"
	gruvboxOrange     = "#FE8019"
	gruvboxCyan       = "#83A598"
	gruvboxViolet     = "#B16286"
	gruvboxLightText  = "#EBDBB2"
	gruvboxMutedText  = "#BDAE93"
	gruvboxBorder     = "#504945"
	gruvboxSubtleBg   = "#282828"
	gruvboxWarnBg     = "#4A3A28"
	gruvboxSelectedBg = "#32302F"
)

// --- Terminal (ANSI-friendly) palette ---
const (
	terminalGreen      = "2"
	terminalYellow     = "3"
	terminalRed        = "1"
	terminalOrange     = "208"
	terminalCyan       = "6"
	terminalViolet     = "5"
	terminalLightText  = "7"
	terminalMutedText  = "8"
	terminalBorder     = "8"
	terminalSubtleBg   = "0"
	terminalWarnBg     = "3"
	terminalSelectedBg = "8"
)

// Colors encapsulates the palette used by a theme.
type Colors struct {
	Green             lipgloss.TerminalColor
	Yellow            lipgloss.TerminalColor
	Red               lipgloss.TerminalColor
	Orange            lipgloss.TerminalColor
	Cyan              lipgloss.TerminalColor
	Violet            lipgloss.TerminalColor
	LightText         lipgloss.TerminalColor
	MutedText         lipgloss.TerminalColor
	Border            lipgloss.TerminalColor
	SubtleBackground  lipgloss.TerminalColor
	WarnBackground    lipgloss.TerminalColor
	SelectedBackground lipgloss.TerminalColor
}

// Theme holds the pre-configured styles used by coverlay's terminal surfaces.
type Theme struct {
	Colors Colors

	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Normal lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style

	// Statusline styles. WarnItem carries the warning background the
	// presenter switches on when aggregate coverage drops below thresholds.
	StatusItem lipgloss.Style
	WarnItem   lipgloss.Style

	Panel lipgloss.Style
	Help  lipgloss.Style
}

var themeRegistry = map[string]func() Colors{
	"kanagawa": newKanagawaColors,
	"gruvbox":  newGruvboxColors,
	"terminal": newTerminalColors,
}

// DefaultTheme is the default theme instance.
var DefaultTheme = NewTheme()

// NewTheme creates a theme based on the COVERLAY_THEME environment variable,
// falling back to the kanagawa palette.
func NewTheme() *Theme {
	return NewThemeWithName(os.Getenv("COVERLAY_THEME"))
}

// NewThemeWithName constructs a theme from a specific palette name.
func NewThemeWithName(name string) *Theme {
	return newThemeFromColors(resolveThemeColors(name))
}

func newThemeFromColors(colors Colors) *Theme {
	return &Theme{
		Colors: colors,

		Title: lipgloss.NewStyle().
			Bold(true).
			Underline(true),

		Success: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(colors.Cyan).
			Bold(true),

		Normal: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Faint(true),

		Accent: lipgloss.NewStyle().
			Foreground(colors.Violet).
			Bold(true),

		StatusItem: lipgloss.NewStyle().
			Foreground(colors.LightText).
			Background(colors.SubtleBackground).
			Padding(0, 1),

		WarnItem: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Background(colors.WarnBackground).
			Bold(true).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(colors.MutedText),
	}
}

func resolveThemeColors(name string) Colors {
	key := normalizeThemeName(name)
	if builder, ok := themeRegistry[key]; ok {
		return builder()
	}
	return themeRegistry[defaultThemeName]()
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return normalized
}

func newKanagawaColors() Colors {
	return Colors{
		Green:              lipgloss.Color(kanagawaGreen),
		Yellow:             lipgloss.Color(kanagawaYellow),
		Red:                lipgloss.Color(kanagawaRed),
		Orange:             lipgloss.Color(kanagawaOrange),
		Cyan:               lipgloss.Color(kanagawaCyan),
		Violet:             lipgloss.Color(kanagawaViolet),
		LightText:          lipgloss.Color(kanagawaLightText),
		MutedText:          lipgloss.Color(kanagawaMutedText),
		Border:             lipgloss.Color(kanagawaBorder),
		SubtleBackground:   lipgloss.Color(kanagawaSubtleBg),
		WarnBackground:     lipgloss.Color(kanagawaWarnBg),
		SelectedBackground: lipgloss.Color(kanagawaSelectedBg),
	}
}

func newGruvboxColors() Colors {
	return Colors{
		Green:              lipgloss.Color(gruvboxGreen),
		Yellow:             lipgloss.Color(gruvboxYellow),
		Red:                lipgloss.Color(gruvboxRed),
		Orange:             lipgloss.Color(gruvboxOrange),
		Cyan:               lipgloss.Color(gruvboxCyan),
		Violet:             lipgloss.Color(gruvboxViolet),
		LightText:          lipgloss.Color(gruvboxLightText),
		MutedText:          lipgloss.Color(gruvboxMutedText),
		Border:             lipgloss.Color(gruvboxBorder),
		SubtleBackground:   lipgloss.Color(gruvboxSubtleBg),
		WarnBackground:     lipgloss.Color(gruvboxWarnBg),
		SelectedBackground: lipgloss.Color(gruvboxSelectedBg),
	}
}

func newTerminalColors() Colors {
	return Colors{
		Green:              lipgloss.Color(terminalGreen),
		Yellow:             lipgloss.Color(terminalYellow),
		Red:                lipgloss.Color(terminalRed),
		Orange:             lipgloss.Color(terminalOrange),
		Cyan:               lipgloss.Color(terminalCyan),
		Violet:             lipgloss.Color(terminalViolet),
		LightText:          lipgloss.Color(terminalLightText),
		MutedText:          lipgloss.Color(terminalMutedText),
		Border:             lipgloss.Color(terminalBorder),
		SubtleBackground:   lipgloss.Color(terminalSubtleBg),
		WarnBackground:     lipgloss.Color(terminalWarnBg),
		SelectedBackground: lipgloss.Color(terminalSelectedBg),
	}
}
