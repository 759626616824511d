// Package theme holds the palette shared by the widgets.
//
// Widgets must remain readable on both light and dark terminal backgrounds,
// so colors are lipgloss.AdaptiveColor pairs and "faint" styling is only
// applied on dark backgrounds (faint text on light terminals often becomes
// illegible).
package theme

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func FaintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	ColorMuted lipgloss.TerminalColor = ac("240", "243")

	ColorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	ColorSelectedFg lipgloss.TerminalColor = ac("235", "255")

	// Cards: very dark borders on light terminals, very bright on dark ones when selected.
	ColorSelectedBorder lipgloss.TerminalColor = ac("232", "255")
	ColorCardBorder     lipgloss.TerminalColor = ac("250", "243")

	ColorSurfaceBg lipgloss.TerminalColor = ac("255", "235")
	ColorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
	ColorControlBg lipgloss.TerminalColor = ac("252", "235")
	ColorInputBg   lipgloss.TerminalColor = ac("254", "234")

	ColorAccent   lipgloss.TerminalColor = ac("27", "62")
	ColorAccentFg lipgloss.TerminalColor = ac("255", "235")

	ColorError lipgloss.TerminalColor = ac("160", "203")
)

func Muted() lipgloss.Style {
	return FaintIfDark(lipgloss.NewStyle().Foreground(ColorMuted))
}

func Active() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorSelectedFg).Background(ColorSelectedBg).Bold(true)
}

func Accent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
}

func Error() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorError)
}

// ApplyColorProfile sets Lip Gloss's color profile for interactive use.
//
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which can disable
// colors in a TUI by accident; here only NO_COLOR is honored and otherwise the
// terminal's capabilities win.
func ApplyColorProfile() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()

	// TERM/COLORTERM sometimes report stronger support than probing does.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// ApplyBackgroundPreference configures background detection.
//
// Priority:
// 1) VALENTINE_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg", last segment is the background)
func ApplyBackgroundPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("VALENTINE_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
