// Package colors provides the TTY-aware color palette of the CLI.
//
// Colors are disabled when stdout is not a terminal, as detected by fatih/color.
// Init overrides that from the --color and --no-color flags.
package colors

import (
	"strings"

	"github.com/fatih/color"
)

// Init allows overriding the auto-detected color setting.
//   - forceColor == nil: keep auto-detected value
//   - forceColor == true: force colors on (--color)
//   - forceColor == false: force colors off (--no-color)
func Init(forceColor *bool) {
	if forceColor != nil {
		color.NoColor = !*forceColor
	}
}

// Enabled returns true if colors are currently enabled.
func Enabled() bool {
	return !color.NoColor
}

func Bold() *color.Color        { return color.New(color.Bold) }
func Faint() *color.Color       { return color.New(color.Faint) }
func BoldHiRed() *color.Color   { return color.New(color.Bold, color.FgHiRed) }
func BoldHiBlue() *color.Color  { return color.New(color.Bold, color.FgHiBlue) }
func HiGreen() *color.Color     { return color.New(color.FgHiGreen) }
func HiYellow() *color.Color    { return color.New(color.FgHiYellow) }
func HiCyan() *color.Color      { return color.New(color.FgHiCyan) }
func HiMagenta() *color.Color   { return color.New(color.FgHiMagenta) }
func FaintWhite() *color.Color  { return color.New(color.Faint, color.FgWhite) }
func ItalicFaint() *color.Color { return color.New(color.Italic, color.Faint) }

// Heading styles section titles such as violation group labels.
func Heading() *color.Color { return BoldHiBlue() }

// Alert styles violation counts and warnings.
func Alert() *color.Color { return BoldHiRed() }

// Realtime returns the color of a timing class.
func Realtime(class string) *color.Color {
	switch class {
	case "High":
		return BoldHiRed()
	case "Medium":
		return HiYellow()
	case "Low":
		return HiGreen()
	default:
		return FaintWhite()
	}
}

// Region returns the color of a memory region: external memories are magenta,
// on-chip memories cyan.
func Region(name string) *color.Color {
	if strings.Contains(name, "ext") {
		return HiMagenta()
	}
	return HiCyan()
}

// Usage colors a region fill percentage.
func Usage(percent float64) *color.Color {
	switch {
	case percent >= 90:
		return BoldHiRed()
	case percent >= 70:
		return HiYellow()
	default:
		return HiGreen()
	}
}
