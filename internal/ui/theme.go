package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Label string
	Bullet                                      string
	CornerTL, CornerTR, CornerBL, CornerBR      string
	H, V                                        string
	SymOK, SymFail                              string
}

var current = themeFor("classic")

func themeFor(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		return Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Label: "\033[93m",
			Bullet:   "◆",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymOK: "✔", SymFail: "✖",
		}
	case "mono":
		return Theme{
			Bullet:   "-",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymOK: "ok", SymFail: "error:",
		}
	default: // classic
		return Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Label: fgYellow,
			Bullet:   "•",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymOK: "✔", SymFail: "✖",
		}
	}
}

func SetTheme(name string) {
	current = themeFor(name)
	if strings.EqualFold(strings.TrimSpace(name), "mono") {
		disableColor = true
	}
}

// Expose what renderers need
func Current() Theme { return current }
