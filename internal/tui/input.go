package tui

import (
	"strings"
	"unicode/utf8"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 200

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "ctrl+u":
		return ""
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// renderField renders a labelled single-line input. Masked fields show
// bullets instead of their text.
func renderField(label, value, placeholder string, focused, masked bool) string {
	shown := value
	if masked {
		shown = strings.Repeat("•", utf8.RuneCountInString(value))
	}
	prefix := "   "
	labelText := dimStyle.Render(padRight(label, 10))
	if focused {
		prefix = " " + inputPromptStyle.Render(">") + " "
		labelText = selectedStyle.Render(padRight(label, 10))
	}
	switch {
	case shown == "" && focused:
		return prefix + labelText + accentStyle.Render("█")
	case shown == "":
		return prefix + labelText + inputPlaceholderStyle.Render(placeholder)
	case focused:
		return prefix + labelText + normalStyle.Render(shown) + accentStyle.Render("█")
	default:
		return prefix + labelText + normalStyle.Render(shown)
	}
}
