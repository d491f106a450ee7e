package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

type ModalModel interface {
	tea.Model
	OverlayTitle() string
}

type Sizeable interface {
	SetSize(width, height int) ModalModel
}

// Place draws fg on top of bg with the top left corner of fg at column x and
// row y. bg is padded with spaces where it is too short.
func Place(x, y int, fg, bg string) string {
	bgLines := strings.Split(bg, "\n")
	for i, line := range strings.Split(fg, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		for row >= len(bgLines) {
			bgLines = append(bgLines, "")
		}
		bgLine := bgLines[row]
		if width := ansi.StringWidth(bgLine); width < x {
			bgLine += strings.Repeat(" ", x-width)
		}
		left := ansi.Truncate(bgLine, x, "")
		right := ansi.TruncateLeft(bgLine, x+ansi.StringWidth(line), "")
		bgLines[row] = left + line + right
	}
	return strings.Join(bgLines, "\n")
}
