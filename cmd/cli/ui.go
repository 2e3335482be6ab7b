package main

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"iiot-responder/internal/agent/triage"
)

var (
	colorPass = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMute = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}

	passStyle  = lipgloss.NewStyle().Foreground(colorPass)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
	failStyle  = lipgloss.NewStyle().Foreground(colorFail)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMute)
	boldStyle  = lipgloss.NewStyle().Bold(true)
)

const maxReadableWidth = 100

// terminalFd w 是终端时返回其 fd
func terminalFd(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// renderMarkdown 终端输出时用 glamour 渲染，否则原样返回
func renderMarkdown(w io.Writer, md string, raw bool) string {
	fd, tty := terminalFd(w)
	if raw || !tty {
		return md
	}
	wrap := 80
	if width, _, err := term.GetSize(fd); err == nil && width > 0 {
		wrap = width
	}
	if wrap > maxReadableWidth {
		wrap = maxReadableWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func decisionStyle(decision string) lipgloss.Style {
	switch decision {
	case triage.DecisionRemediate:
		return passStyle
	case triage.DecisionHuman:
		return warnStyle
	default:
		return failStyle
	}
}
