package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinybit/picobit/board"
	"github.com/tinybit/picobit/console"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6))
	keyStyle   = lipgloss.NewStyle().Width(18).Foreground(lipgloss.ANSIColor(4))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type row struct {
	key, value string
	warn       bool
}

func report(s *board.Sim, st console.Stats) string {
	ds := s.Display.Stats()
	as := s.Audio.Stats()
	ls := s.LCD.Stats()

	rows := []row{
		{"frames", fmt.Sprint(st.Frames), false},
		{"late frames", fmt.Sprint(st.Late), st.Late != 0},
		{"frames shown", fmt.Sprint(ds.Shown), false},
		{"frames replaced", fmt.Sprint(ds.Replaced), ds.Replaced != 0},
		{"panel frame time", ls.Duration.String(), false},
		{"panel digest", fmt.Sprintf("%#02x", s.Panel.Digest()), false},
		{"audio samples", fmt.Sprint(st.QueuedSamples), false},
		{"audio dropped", fmt.Sprint(st.DroppedAudio), st.DroppedAudio != 0},
		{"audio transfers", fmt.Sprint(as.Transfers), false},
		{"audio underruns", fmt.Sprint(as.Underruns), false},
		{"audio replaced", fmt.Sprint(as.Replaced), as.Replaced != 0},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("TinyBit preview"))
	for _, r := range rows {
		v := r.value
		if r.warn {
			v = warnStyle.Render(v)
		}
		b.WriteString("\n" + keyStyle.Render(r.key) + v)
	}
	return boxStyle.Render(b.String())
}
