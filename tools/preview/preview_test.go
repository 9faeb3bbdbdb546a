package preview

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinybit/picobit/board"
	"github.com/tinybit/picobit/console"
)

func TestWritePNG(t *testing.T) {
	s := board.NewSim(board.SimConfig{})
	tests := map[string]struct {
		scale int
		size  int
	}{
		"native":  {1, board.PanelWidth},
		"doubled": {2, 2 * board.PanelWidth},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "panel.png")
			if err := writePNG(s, file, tc.scale); err != nil {
				t.Fatal(err)
			}
			f, err := os.Open(file)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			cfg, err := png.DecodeConfig(f)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Width != tc.size || cfg.Height != tc.size {
				t.Fatalf("got %dx%d image, want %dx%d", cfg.Width, cfg.Height, tc.size, tc.size)
			}
		})
	}
}

func TestReport(t *testing.T) {
	s := board.NewSim(board.SimConfig{})
	out := report(s, console.Stats{Frames: 42, DroppedAudio: 3})
	for _, want := range []string{"TinyBit preview", "frames", "42", "audio dropped", "3", "panel digest"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report lacks %q:\n%s", want, out)
		}
	}
}
