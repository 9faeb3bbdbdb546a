// Package preview runs a game on the simulated board and records what the
// handheld would play and show.
package preview

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"time"

	"github.com/buildkite/shellwords"
	"github.com/ebitengine/oto/v3"
	"golang.org/x/image/draw"

	"github.com/tinybit/picobit/board"
	"github.com/tinybit/picobit/console"
	"github.com/tinybit/picobit/tinybit"
)

var (
	flags = flag.NewFlagSet("preview", flag.ExitOnError)

	frames  = flags.Int("frames", 3*tinybit.FrameRate, "number of frames to run")
	cart    = flags.String("cart", "", "feed the PNG cartridge `file` to the demo")
	wavfile = flags.String("wav", "preview.wav", "write the I2S stream to `file`, empty to disable")
	pngfile = flags.String("png", "preview.png", "write the last panel frame to `file`, empty to disable")
	scale   = flags.Int("scale", 1, "upscale the panel image")
	play    = flags.Bool("play", false, "play the I2S stream on the host")
	run     = flags.String("run", "", "open the panel image with command")
)

const usageString = `Simulated TinyBit board.

Usage: %s [flags]

`

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "preview")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() != 0 || *frames <= 0 || *scale <= 0 {
		flags.Usage()
		os.Exit(1)
	}

	g := tinybit.NewDemo(board.SampleRate)
	if *cart != "" {
		data, err := os.ReadFile(*cart)
		if err != nil {
			log.Fatalln(err)
		}
		if err := g.FeedCartridge(data); err != nil {
			log.Fatalln(err)
		}
	}

	s := board.NewSim(board.RealTime)
	if *play {
		player, err := newPlayer(s)
		if err != nil {
			log.Fatalln("play:", err)
		}
		defer player.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	lcdDone := make(chan struct{})
	lcdCtx, stopLCD := context.WithCancel(ctx)
	go func() {
		s.Display.Serve(lcdCtx)
		close(lcdDone)
	}()
	s.Audio.Start()

	st, err := console.Run(ctx, g, console.Config{
		Display:     s.Display,
		Audio:       s.Audio,
		FramePeriod: time.Second / tinybit.FrameRate,
		Frames:      *frames,
	})
	if err != nil && err != context.Canceled {
		log.Fatalln(err)
	}

	for s.Display.Pending() || s.Display.Busy() {
		time.Sleep(time.Millisecond)
	}
	stopLCD()
	<-lcdDone
	s.Audio.Stop()
	if err := s.DAC.Err(); err != nil {
		log.Println("play:", err)
	}

	if *wavfile != "" {
		if err := writeWAV(s, *wavfile); err != nil {
			log.Fatalln("wav:", err)
		}
	}
	if *pngfile != "" {
		if err := writePNG(s, *pngfile, *scale); err != nil {
			log.Fatalln("png:", err)
		}
	}

	fmt.Println(report(s, st))

	if *run != "" && *pngfile != "" {
		if err := open(*run, *pngfile); err != nil {
			log.Fatalln("run:", err)
		}
	}
}

func writeWAV(s *board.Sim, name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	err = s.DAC.WriteWAV(f, board.SampleRate)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func writePNG(s *board.Sim, name string, scale int) error {
	var img image.Image = s.Panel.Image()
	if scale > 1 {
		r := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, r.Dx()*scale, r.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, r, draw.Src, nil)
		img = dst
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	err = png.Encode(f, img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

type player struct {
	*oto.Player
	w *io.PipeWriter
}

func (p *player) Close() error {
	p.w.Close()
	return p.Player.Close()
}

// newPlayer streams the DAC input to the host audio device.
func newPlayer(s *board.Sim) (*player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   board.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	r, w := io.Pipe()
	s.DAC.Tee(w)
	p := &player{Player: ctx.NewPlayer(r), w: w}
	p.Play()
	return p, nil
}

func open(cmdline, file string) error {
	args, err := shellwords.Split(cmdline)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd := exec.Command(args[0], append(args[1:], file)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
