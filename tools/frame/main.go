// Package frame converts images into raw framebuffer contents.
package frame

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"

	"github.com/tinybit/picobit/framebuffer"
	"github.com/tinybit/picobit/tinybit"
)

var (
	flags = flag.NewFlagSet("frame", flag.ExitOnError)

	width   = flags.Int("width", tinybit.ScreenWidth, "frame width")
	height  = flags.Int("height", tinybit.ScreenHeight, "frame height")
	dither  = flags.Bool("dither", false, "enable Floyd-Steinberg error diffusion")
	palette = flags.Int("palette", 0, "reduce to at most this many colors, 0 keeps all")

	imagefile string
)

const usageString = `Image to RGBA4444 frame converter.

Usage: %s [flags] <image>

`

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "frame")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() == 1 && *width > 0 && *height > 0 && *palette >= 0 {
		imagefile = flags.Arg(0)
	} else {
		flags.Usage()
		os.Exit(1)
	}

	r, err := os.Open(imagefile)
	if err != nil {
		log.Fatalln(err)
	}
	src, _, err := image.Decode(r)
	r.Close()
	if err != nil {
		log.Fatalln(err)
	}

	fb := convert(src, image.Pt(*width, *height), *palette, *dither)

	outfile := strings.TrimSuffix(imagefile, filepath.Ext(imagefile))
	outfile += ".rgba4444"
	if err := os.WriteFile(outfile, fb.Pix, 0o644); err != nil {
		log.Fatalln(err)
	}
}

// convert scales src to size and stores it as RGBA4444. With palette > 0 the
// colors are reduced by median cut first.
func convert(src image.Image, size image.Point, palette int, dither bool) *framebuffer.Framebuffer {
	r := image.Rectangle{Max: size}
	var scaled draw.Image = image.NewRGBA(r)
	draw.CatmullRom.Scale(scaled, r, src, src.Bounds(), draw.Src, nil)

	var d draw.Drawer = draw.Src
	if dither {
		d = draw.FloydSteinberg
	}

	var img image.Image = scaled
	if palette > 0 {
		q := quantize.MedianCutQuantizer{}
		p := q.Quantize(make(color.Palette, 0, palette), scaled)
		pal := image.NewPaletted(r, p)
		d.Draw(pal, r, scaled, image.Point{})
		img = pal
		d = draw.Src
	}

	fb := framebuffer.New(r)
	d.Draw(fb, r, img, image.Point{})
	return fb
}
