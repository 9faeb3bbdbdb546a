package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tinybit/picobit/tools/frame"
	"github.com/tinybit/picobit/tools/preview"
	"github.com/tinybit/picobit/tools/sdcard"
	"github.com/tinybit/picobit/tools/uf2"
)

const usageString = `picobit is a tool for development of TinyBit handheld firmware.

Usage:

	%s <command> [arguments]

The commands are:

	uf2      convert firmware elf to UF2 and optionally flash it
	preview  run the demo on the simulated board, record audio and panel
	frame    convert images to raw RGBA4444 frames
	sdcard   build FAT32 SD card images holding cartridges
`

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	log.Default().SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "uf2":
		uf2.Main(flag.Args())
	case "preview":
		preview.Main(flag.Args())
	case "frame":
		frame.Main(flag.Args())
	case "sdcard":
		sdcard.Main(flag.Args())
	default:
		fmt.Fprintf(flag.CommandLine.Output(), "unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}
