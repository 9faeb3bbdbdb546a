// Package sdcard builds SD card images holding TinyBit cartridges.
package sdcard

import (
	"bytes"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"

	"github.com/tinybit/picobit/tinybit"
)

const GamesDir = "/games"

var (
	flags = flag.NewFlagSet("sdcard", flag.ExitOnError)

	size  = flags.Int64("size", 64, "image size in MiB")
	label = flags.String("label", "TINYBIT", "volume label")
)

const usageString = `FAT32 SD card image builder.

Usage: %s [flags] <image> <cartridge>...

Cartridges are stored in %s.

`

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "sdcard", GamesDir)
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() < 1 || *size <= 0 {
		flags.Usage()
		os.Exit(1)
	}

	carts := make(map[string][]byte)
	for _, name := range flags.Args()[1:] {
		data, err := os.ReadFile(name)
		if err != nil {
			log.Fatalln(err)
		}
		if err := checkCartridge(data); err != nil {
			log.Fatalf("%s: %v", name, err)
		}
		carts[filepath.Base(name)] = data
	}

	if err := Build(flags.Arg(0), *size<<20, *label, carts); err != nil {
		log.Fatalln(err)
	}
}

// checkCartridge reports whether data looks like a cartridge: a PNG image
// of at least one screen.
func checkCartridge(data []byte) error {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", tinybit.ErrCartridge, err)
	}
	if cfg.Width < tinybit.ScreenWidth || cfg.Height < tinybit.ScreenHeight {
		return fmt.Errorf("%w: %dx%d image smaller than the screen", tinybit.ErrCartridge, cfg.Width, cfg.Height)
	}
	return nil
}

// Build creates a raw disk image at name holding a single FAT32 filesystem
// with carts stored in GamesDir.
func Build(name string, size int64, label string, carts map[string][]byte) error {
	d, err := diskfs.Create(name, size, diskfs.Raw, diskfs.SectorSizeDefault)
	if err != nil {
		return err
	}
	defer d.File.Close()

	fs, err := d.CreateFilesystem(disk.FilesystemSpec{
		Partition:   0,
		FSType:      filesystem.TypeFat32,
		VolumeLabel: label,
	})
	if err != nil {
		return fmt.Errorf("create filesystem: %w", err)
	}
	if err := fs.Mkdir(GamesDir); err != nil {
		return fmt.Errorf("mkdir %s: %w", GamesDir, err)
	}
	for base, data := range carts {
		p := path.Join(GamesDir, base)
		f, err := fs.OpenFile(p, os.O_CREATE|os.O_RDWR)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// ReadCartridges returns the cartridges stored in GamesDir of the image.
func ReadCartridges(name string) (map[string][]byte, error) {
	d, err := diskfs.Open(name)
	if err != nil {
		return nil, err
	}
	defer d.File.Close()

	fs, err := d.GetFilesystem(0)
	if err != nil {
		return nil, err
	}
	infos, err := fs.ReadDir(GamesDir)
	if err != nil {
		return nil, err
	}
	carts := make(map[string][]byte)
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		f, err := fs.OpenFile(path.Join(GamesDir, fi.Name()), os.O_RDONLY)
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		carts[fi.Name()] = data
	}
	return carts, nil
}
