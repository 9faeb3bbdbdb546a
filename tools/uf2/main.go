// Copyright 2024 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uf2

import (
	"bufio"
	"debug/elf"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/aymanbagabas/go-pty"
	"github.com/buildkite/shellwords"
)

const usageString = `ELF to RP2040 UF2 converter.

Usage: %s [flags] <elffile>

`

var (
	flags = flag.NewFlagSet("uf2", flag.ExitOnError)

	infile string
	run    = flags.String("run", "", "Flash or run the UF2 file with command, e.g. picotool load -x")
)

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "uf2")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() == 1 {
		infile = flags.Arg(0)
	} else {
		flags.Usage()
		os.Exit(1)
	}

	outfile, _ := strings.CutSuffix(infile, ".elf")
	outfile += ".uf2"

	elffile, err := elf.Open(infile)
	if err != nil {
		log.Fatalln(err)
	}
	defer elffile.Close()

	addr, img, err := flashImage(elffile)
	if err != nil {
		log.Fatalln("objcopy:", err)
	}

	out, err := os.Create(outfile)
	if err != nil {
		log.Fatalln(err)
	}
	err = WriteUF2(out, addr, img)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalln("write uf2:", err)
	}

	if *run != "" {
		os.Exit(runUF2(*run, outfile))
	}
}

// runUF2 runs cmdline with the UF2 file appended in a pseudo terminal, so
// tools monitoring the target's serial output don't buffer it. Output is
// logged until the firmware prints PASS or FAIL, or panics.
func runUF2(cmdline, uf2path string) int {
	args, err := shellwords.Split(cmdline)
	if err != nil {
		log.Fatalln("run:", err)
	}
	if len(args) == 0 {
		log.Fatalln("run: empty command")
	}
	args = append(args, uf2path)

	tty, err := pty.New()
	if err != nil {
		log.Fatalln("open pty:", err)
	}
	defer tty.Close()

	cmd := tty.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		log.Fatalln("start command:", err)
	}

	stop := func() {
		tty.Close()
		if err := cmd.Process.Signal(os.Interrupt); err != nil {
			log.Println(err)
		}
	}

	sigintr := make(chan os.Signal, 1)
	signal.Notify(sigintr, os.Interrupt)
	go func() {
		<-sigintr
		stop()
	}()

	code := monitor(tty, log.Default(), func() {
		go func() {
			// give panic() time to print the stacktrace
			time.Sleep(500 * time.Millisecond)
			stop()
		}()
	})
	cmd.Wait()
	return code
}

// monitor logs the lines read from r. On the first line reporting the test
// result or a crash it calls exit once and keeps logging until r is closed.
// It returns the exit code for the reported result.
func monitor(r io.Reader, l *log.Logger, exit func()) int {
	scanner := bufio.NewScanner(r)
	exiting := false
	code := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		l.Println(line)
		if exiting {
			continue
		}
		switch {
		case strings.HasPrefix(line, "fatal error:"), strings.HasPrefix(line, "panic:"):
			fallthrough
		case line == "FAIL":
			code = 1
			fallthrough
		case line == "PASS":
			exiting = true
			exit()
		}
	}
	return code
}
