// Copyright 2024 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uf2

import (
	"debug/elf"
	"encoding/binary"
	"errors"
	"io"
	"unsafe"
)

const (
	UF2NotMainFlash         = 0x00000001
	UF2FileContainer        = 0x00001000
	UF2FamilyIDPresent      = 0x00002000
	UF2MD5ChecksumPresent   = 0x00004000
	UF2ExtensionTagsPresent = 0x00008000
)

// UF2 families
const (
	FamilyRP2040 = 0xe48bff56
	FamilyData   = 0xe48bff58
)

// RP2040 XIP flash
const (
	FlashStart = 0x10000000
	FlashSize  = 2 * 1024 * 1024
)

const (
	magic0 = 0x0a324655
	magic1 = 0x9e5d5157
	magic2 = 0x0ab16f30
)

type uf2block struct {
	Magic0 uint32
	Magic1 uint32
	Flags  uint32
	Addr   uint32
	Len    uint32
	Seq    uint32
	Total  uint32
	Family uint32
	Data   [256]byte
	_      [476 - 256]byte
	Magic2 uint32
}

// UF2Writer splits a contiguous image starting at addr into UF2 blocks of
// 256 payload bytes. Call Flush after the last Write.
type UF2Writer struct {
	w io.Writer
	b uf2block
}

func NewUF2Writer(w io.Writer, addr, flags, family uint32, size int) *UF2Writer {
	u := new(UF2Writer)
	u.w = w
	u.b.Magic0 = magic0
	u.b.Magic1 = magic1
	u.b.Flags = flags
	u.b.Addr = addr
	u.b.Total = uint32((size + len(u.b.Data) - 1) / len(u.b.Data))
	u.b.Family = family
	u.b.Magic2 = magic2
	return u
}

func (u *UF2Writer) WriteString(s string) (n int, err error) {
	b := &u.b
	for len(s) != 0 {
		m := copy(b.Data[b.Len:], s)
		n += m
		s = s[m:]
		b.Len += uint32(m)
		if int(b.Len) == len(b.Data) {
			err = binary.Write(u.w, binary.LittleEndian, b)
			if err != nil {
				return
			}
			b.Addr += b.Len
			b.Seq++
			b.Len = 0
		}
	}
	return
}

func (u *UF2Writer) Write(p []byte) (n int, err error) {
	return u.WriteString(*(*string)(unsafe.Pointer(&p)))
}

func (u *UF2Writer) Flush() (err error) {
	b := &u.b
	if b.Len == 0 {
		return
	}
	clear(b.Data[b.Len:])
	b.Len = uint32(len(b.Data))
	err = binary.Write(u.w, binary.LittleEndian, b)
	b.Addr += b.Len
	b.Seq++
	b.Len = 0
	return
}

var (
	errNoFlash  = errors.New("no loadable segment in flash")
	errTooLarge = errors.New("image exceeds flash")
)

// flashImage returns the flash contents described by the loadable segments of
// f, starting at the lowest load address. Gaps are zero filled. Segments
// loaded outside of flash, like .bss, are ignored.
func flashImage(f *elf.File) (addr uint32, img []byte, err error) {
	var lo, hi uint64 = FlashStart + FlashSize, 0
	for _, p := range f.Progs {
		if !inFlash(p) {
			continue
		}
		lo = min(lo, p.Paddr)
		hi = max(hi, p.Paddr+p.Filesz)
	}
	if hi == 0 {
		return 0, nil, errNoFlash
	}
	if hi > FlashStart+FlashSize {
		return 0, nil, errTooLarge
	}

	img = make([]byte, hi-lo)
	for _, p := range f.Progs {
		if !inFlash(p) {
			continue
		}
		if _, err := p.ReadAt(img[p.Paddr-lo:p.Paddr-lo+p.Filesz], 0); err != nil {
			return 0, nil, err
		}
	}
	return uint32(lo), img, nil
}

func inFlash(p *elf.Prog) bool {
	return p.Type == elf.PT_LOAD && p.Filesz != 0 &&
		p.Paddr >= FlashStart && p.Paddr < FlashStart+FlashSize
}

// WriteUF2 writes img, to be flashed at addr, as RP2040 UF2 file.
func WriteUF2(w io.Writer, addr uint32, img []byte) error {
	u := NewUF2Writer(w, addr, UF2FamilyIDPresent, FamilyRP2040, len(img))
	if _, err := u.Write(img); err != nil {
		return err
	}
	return u.Flush()
}
