package sim

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DAC is an I2S receiver. Each word is one stereo frame, left channel in the
// upper half.
type DAC struct {
	mu     sync.Mutex
	frames []uint32
	tee    io.Writer
	err    error
}

func (d *DAC) Put(w uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, w)
	if d.tee != nil && d.err == nil {
		var b [4]byte
		binary.LittleEndian.PutUint16(b[0:], uint16(w>>16))
		binary.LittleEndian.PutUint16(b[2:], uint16(w))
		_, d.err = d.tee.Write(b[:])
	}
}

// Tee copies all following frames to w as interleaved signed 16 bit little
// endian samples. A write error stops the copy and is returned by Err.
func (d *DAC) Tee(w io.Writer) {
	d.mu.Lock()
	d.tee = w
	d.err = nil
	d.mu.Unlock()
}

func (d *DAC) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Frames returns a copy of all received frames.
func (d *DAC) Frames() []uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint32(nil), d.frames...)
}

// Samples splits the received frames into the left and right channel.
func (d *DAC) Samples() (left, right []int16) {
	frames := d.Frames()
	left = make([]int16, len(frames))
	right = make([]int16, len(frames))
	for i, f := range frames {
		left[i] = int16(f >> 16)
		right[i] = int16(f)
	}
	return
}

// WriteWAV encodes the received frames as 16 bit stereo PCM.
func (d *DAC) WriteWAV(w io.WriteSeeker, sampleRate int) error {
	frames := d.Frames()
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, 0, 2*len(frames)),
	}
	for _, f := range frames {
		buf.Data = append(buf.Data, int(int16(f>>16)), int(int16(f)))
	}

	enc := wav.NewEncoder(w, sampleRate, 16, 2, 1)
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
