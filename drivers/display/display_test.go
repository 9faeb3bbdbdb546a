package display_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tinybit/picobit/drivers/display"
	tbtesting "github.com/tinybit/picobit/testing"
)

// sender records the frame index of every snapshot it receives.
type sender struct {
	mu     sync.Mutex
	frames []int
	err    error
	during func()
}

func (s *sender) SendFrame(snapshot []byte) {
	if s.during != nil {
		s.during()
	}
	i := int(snapshot[0])<<4 | int(snapshot[1]>>4)
	s.mu.Lock()
	defer s.mu.Unlock()
	for j := 0; j < len(snapshot); j += 2 {
		if snapshot[j] != snapshot[0] || snapshot[j+1] != snapshot[1] {
			if s.err == nil {
				s.err = fmt.Errorf("torn snapshot: pixel %d differs from frame %d", j/2, i)
			}
			break
		}
	}
	s.frames = append(s.frames, i)
}

func (s *sender) received() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.frames...)
}

func TestLatestWins(t *testing.T) {
	fb := tbtesting.FrameIndex(16, 16, 0)
	s := &sender{}
	d := display.New(fb, s)

	if d.Poll() {
		t.Fatal("sent a frame before any was rendered")
	}

	tbtesting.FillFrameIndex(fb, 1)
	d.RenderFrame()
	tbtesting.FillFrameIndex(fb, 2)
	d.RenderFrame()

	// Drawing after RenderFrame must not leak into the published frame.
	tbtesting.FillFrameIndex(fb, 3)

	if !d.Poll() {
		t.Fatal("pending frame not sent")
	}
	if d.Poll() {
		t.Fatal("frame sent twice")
	}
	if got := s.received(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("panel received frames %v, want [2]", got)
	}
	if st := d.Stats(); st.Rendered != 2 || st.Replaced != 1 || st.Shown != 1 {
		t.Fatalf("stats %+v", st)
	}
}

func TestStateMachine(t *testing.T) {
	fb := tbtesting.FrameIndex(8, 8, 0)
	s := &sender{}
	d := display.New(fb, s)

	if d.Pending() || d.Busy() {
		t.Fatal("not idle after New")
	}
	d.RenderFrame()
	if !d.Pending() || d.Busy() {
		t.Fatal("not pending after RenderFrame")
	}

	var pendingDuring, busyDuring bool
	s.during = func() {
		pendingDuring, busyDuring = d.Pending(), d.Busy()
	}
	d.Poll()
	if pendingDuring || !busyDuring {
		t.Fatalf("during transmission pending=%v busy=%v", pendingDuring, busyDuring)
	}
	if d.Pending() || d.Busy() {
		t.Fatal("not idle after transmission")
	}
}

// TestProducerNeverBlocks renders frames while the consumer is stuck in a
// transmission.
func TestProducerNeverBlocks(t *testing.T) {
	fb := tbtesting.FrameIndex(8, 8, 0)
	release := make(chan struct{})
	entered := make(chan struct{})
	s := &sender{}
	first := true
	s.during = func() {
		if first {
			first = false
			entered <- struct{}{}
			<-release
		}
	}
	d := display.New(fb, s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		d.Serve(ctx)
		close(done)
	}()

	tbtesting.FillFrameIndex(fb, 1)
	d.RenderFrame()
	<-entered

	rendered := make(chan struct{})
	go func() {
		for i := 2; i <= 10; i++ {
			tbtesting.FillFrameIndex(fb, i)
			d.RenderFrame()
		}
		close(rendered)
	}()
	select {
	case <-rendered:
	case <-time.After(time.Second):
		t.Fatal("RenderFrame blocked while the consumer was busy")
	}
	close(release)

	deadline := time.Now().Add(time.Second)
	for d.Stats().Shown < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	got := s.received()
	if len(got) != 2 || got[0] != 1 || got[1] != 10 {
		t.Fatalf("panel received frames %v, want [1 10]", got)
	}
}

func TestConcurrentHandoff(t *testing.T) {
	const frames = 2000
	fb := tbtesting.FrameIndex(32, 32, 0)
	s := &sender{}
	d := display.New(fb, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Serve(ctx)
		close(done)
	}()

	for i := 1; i <= frames; i++ {
		tbtesting.FillFrameIndex(fb, i&0xfff)
		d.RenderFrame()
	}
	for d.Pending() || d.Busy() {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if s.err != nil {
		t.Fatal(s.err)
	}
	got := s.received()
	if len(got) == 0 {
		t.Fatal("no frame shown")
	}
	if last := got[len(got)-1]; last != frames&0xfff {
		t.Fatalf("last frame shown %d, want %d", last, frames&0xfff)
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("frame %d shown after %d", got[i], got[i-1])
		}
	}
	st := d.Stats()
	if st.Rendered != frames || st.Shown+st.Replaced != frames {
		t.Fatalf("stats %+v", st)
	}
}

// TestIdleMeansDrained checks from the producer that the handoff only looks
// idle once every published frame was shown or replaced.
func TestIdleMeansDrained(t *testing.T) {
	const frames = 5000
	fb := tbtesting.FrameIndex(4, 4, 0)
	d := display.New(fb, &sender{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Serve(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	for i := 1; i <= frames; i++ {
		tbtesting.FillFrameIndex(fb, i&0xfff)
		d.RenderFrame()
		for j := 0; j < 4; j++ {
			if d.Pending() || d.Busy() {
				continue
			}
			if st := d.Stats(); st.Shown+st.Replaced != st.Rendered {
				t.Fatalf("frame %d: idle with a frame in flight, stats %+v", i, st)
			}
		}
	}
}
