package service

import (
	"sync"
	"testing"
	"time"
)

func waitTick(t *testing.T, ch <-chan int) int {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for tick")
		return -1
	}
}

func TestCountdownTicksToZero(t *testing.T) {
	newTicker, ticks, tickers := newFakeTickers()
	c := NewCountdown(newTicker)
	seen := make(chan int, 8)

	c.Start(3, func(remaining int) { seen <- remaining })
	if c.Remaining() != 3 || !c.Running() {
		t.Fatalf("expected running at 3, got %d", c.Remaining())
	}

	for _, want := range []int{2, 1, 0} {
		ticks <- time.Now()
		if got := waitTick(t, seen); got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("countdown did not finish")
	}
	if !c.Expired() || c.Running() {
		t.Fatalf("expected expired and stopped")
	}
	if got := tickers(); len(got) != 1 || got[0].stops() != 1 {
		t.Fatalf("ticker must be released once")
	}
	c.Stop()
}

func TestCountdownRestartResets(t *testing.T) {
	newTicker, ticks, tickers := newFakeTickers()
	c := NewCountdown(newTicker)
	seen := make(chan int, 8)

	c.Start(180, func(remaining int) { seen <- remaining })
	ticks <- time.Now()
	if got := waitTick(t, seen); got != 179 {
		t.Fatalf("expected 179, got %d", got)
	}

	c.Start(180, func(remaining int) { seen <- remaining })
	if c.Remaining() != 180 {
		t.Fatalf("expected reset to 180, got %d", c.Remaining())
	}
	if first := tickers()[0]; first.stops() != 1 {
		t.Fatalf("previous ticker not released")
	}
	c.Stop()
	if len(tickers()) != 2 || tickers()[1].stops() != 1 {
		t.Fatalf("second ticker not released")
	}
}

func TestCountdownConcurrentStartsLeaveOneRun(t *testing.T) {
	for i := 0; i < 200; i++ {
		newTicker, _, tickers := newFakeTickers()
		c := NewCountdown(newTicker)

		var wg sync.WaitGroup
		for j := 0; j < 8; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Start(180, nil)
			}()
		}
		wg.Wait()
		c.Stop()

		if c.Running() {
			t.Fatalf("iteration %d: countdown still running after Stop", i)
		}
		created := tickers()
		if len(created) != 8 {
			t.Fatalf("iteration %d: expected 8 tickers, got %d", i, len(created))
		}
		for k, tk := range created {
			if tk.stops() != 1 {
				t.Fatalf("iteration %d: ticker %d released %d times", i, k, tk.stops())
			}
		}
	}
}

func TestCountdownStopIsIdempotent(t *testing.T) {
	newTicker, _, _ := newFakeTickers()
	c := NewCountdown(newTicker)
	c.Stop()

	c.Start(5, nil)
	c.Stop()
	c.Stop()
	if c.Running() {
		t.Fatalf("expected stopped")
	}
	if c.Remaining() != 5 {
		t.Fatalf("stop must not change remaining, got %d", c.Remaining())
	}
	if c.Expired() {
		t.Fatalf("stopped countdown with time left is not expired")
	}
}

func TestCountdownStartZero(t *testing.T) {
	newTicker, _, tickers := newFakeTickers()
	c := NewCountdown(newTicker)
	c.Start(0, nil)

	select {
	case <-c.Done():
	default:
		t.Fatalf("done should be closed")
	}
	if !c.Expired() {
		t.Fatalf("expected expired")
	}
	if len(tickers()) != 0 {
		t.Fatalf("no ticker expected for zero seconds")
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{
		180: "3:00",
		179: "2:59",
		61:  "1:01",
		59:  "0:59",
		0:   "0:00",
		-4:  "0:00",
	}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}
