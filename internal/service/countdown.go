package service

import (
	"fmt"
	"sync"
	"time"
)

// Ticker es la parte de time.Ticker que usa Countdown.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc crea un Ticker con el periodo dado.
type TickerFunc func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewRealTicker envuelve time.NewTicker.
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Countdown cuenta segundos hacia atras hasta 0. Es un recurso con dueno:
// quien llama a Start debe llamar a Stop en todas las salidas.
type Countdown struct {
	newTicker TickerFunc

	mu        sync.Mutex
	remaining int
	stop      chan struct{}
	done      chan struct{}
}

func NewCountdown(newTicker TickerFunc) *Countdown {
	if newTicker == nil {
		newTicker = NewRealTicker
	}
	return &Countdown{newTicker: newTicker}
}

// Start detiene cualquier cuenta previa y arranca desde seconds.
// onTick, si no es nil, recibe el valor restante tras cada decremento;
// no debe llamar a Stop ni a Start.
func (c *Countdown) Start(seconds int, onTick func(remaining int)) {
	if seconds < 0 {
		seconds = 0
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	c.mu.Lock()
	prevStop, prevDone := c.stop, c.done
	c.remaining = seconds
	c.stop = stop
	c.done = done
	c.mu.Unlock()
	release(prevStop, prevDone)

	if seconds == 0 {
		close(done)
		return
	}
	go c.run(c.newTicker(time.Second), stop, done, onTick)
}

func (c *Countdown) run(t Ticker, stop chan struct{}, done chan<- struct{}, onTick func(int)) {
	defer close(done)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			c.mu.Lock()
			if c.stop != stop {
				c.mu.Unlock()
				return
			}
			if c.remaining > 0 {
				c.remaining--
			}
			remaining := c.remaining
			c.mu.Unlock()

			if onTick != nil {
				onTick(remaining)
			}
			if remaining == 0 {
				return
			}
		}
	}
}

// Stop libera el ticker y espera a que termine la goroutine. Es idempotente.
func (c *Countdown) Stop() {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mu.Unlock()
	release(stop, done)
}

// release cierra una cuenta ya desinstalada y espera su goroutine.
func release(stop chan struct{}, done <-chan struct{}) {
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Running indica si la goroutine de la cuenta sigue viva.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Expired indica que la cuenta llego a 0.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done != nil && c.remaining == 0
}

// Done se cierra cuando la cuenta actual termina o se detiene.
// Sin cuenta en curso devuelve un canal ya cerrado.
func (c *Countdown) Done() <-chan struct{} {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return done
}

// FormatClock muestra segundos como m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
