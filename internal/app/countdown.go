package app

import (
	"sync"
	"time"
)

// Ticker is the subset of time.Ticker the countdown needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// countdown runs onTick for every tick until cancelled. cancel never blocks,
// so onTick may cancel its own countdown.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

func runCountdown(ticker Ticker, onTick func()) *countdown {
	cd := &countdown{stop: make(chan struct{})}
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-cd.stop:
				return
			case <-ticker.C():
				select {
				case <-cd.stop:
					return
				default:
				}
				onTick()
			}
		}
	}()
	return cd
}

func (cd *countdown) cancel() {
	cd.once.Do(func() { close(cd.stop) })
}
