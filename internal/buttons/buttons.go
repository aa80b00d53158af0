// Package buttons turns two GPIO push buttons into an edge-detected event
// queue. Button A exits the game, button B resets the ball.
package buttons

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Event identifies which button fired.
type Event int

const (
	ButtonA Event = iota
	ButtonB
)

// debounce is the dead time after an accepted press.
const debounce = 200 * time.Millisecond

// Buttons watches two active-low push buttons and delivers presses on a
// channel. Presses arriving while the queue is full are dropped.
type Buttons struct {
	events chan Event
}

// New configures the named pins as pulled-up inputs with falling-edge
// detection and starts the watch goroutines.
func New(pinA, pinB string) (*Buttons, error) {
	b := &Buttons{events: make(chan Event, 8)}

	for _, w := range []struct {
		name  string
		event Event
	}{
		{pinA, ButtonA},
		{pinB, ButtonB},
	} {
		pin := gpioreg.ByName(w.name)
		if pin == nil {
			return nil, fmt.Errorf("button pin %q not found", w.name)
		}
		if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return nil, fmt.Errorf("button pin %q: %w", w.name, err)
		}
		go b.watch(pin, w.event)
	}

	return b, nil
}

func (b *Buttons) watch(pin gpio.PinIn, event Event) {
	for {
		if !pin.WaitForEdge(-1) {
			continue
		}
		select {
		case b.events <- event:
		default:
		}
		time.Sleep(debounce)
	}
}

// Events is the press queue.
func (b *Buttons) Events() <-chan Event {
	return b.events
}
