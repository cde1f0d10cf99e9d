// Package status holds the short-lived, human-readable persistence status
// shown to users ("Saving...", "Saved", "Load error").
package status

import (
	"slices"
	"sync"
	"time"
)

// DefaultClearAfter is how long a message stays visible.
const DefaultClearAfter = 2 * time.Second

// Kind classifies a message for display.
type Kind string

const (
	Info  Kind = "info"
	Busy  Kind = "busy"
	OK    Kind = "ok"
	Error Kind = "error"
)

// Standard messages.
const (
	Loading  = "Loading..."
	Loaded   = "Loaded"
	NoData   = "No saved data"
	LoadFail = "Load error"
	Saving   = "Saving..."
	Saved    = "Saved"
	SaveFail = "Save error"
)

// Message is a status line. The zero value means "nothing to show".
type Message struct {
	Kind Kind      `json:"kind,omitempty"`
	Text string    `json:"text"`
	At   time.Time `json:"at,omitempty"`
}

// Board holds the current message and clears it after a fixed delay.
// A newer message always replaces an older one and cancels its clear.
type Board struct {
	mu         sync.Mutex
	current    Message
	gen        uint64
	clearAfter time.Duration
	timer      *time.Timer
	subs       []func(Message)
}

// NewBoard creates a board. A non-positive clearAfter uses DefaultClearAfter.
func NewBoard(clearAfter time.Duration) *Board {
	if clearAfter <= 0 {
		clearAfter = DefaultClearAfter
	}
	return &Board{clearAfter: clearAfter}
}

// Set publishes a message. Busy messages stay until replaced; all others
// auto-clear.
func (b *Board) Set(kind Kind, text string) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	msg := Message{Kind: kind, Text: text, At: time.Now()}
	b.current = msg
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if kind != Busy {
		b.timer = time.AfterFunc(b.clearAfter, func() { b.clear(gen) })
	}
	subs := slices.Clone(b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(msg)
	}
}

func (b *Board) clear(gen uint64) {
	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.current = Message{}
	b.timer = nil
	subs := slices.Clone(b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(Message{})
	}
}

// Current returns the visible message.
func (b *Board) Current() Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Subscribe registers fn to be called on every change, including clears.
// Callbacks run on the goroutine that caused the change.
func (b *Board) Subscribe(fn func(Message)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Stop cancels a pending clear.
func (b *Board) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
