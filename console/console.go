// Package console implements an in-game style console: a bounded transcript
// of output lines and a bounded history of submitted input, both kept in
// ring buffers that evict their oldest entry once full.
package console

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pavanmanishd/memkit/ring"
)

const (
	// MaxEntrySize is the longest line, in bytes, kept by the console.
	// Longer lines are cut at the last rune boundary that fits.
	MaxEntrySize = 512
	// MaxEntries is the default transcript length.
	MaxEntries = 64
	// MaxInputLogEntries is the default input history length.
	MaxInputLogEntries = 64
)

// Evaluator runs a submitted line and returns the text to print. A non-nil
// error is printed instead, prefixed with "error: ".
type Evaluator func(line string) (string, error)

// Console is a mutex-protected transcript and input history. All methods
// are safe for concurrent use, so a Handler may log into it from any
// goroutine.
type Console struct {
	mu     sync.Mutex
	log    *ring.Ring[string]
	input  *ring.Ring[string]
	cursor int // position in input for Previous/Next; == input.Len() when not browsing
	active bool
	eval   Evaluator
}

// Option is a configuration option for Console.
type Option func(*config)

type config struct {
	entries      int
	inputEntries int
	eval         Evaluator
}

// WithEntries sets the transcript length.
func WithEntries(n int) Option {
	return func(c *config) {
		c.entries = n
	}
}

// WithInputEntries sets the input history length.
func WithInputEntries(n int) Option {
	return func(c *config) {
		c.inputEntries = n
	}
}

// WithEvaluator sets the function that runs submitted lines. Without one,
// Submit only echoes and records the input.
func WithEvaluator(e Evaluator) Option {
	return func(c *config) {
		c.eval = e
	}
}

// New creates a console. It fails if either length is not positive.
func New(opts ...Option) (*Console, error) {
	c := config{
		entries:      MaxEntries,
		inputEntries: MaxInputLogEntries,
	}
	for _, opt := range opts {
		opt(&c)
	}

	log, err := ring.New[string](c.entries)
	if err != nil {
		return nil, fmt.Errorf("console: transcript: %w", err)
	}
	input, err := ring.New[string](c.inputEntries)
	if err != nil {
		return nil, fmt.Errorf("console: input history: %w", err)
	}
	return &Console{log: log, input: input, eval: c.eval}, nil
}

// truncate cuts s to at most MaxEntrySize bytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= MaxEntrySize {
		return s
	}
	n := MaxEntrySize
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// push appends line to r, evicting the oldest entry first if r is full.
func push(r *ring.Ring[string], line string) {
	if r.Full() {
		_, _ = r.PopFront()
	}
	_ = r.PushBack(truncate(line))
}

// Print appends one line built from args, separated by tabs.
func (c *Console) Print(args ...any) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	push(c.log, strings.Join(parts, "\t"))
}

// Printf appends one formatted line.
func (c *Console) Printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	c.mu.Lock()
	defer c.mu.Unlock()
	push(c.log, line)
}

// Submit records line in the input history, echoes it to the transcript as
// "> line" and, if an evaluator is set, prints its result. Blank lines are
// ignored.
func (c *Console) Submit(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	c.mu.Lock()
	push(c.input, line)
	c.cursor = c.input.Len()
	push(c.log, "> "+line)
	eval := c.eval
	c.mu.Unlock()

	if eval == nil {
		return
	}
	out, err := eval(line)
	switch {
	case err != nil:
		c.Print("error: " + err.Error())
	case out != "":
		c.Print(out)
	}
}

// Previous steps back through the input history and returns the entry under
// the cursor. It reports false when there is nothing older.
func (c *Console) Previous() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.input.Len() == 0 || c.cursor == 0 {
		return "", false
	}
	c.cursor--
	s, _ := c.input.At(c.cursor)
	return s, true
}

// Next steps forward through the input history. It stops on the most recent
// entry rather than stepping past it.
func (c *Console) Next() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.input.Len()
	if n == 0 || c.cursor >= n-1 {
		return "", false
	}
	c.cursor++
	s, _ := c.input.At(c.cursor)
	return s, true
}

// Lines returns a copy of the transcript, oldest first.
func (c *Console) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, c.log.Len())
	for _, s := range c.log.All() {
		out = append(out, s)
	}
	return out
}

// History returns a copy of the input history, oldest first.
func (c *Console) History() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, c.input.Len())
	for _, s := range c.input.All() {
		out = append(out, s)
	}
	return out
}

// Clear empties the transcript. The input history is kept.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Clear()
}

// Len returns the number of transcript lines.
func (c *Console) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Len()
}

// Cap returns the transcript length.
func (c *Console) Cap() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Cap()
}

// Toggle flips whether the console is shown and returns the new state.
func (c *Console) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = !c.active
	return c.active
}

// Active reports whether the console is shown.
func (c *Console) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
