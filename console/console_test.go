package console

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantCap int
		wantErr bool
	}{
		{"defaults", nil, MaxEntries, false},
		{"custom transcript", []Option{WithEntries(3)}, 3, false},
		{"zero transcript", []Option{WithEntries(0)}, 0, true},
		{"negative history", []Option{WithInputEntries(-1)}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.opts...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCap, c.Cap())
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestPrintEvictsOldest(t *testing.T) {
	c, err := New(WithEntries(3))
	require.NoError(t, err)

	for i := range 5 {
		c.Printf("line %d", i)
	}
	assert.Equal(t, []string{"line 2", "line 3", "line 4"}, c.Lines())
}

func TestPrintJoinsWithTabs(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	c.Print("a", 1, true)
	assert.Equal(t, []string{"a\t1\ttrue"}, c.Lines())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"short", "hello", 5},
		{"exact", strings.Repeat("x", MaxEntrySize), MaxEntrySize},
		{"long ascii", strings.Repeat("x", MaxEntrySize+10), MaxEntrySize},
		// 511 bytes of ASCII then a 3-byte rune straddling the limit.
		{"rune boundary", strings.Repeat("x", MaxEntrySize-1) + "€", MaxEntrySize - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in)
			assert.Len(t, got, tt.want)
			assert.True(t, strings.HasPrefix(tt.in, got))
		})
	}
}

func TestSubmit(t *testing.T) {
	eval := func(line string) (string, error) {
		switch line {
		case "fail":
			return "", errors.New("boom")
		case "quiet":
			return "", nil
		}
		return strings.ToUpper(line), nil
	}
	c, err := New(WithEvaluator(eval))
	require.NoError(t, err)

	c.Submit("hello")
	c.Submit("fail")
	c.Submit("quiet")
	c.Submit("   ")

	assert.Equal(t, []string{
		"> hello",
		"HELLO",
		"> fail",
		"error: boom",
		"> quiet",
	}, c.Lines())
	assert.Equal(t, []string{"hello", "fail", "quiet"}, c.History())
}

func TestEvaluatorMayPrint(t *testing.T) {
	var c *Console
	c, err := New(WithEvaluator(func(line string) (string, error) {
		c.Print("side effect")
		return "", nil
	}))
	require.NoError(t, err)

	c.Submit("x")
	assert.Equal(t, []string{"> x", "side effect"}, c.Lines())
}

func TestHistoryNavigation(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	_, ok := c.Previous()
	assert.False(t, ok, "empty history")

	for _, s := range []string{"one", "two", "three"} {
		c.Submit(s)
	}

	var got []string
	for {
		s, ok := c.Previous()
		if !ok {
			break
		}
		got = append(got, s)
	}
	assert.Equal(t, []string{"three", "two", "one"}, got)

	s, ok := c.Next()
	assert.True(t, ok)
	assert.Equal(t, "two", s)
	s, ok = c.Next()
	assert.True(t, ok)
	assert.Equal(t, "three", s)
	_, ok = c.Next()
	assert.False(t, ok, "Next stops on the newest entry")

	c.Submit("four")
	s, ok = c.Previous()
	assert.True(t, ok)
	assert.Equal(t, "four", s, "submitting resets the cursor")
}

func TestHistoryEvicts(t *testing.T) {
	c, err := New(WithInputEntries(2))
	require.NoError(t, err)
	for i := range 4 {
		c.Submit(fmt.Sprint(i))
	}
	assert.Equal(t, []string{"2", "3"}, c.History())
}

func TestClearAndToggle(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	c.Submit("cmd")
	c.Clear()
	assert.Empty(t, c.Lines())
	assert.Equal(t, []string{"cmd"}, c.History())

	assert.False(t, c.Active())
	assert.True(t, c.Toggle())
	assert.True(t, c.Active())
	assert.False(t, c.Toggle())
}

func TestHandler(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	logger := slog.New(c.Handler(&slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Debug("hidden")
	logger.Info("spawned", "entity", "cube", "count", 3)
	logger.With("sub", "scene").Warn("pool full")

	assert.Equal(t, []string{
		"level=INFO msg=spawned entity=cube count=3",
		"level=WARN msg=\"pool full\" sub=scene",
	}, c.Lines())
}

func TestHandlerConcurrentUse(t *testing.T) {
	c, err := New(WithEntries(16))
	require.NoError(t, err)
	logger := slog.New(c.Handler(nil))

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				logger.Info("tick", "worker", w, "i", i)
				c.Submit("noop")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, c.Len())
}
