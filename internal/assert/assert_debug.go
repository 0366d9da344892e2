//go:build memkit_debug

// Package assert provides contract checks that panic only in debug builds.
package assert

// Enabled reports whether assertions are compiled in.
const Enabled = true

// That panics with msg when cond is false.
func That(cond bool, msg string) {
	if !cond {
		panic("memkit: assertion failed: " + msg)
	}
}
