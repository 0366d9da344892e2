//go:build !memkit_debug

// Package assert provides contract checks that panic only in debug builds.
package assert

// Enabled reports whether assertions are compiled in.
const Enabled = false

// That is a no-op unless built with the memkit_debug tag.
func That(bool, string) {}
