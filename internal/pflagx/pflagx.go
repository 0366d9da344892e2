// Package pflagx implements extensions to pflag.
package pflagx

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/pflag"
)

// LevelP defines a slog level flag on the command line flag set.
func LevelP(name, shorthand string, value slog.Level, usage string) *slog.LevelVar {
	return FlagLevelP(pflag.CommandLine, name, shorthand, value, usage)
}

// FlagLevelP defines a slog level flag on fs. The flag accepts anything
// slog.Level.UnmarshalText does, such as "debug" or "warn+2".
func FlagLevelP(fs *pflag.FlagSet, name, shorthand string, value slog.Level, usage string) *slog.LevelVar {
	level := new(slog.LevelVar)
	def := new(slog.LevelVar)
	def.Set(value)
	fs.TextVarP(level, name, shorthand, def, usage)
	return level
}

// ParseEnv sets command line flags from environment variables.
func ParseEnv(prefix string) error {
	return FlagParseEnv(pflag.CommandLine, prefix, os.Environ())
}

// FlagParseEnv sets flags on fs from environ entries named prefix followed
// by the upper-cased flag name with dashes as underscores, so
// PREFIX_LOG_LEVEL sets --log-level. Unknown names are reported to the flag
// set's output and skipped.
func FlagParseEnv(fs *pflag.FlagSet, prefix string, environ []string) error {
	for _, env := range environ {
		k, v, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		s, ok := strings.CutPrefix(k, prefix)
		if !ok {
			continue
		}
		n := strings.Map(func(r rune) rune {
			if r == '_' {
				return '-'
			}
			return unicode.ToLower(r)
		}, s)
		f := fs.Lookup(n)
		if f == nil {
			fmt.Fprintf(fs.Output(), "env %s: unknown flag --%s\n", k, n)
			continue
		}
		if err := fs.Set(n, v); err != nil {
			return fmt.Errorf("env %s: flag --%s: invalid argument: %w", k, n, err)
		}
	}
	return nil
}
