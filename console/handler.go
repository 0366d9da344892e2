package console

import (
	"bytes"
	"log/slog"
)

// Handler returns a slog.Handler that prints each record as one transcript
// line in logfmt, without the timestamp. opts may be nil.
func (c *Console) Handler(opts *slog.HandlerOptions) slog.Handler {
	var o slog.HandlerOptions
	if opts != nil {
		o = *opts
	}
	replace := o.ReplaceAttr
	o.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		if replace != nil {
			return replace(groups, a)
		}
		return a
	}
	return slog.NewTextHandler(lineWriter{c}, &o)
}

// lineWriter adapts a Console to io.Writer. slog handlers write each record
// with a single Write call ending in a newline.
type lineWriter struct {
	c *Console
}

func (w lineWriter) Write(p []byte) (int, error) {
	w.c.Print(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}
