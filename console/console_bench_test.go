package console

import (
	"log/slog"
	"testing"
)

func BenchmarkPrint(b *testing.B) {
	c, _ := New()
	b.ReportAllocs()
	for b.Loop() {
		c.Print("tick", 42)
	}
}

// BenchmarkHandlerContention logs into one console from every P.
func BenchmarkHandlerContention(b *testing.B) {
	c, _ := New()
	logger := slog.New(c.Handler(nil))
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			logger.Info("tick", "n", 42)
		}
	})
}
