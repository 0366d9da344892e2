// Command memkit-demo builds a scene of pooled entities, drives it through a
// console, and optionally serves container metrics for Prometheus.
//
// Positional arguments are console commands, run in order:
//
//	memkit-demo populate "spawn probe 0 4 0" stats
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/pavanmanishd/memkit/console"
	"github.com/pavanmanishd/memkit/internal/pflagx"
	"github.com/pavanmanishd/memkit/observe"
	"github.com/pavanmanishd/memkit/scene"
)

var (
	EnvPrefix = "MEMKIT_DEMO_"
	Entities  = pflag.IntP("entities", "n", scene.DefaultCapacity, "entity pool capacity")
	Radius    = pflag.Float32P("radius", "r", 8, "half-width of the populate grid")
	Step      = pflag.Float32P("step", "s", 1, "spacing of the populate grid")
	Churn     = pflag.IntP("churn", "c", 0, "remove and respawn this many entities per tick")
	Ticks     = pflag.IntP("ticks", "t", 0, "number of churn ticks to run after the commands")
	Addr      = pflag.StringP("metrics-addr", "a", "", "serve /metrics on this address and wait for an interrupt (empty to disable)")
	LogLevel  = pflagx.LevelP("log-level", "L", slog.LevelInfo, "log level")
	LogJSON   = pflag.Bool("log-json", false, "use json logs")
	Help      = pflag.BoolP("help", "h", false, "show this help text")
)

func main() {
	if err := pflagx.ParseEnv(EnvPrefix); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	pflag.Parse()

	if *Help {
		fmt.Printf("usage: %s [options] [command...]\n%s\ncommands:\n%s", os.Args[0], pflag.CommandLine.FlagUsages(), commandUsage)
		return
	}

	if *LogJSON {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: LogLevel,
		})))
	} else {
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      LogLevel,
			TimeFormat: time.TimeOnly,
		})))
	}
	slog.SetLogLoggerLevel(LogLevel.Level())

	if err := run(pflag.Args()); err != nil {
		slog.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

func run(commands []string) error {
	sc, err := scene.New(*Entities, scene.WithLogger(slog.Default().With("component", "scene")))
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer sc.Close()

	// mu guards the scene between the command loop and metric collection.
	var mu sync.Mutex
	sh := &shell{scene: sc, mu: &mu, radius: *Radius, step: *Step}

	con, err := console.New(console.WithEvaluator(sh.eval))
	if err != nil {
		return fmt.Errorf("create console: %w", err)
	}
	sh.log = slog.New(con.Handler(&slog.HandlerOptions{Level: LogLevel}))

	for _, cmd := range commands {
		con.Submit(cmd)
	}
	for tick := range *Ticks {
		if err := sh.churn(*Churn); err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
	}
	for _, line := range con.Lines() {
		fmt.Println(line)
	}

	if *Addr == "" {
		return nil
	}
	return serveMetrics(*Addr, &mu, sc, con)
}

func serveMetrics(addr string, mu *sync.Mutex, sc *scene.Scene, con *console.Console) error {
	c := observe.NewCollector("memkit", observe.WithLocker(mu))
	if err := c.Register("scene_entities", sc); err != nil {
		return err
	}
	if err := c.Register("scene_names", sc.Names()); err != nil {
		return err
	}
	if err := c.Register("console_transcript", con); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(c, collectors.NewGoCollector())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}
