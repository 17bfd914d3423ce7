// Command edgeproxy is a Layer 7 reverse proxy: it terminates HTTP/1.x
// connections, routes each request to an upstream by Host header, and
// relays the raw connection once the request has been forwarded.
package main

import (
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ocx/edgeproxy/internal/acceptor"
	"github.com/ocx/edgeproxy/internal/config"
	"github.com/ocx/edgeproxy/internal/router"
	"github.com/ocx/edgeproxy/internal/workerpool"
)

func main() {
	_ = godotenv.Load() // optional dev-time overrides; missing .env is not an error

	cfg, err := config.Get()
	if err != nil {
		slog.Error("failed to load configuration", "error", err.Error())
		os.Exit(1)
	}

	routes, err := router.NewTable(cfg.Hosts)
	if err != nil {
		slog.Error("failed to build routing table", "error", err.Error())
		os.Exit(1)
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		slog.Error("failed to bind listener", "addr", cfg.Server.Addr, "error", err.Error())
		os.Exit(1)
	}
	slog.Info("edgeproxy listening", "addr", cfg.Server.Addr, "threads", cfg.Server.Thread, "hosts", len(cfg.Hosts))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		slog.Info("received shutdown signal, closing listener", "signal", s.String())
		ln.Close()
	}()

	pool := workerpool.New(cfg.Server.Thread)

	if err := acceptor.Run(ln, pool, routes); err != nil {
		slog.Info("accept loop stopped", "error", err.Error())
	}
}
