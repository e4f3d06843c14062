// streamprobe connects to the push endpoint and prints incoming frames.
// Usage: go run ./cmd/streamprobe --url ws://localhost:8000/ws --symbols SPY,QQQ
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/quote"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/stream"
)

func main() {
	godotenv.Load()

	wsURL := flag.String("url", "ws://localhost:8000/ws", "push endpoint URL")
	symbols := flag.String("symbols", "SPY", "comma-separated symbols to subscribe")
	verbose := flag.Bool("verbose", false, "print full frame JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	handler := stream.FrameHandlerFunc(func(f stream.Frame) {
		if *verbose {
			var pretty json.RawMessage = f.Data
			out, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Printf("[%s] %s\n", f.ReceivedAt.Format("15:04:05.000"), out)
			return
		}

		if q, ok := quote.Parse(f.Data, f.ReceivedAt); ok {
			fmt.Printf("[%s] %-8s last=%s bid=%s ask=%s\n",
				f.ReceivedAt.Format("15:04:05.000"),
				q.Symbol, q.Last, q.Bid, q.Ask,
			)
			return
		}

		fmt.Printf("[%s] frame %d bytes\n", f.ReceivedAt.Format("15:04:05.000"), len(f.Data))
	})

	cfg := stream.DefaultManagerConfig()
	cfg.URL = *wsURL

	manager := stream.NewManager(cfg, handler, nil, logger)
	if err := manager.Start(ctx); err != nil {
		logger.Error("failed to start stream manager", "error", err)
		os.Exit(1)
	}

	var subs []string
	for _, s := range strings.Split(*symbols, ",") {
		if s = strings.TrimSpace(s); s != "" {
			subs = append(subs, s)
		}
	}
	if len(subs) > 0 {
		manager.Subscribe(subs...)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	manager.Stop(stopCtx)
}
