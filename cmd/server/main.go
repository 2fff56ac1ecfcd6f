package main

import (
    "context"
    "errors"
    "flag"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/config"
    "github.com/jaminalder/tictactoe-ai/internal/search"
    "github.com/jaminalder/tictactoe-ai/internal/store"
    "github.com/jaminalder/tictactoe-ai/internal/web"
)

func main() {
    cfg, err := config.FromEnv()
    if err != nil {
        log.Fatalf("[server] config: %v", err)
    }
    flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
    flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite results database (empty keeps results in memory)")
    flag.StringVar(&cfg.AISide, "ai", cfg.AISide, "mark played by the computer (X or O)")
    flag.DurationVar(&cfg.Heartbeat, "heartbeat", cfg.Heartbeat, "keep-alive interval for live streams")
    flag.Parse()
    if err := cfg.Validate(); err != nil {
        log.Fatalf("[server] config: %v", err)
    }

    opts := app.Options{ComputerSide: cfg.ComputerSide(), Logger: log.Default()}
    cache := search.NewCache()
    opts.Searcher = search.NewSearcher(cache)
    if cfg.DBPath != "" {
        results, err := store.Open(cfg.DBPath)
        if err != nil {
            log.Fatalf("[server] open results store: %v", err)
        }
        defer results.Close()
        opts.Recorder = results
        log.Printf("[server] recording results in %s", cfg.DBPath)
    }
    svc := app.NewServiceWithOptions(opts)

    server := &http.Server{
        Addr:    cfg.Addr,
        Handler: web.NewServerWithOptions(svc, web.Options{Heartbeat: cfg.Heartbeat, Cache: cache}),
    }
    serverErrCh := make(chan error, 1)
    go func() {
        if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            serverErrCh <- err
        }
        close(serverErrCh)
    }()

    sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stopSignals()

    log.Printf("[server] listening on %s (computer plays %s)", cfg.Addr, cfg.ComputerSide())
    select {
    case <-sigCtx.Done():
        log.Printf("[server] shutdown signal received: %v", sigCtx.Err())
    case err, ok := <-serverErrCh:
        if ok {
            log.Printf("[server] server error: %v", err)
        }
    }

    shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancelShutdown()
    if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
        log.Printf("[server] graceful shutdown failed: %v", err)
        if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
            log.Printf("[server] forced close failed: %v", closeErr)
        }
    }
}
