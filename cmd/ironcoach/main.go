package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/ironcoach/ironcoach/internal/auth"
	"github.com/ironcoach/ironcoach/internal/coach"
	"github.com/ironcoach/ironcoach/internal/config"
	"github.com/ironcoach/ironcoach/internal/mcp"
	"github.com/ironcoach/ironcoach/internal/outbox"
	"github.com/ironcoach/ironcoach/internal/realtime"
	"github.com/ironcoach/ironcoach/internal/server"
	"github.com/ironcoach/ironcoach/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("IronCoach starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	version, err := storage.RunMigrations(dsn, cfg.Database.MigrationsDir())
	if err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied", "schema_version", version)

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Live workout updates go to Redis when configured. The session manager
	// falls back to a no-op publisher otherwise.
	var pub realtime.Publisher
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, live updates disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			p := realtime.NewRedisPublisher(rdb)
			defer p.Close()
			pub = p
			log.Info("redis connected", "addr", cfg.Redis.Addr)
		}
	}

	// Local buffer for sessions that fail to save
	ob, err := outbox.Open(cfg.Outbox.Dir, log)
	if err != nil {
		log.Error("failed to open outbox", "dir", cfg.Outbox.Dir, "error", err)
		os.Exit(1)
	}
	defer ob.Close()
	go ob.Run(ctx, db, cfg.Outbox.DrainInterval())

	authSvc, err := auth.NewService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		log.Error("failed to create auth service", "error", err)
		os.Exit(1)
	}

	sessions := server.NewManager(db, ob, pub, log)
	srv := server.New(db, authSvc, sessions, log)

	// Time-driven coaching triggers
	sched := coach.NewScheduler(db, log)
	sched.Start()
	defer sched.Stop()

	// MCP endpoint on the same listener, bearer-authenticated per request
	mcpSrv := mcp.New(db, Version, log)
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				return ctx
			}
			uid, err := authSvc.Verify(token)
			if err != nil {
				return ctx
			}
			return mcp.WithUserID(ctx, uid)
		}),
	))

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if cfg.Tailscale.AuthKey != "" {
			tsServer.AuthKey = cfg.Tailscale.AuthKey
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
