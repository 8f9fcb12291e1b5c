package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/softcentric/tracker/internal/api"
	"github.com/softcentric/tracker/internal/auth"
	"github.com/softcentric/tracker/internal/config"
	"github.com/softcentric/tracker/internal/messaging"
	"github.com/softcentric/tracker/internal/repo"
	"github.com/softcentric/tracker/internal/storage"
	"github.com/softcentric/tracker/internal/storage/jsonfile"
	"github.com/softcentric/tracker/internal/storage/memory"
	"github.com/softcentric/tracker/internal/storage/sqlite"
	"github.com/softcentric/tracker/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level))

	backend, err := openBackend(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer backend.Close()
	slog.Info("Storage initialized", "driver", cfg.Storage.Driver)

	users := repo.NewUsers(backend)
	projects := repo.NewProjects(backend)
	expenses := repo.NewExpenses(backend)
	progress := repo.NewProgress(backend)
	misc := repo.NewMiscExpenses(backend)
	messages := messaging.NewIndex(repo.NewMessages(backend))

	authenticator := auth.NewAuthenticator(users)
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireHour)*time.Hour)

	server := api.New(users, projects, expenses, progress, misc, messages,
		authenticator, jwtManager, slog.Default())

	// h2c allows HTTP/2 without TLS for clients that want it.
	handler := h2c.NewHandler(server.Routes(), &http2.Server{})

	addr := cfg.Addr()
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func openBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Driver {
	case "jsonfile", "":
		return jsonfile.New(cfg.Storage.DataDir)
	case "sqlite":
		return sqlite.New(cfg.Storage.DSN)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
