package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/rook-computer/crosshair/internal/app"
	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/input"
	"github.com/rook-computer/crosshair/internal/keybind"
	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/storage"
	"github.com/rook-computer/crosshair/internal/web"
)

const simRoot = "/tmp/crosshair-sim"

func main() {
	_ = godotenv.Load()

	defaults, err := web.DefaultServerConfigFromEnv(":8080", filepath.Join(simRoot, "store.json"))
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", defaults.StaticDir, "serve the editor from this directory (optional); when empty, embedded assets are served")
	storePath := flag.String("store", defaults.StorePath, "saved crosshair store file; also configurable via "+web.EnvStorePath)
	previewOut := flag.String("preview-out", filepath.Join(simRoot, "preview.png"), "write every rendered frame to this PNG")
	scenario := flag.String("scenario", "", "simulator store scenario: (empty) | empty | catalog | corrupt")
	debug := flag.Bool("debug", false, "log to stderr")
	flag.Parse()

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		logger = app.NewFileLogger(os.Stderr)
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupScenario := strings.TrimSpace(*scenario)
	if err := prepareStoreFile(*storePath, startupScenario); err != nil {
		fmt.Println("scenario init error:", err)
		os.Exit(2)
	}

	store := state.NewStore(storage.NewFileKV(*storePath),
		state.WithLogger(logger),
		state.WithClamp(crosshair.DefaultLimits),
	)
	recorder := keybind.NewRecorder(store)
	recorder.Logger = logger
	renderer := render.NewImageRenderer(*previewOut, logger)
	keys := input.NewChanSource()

	control := NewSimControl(processCtx, store, keys, renderer)
	if err := control.ApplyScenario(startupScenario); err != nil {
		fmt.Println("scenario init error:", err)
		os.Exit(2)
	}

	a := app.New(store, renderer, nil, keys)
	a.Logger = logger

	server := web.NewHTTPServer(*listenAddr, web.APIV1Config{
		Handlers: web.APIV1Handlers{FullscreenFunc: a.HandleFullscreen},
		Deps:     web.APIV1Deps{Store: store, Recorder: recorder, Logger: logger},
	})
	server.DevMode = *devMode
	server.Logger = logger
	if ui, ok := web.StaticUIFS(*staticDir); ok {
		server.UI = ui
	}
	server.Routes = func(r chi.Router) { registerSimEndpoints(r, control) }
	a.Web = server

	fmt.Println("Crosshair simulator listening on", *listenAddr)
	fmt.Println("Scenario:", scenarioLabel(startupScenario))
	fmt.Println("Store:", *storePath)
	fmt.Println("Preview:", *previewOut)
	fmt.Println("Editor: http://" + displayAddr(*listenAddr) + "/")
	if err := store.LoadError(); err != nil {
		fmt.Println("Store unreadable, started empty:", err)
	}

	if err := a.Start(processCtx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
}

func scenarioLabel(s string) string {
	if s == "" {
		return "(keep store)"
	}
	return s
}

func displayAddr(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}
