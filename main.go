package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rook-computer/crosshair/internal/app"
	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/input"
	"github.com/rook-computer/crosshair/internal/keybind"
	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/storage"
	"github.com/rook-computer/crosshair/internal/system"
	"github.com/rook-computer/crosshair/internal/web"
)

const (
	defaultListenAddr = ":80"
	defaultStorePath  = "/var/lib/crosshair/store.json"
)

func main() {
	fmt.Println("Crosshair starting")

	// A missing .env is fine; the environment and flags still apply.
	_ = godotenv.Load()

	defaults, err := web.DefaultServerConfigFromEnv(defaultListenAddr, defaultStorePath)
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	// Flags
	debug := flag.Bool("debug", false, "enable debug logging to ./crosshair-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via CROSSHAIR_STDIO_LOG")
	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode (permissive CORS); also configurable via "+web.EnvDevMode)
	storePath := flag.String("store", defaults.StorePath, "saved crosshair store file; also configurable via "+web.EnvStorePath)
	fbDevice := flag.String("fb", render.DefaultFramebuffer, "framebuffer device")
	flag.Parse()

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("CROSSHAIR_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	// Local file logger when debug enabled
	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./crosshair-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore(storage.NewFileKV(*storePath),
		state.WithLogger(logger),
		state.WithClamp(crosshair.DefaultLimits),
	)
	if err := store.LoadError(); err != nil {
		fmt.Println("saved crosshairs unreadable, starting empty:", err)
	}

	recorder := keybind.NewRecorder(store)
	recorder.Logger = logger

	renderer := render.NewFBRenderer(logger)
	renderer.DevicePath = *fbDevice

	a := app.New(store, renderer, nil, input.NewEvdevSource(logger))
	a.Logger = logger
	a.Console = true

	server := web.NewHTTPServer(*listenAddr, web.APIV1Config{
		Handlers: web.APIV1Handlers{FullscreenFunc: a.HandleFullscreen},
		Deps:     web.APIV1Deps{Store: store, Recorder: recorder, Logger: logger},
	})
	server.DevMode = *devMode
	if ui, ok := web.StaticUIFS(defaults.StaticDir); ok {
		server.UI = ui
	}
	a.Web = server

	if urls, err := system.EditorURLs(*listenAddr); err == nil {
		for _, u := range urls {
			fmt.Println("Editor:", u)
		}
	}

	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
	fmt.Println("Crosshair stopped")
}
