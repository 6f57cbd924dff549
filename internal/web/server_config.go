package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "CROSSHAIR_LISTEN"
	EnvDevMode    = "CROSSHAIR_DEV"
	EnvStorePath  = "CROSSHAIR_STORE"
	EnvStaticDir  = "CROSSHAIR_STATIC_DIR"
)

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - device:    :80, store under /var/lib/crosshair
// - simulator: :8080, store in the working directory
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
	StorePath  string
	StaticDir  string
}

func DefaultServerConfigFromEnv(defaultListenAddr, defaultStorePath string) (ServerConfig, error) {
	listenAddr := os.Getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}
	storePath := os.Getenv(EnvStorePath)
	if storePath == "" {
		storePath = defaultStorePath
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	return ServerConfig{
		ListenAddr: listenAddr,
		DevMode:    devMode,
		StorePath:  storePath,
		StaticDir:  os.Getenv(EnvStaticDir),
	}, nil
}
