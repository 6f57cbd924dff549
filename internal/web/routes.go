package web

import (
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rook-computer/crosshair/internal/assets"
)

// NewRouter builds the handler shared by the device and the simulator:
// - /api/v1/* for the API
// - / for the editor page
//
// A nil uiFS serves the embedded editor. extra registers additional routes
// on the root router.
func NewRouter(cfg APIV1Config, uiFS fs.FS, extra ...func(chi.Router)) http.Handler {
	cfg.Deps = cfg.Deps.withDefaults()
	if uiFS == nil {
		uiFS = assets.WebUI
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(accessLog(cfg.Deps.Logger))
	r.Use(middleware.Recoverer)

	r.Mount("/api/v1", apiV1Router(cfg))
	r.Get("/", serveFile(uiFS, "index.html"))
	r.Get("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(uiFS))).ServeHTTP)
	for _, register := range extra {
		register(r)
	}
	return r
}

// StaticUIFS returns dir as a filesystem when it is an existing directory,
// for serving an editor build that is not embedded.
func StaticUIFS(dir string) (fs.FS, bool) {
	if dir == "" {
		return nil, false
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return nil, false
	}
	return os.DirFS(dir), true
}

// serveFile returns a handler that reads a single file from fsys and sends it.
func serveFile(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

func accessLog(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Infof("web", "%s %s %d %dB %s [%s]",
				r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
				time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
		})
	}
}
