package health

import (
	"net/http"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
)

// Healthz returns 200 "ok\n" unconditionally.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Readyz reports ready once a catalog snapshot has been loaded; detection
// and simulation cannot serve without one.
func Readyz(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		if store.Get() == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("no catalog loaded\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready\n"))
	}
}
