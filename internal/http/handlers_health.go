package httpx

import (
	"io"
	"net/http"
)

// healthHandler answers readiness and liveness probes. It reports
// process health only; dependency checks here would make restarts
// cascade.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	// A write failure means the client went away; nothing to do.
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}
