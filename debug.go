package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"tailscale.com/tsweb"

	"github.com/basincreek/gogarmin/internal/httputil"
)

// AttachDebugRoutes exposes read-only diagnostics for this session on mux
// (spec §4.8), patterned on serialmux's tsweb.Debugger admin routes:
//   - /debug/info — last negotiated ProductInfo + ProtocolSet as JSON
//   - /debug/pvt  — Server-Sent-Events tail of the live PVT stream
func (s *Session) AttachDebugRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	debug.HandleSilentFunc("info", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSONOK(w, struct {
			Product any `json:"product"`
			Set     any `json:"protocol_set"`
		}{
			Product: s.ProductInfo(),
			Set:     s.ProtocolSet(),
		})
	})

	debug.HandleSilentFunc("pvt", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httputil.MethodNotAllowed(w)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		ch, err := s.PVT(ctx)
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}

		flusher, _ := w.(http.Flusher)
		w.Write([]byte(": ping\n\n"))
		if flusher != nil {
			flusher.Flush()
		}

		for result := range ch {
			if result.Err != nil {
				fmt.Fprintf(w, "event: error\ndata: %s\n\n", result.Err.Error())
				if flusher != nil {
					flusher.Flush()
				}
				continue
			}
			payload, err := json.Marshal(result.PVT)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			if flusher != nil {
				flusher.Flush()
			}
		}
	})
}
