package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TraceIDHeader carries the request trace id. An incoming value is reused,
// otherwise a random UUID is generated.
const TraceIDHeader = "X-Trace-ID"

// withTraceID attaches a child logger tagged with trace_id to the request
// context and echoes the id in the response.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(TraceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
