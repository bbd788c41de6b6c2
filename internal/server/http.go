package server

import (
	"log"
	"net/http"
	"time"

	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/rs/zerolog"
)

const readHeaderTimeout = 10 * time.Second

func newHTTPServer(router http.Handler, logger *logger.Logger) *http.Server {
	return &http.Server{
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          newErrorLog(logger),
	}
}

// errorLogWriter forwards net/http internal errors to the structured logger.
type errorLogWriter struct {
	logger *logger.Logger
}

func (w errorLogWriter) Write(p []byte) (int, error) {
	w.logger.WithLevel(zerolog.WarnLevel).Msg(string(trimNewline(p)))
	return len(p), nil
}

func trimNewline(p []byte) []byte {
	if n := len(p); n > 0 && p[n-1] == '\n' {
		return p[:n-1]
	}
	return p
}

func newErrorLog(logger *logger.Logger) *log.Logger {
	return log.New(errorLogWriter{logger: logger}, "", 0)
}
