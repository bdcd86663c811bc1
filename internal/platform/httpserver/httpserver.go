package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// New builds the HTTP server. Connection-level errors from net/http are
// routed into logger at warn level.
func New(addr string, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// RecordDonation may wait on a row lock; leave room for TX_TIMEOUT.
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}
