package httpserver

import (
	"net/http"
	"time"

	"weekly-tracker/internal/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 120 * time.Second
	writeTimeoutSlack = 5 * time.Second
)

// New builds the API server. With a request timeout configured, writes get
// a little longer than the handler so timeout responses still reach clients.
func New(cfg config.Config, handler http.Handler) *http.Server {
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	if cfg.RequestTimeout > 0 {
		srv.WriteTimeout = cfg.RequestTimeout + writeTimeoutSlack
	}
	return srv
}
