package httpserver

import (
	"net/http"

	"github.com/yndnr/respd-go/internal/server/httpserver/handler"
	"github.com/yndnr/respd-go/internal/telemetry/logger"
	"github.com/yndnr/respd-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Metrics backs /metrics. Nil disables the endpoint.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger logger.Logger
}

// NewRouter creates the operational router with its middleware applied.
// Order: Recover -> RequestID -> AccessLog -> Handler.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	return Chain(
		handler.New(cfg.Metrics, log),
		Recover(log),
		RequestID(),
		AccessLog(log),
	)
}
