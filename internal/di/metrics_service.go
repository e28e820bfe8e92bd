package di

import (
	"github.com/samber/do/v2"

	"github.com/omarluq/twcfg/internal/server"
)

// MetricsService wraps the Prometheus collectors.
type MetricsService struct {
	Metrics *server.Metrics
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics(_ do.Injector) (*MetricsService, error) {
	return &MetricsService{Metrics: server.NewMetrics()}, nil
}
