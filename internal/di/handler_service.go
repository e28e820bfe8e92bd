package di

import (
	"fmt"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/omarluq/twcfg/internal/render"
	"github.com/omarluq/twcfg/internal/server"
)

// RendererService wraps the markdown renderer.
type RendererService struct {
	Renderer *render.Renderer
}

// NewRenderer creates the renderer backed by the configured cache.
func NewRenderer(i do.Injector) (*RendererService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	cacheSvc := do.MustInvoke[*CacheService](i)

	r := render.New(cacheSvc.Cache, render.WithTTL(cfgSvc.Config.Cache.TTL()))
	return &RendererService{Renderer: r}, nil
}

// HandlerService wraps the routed HTTP handler.
type HandlerService struct {
	Handler http.Handler
}

// NewHandler builds the site handler and router.
func NewHandler(i do.Injector) (*HandlerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	logSvc := do.MustInvoke[*LoggerService](i)
	metricsSvc := do.MustInvoke[*MetricsService](i)
	descSvc := do.MustInvoke[*DescriptorService](i)
	storeSvc := do.MustInvoke[*StoreService](i)
	rendererSvc := do.MustInvoke[*RendererService](i)

	h, err := server.NewHandler(storeSvc.Store, rendererSvc.Renderer, descSvc.Runtime, metricsSvc.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create handler: %w", err)
	}

	router := server.NewRouter(&cfgSvc.Config.Server, h, *logSvc.Logger, metricsSvc.Metrics)
	return &HandlerService{Handler: router}, nil
}
