package di

import "github.com/samber/do/v2"

// RegisterSingletons registers all service providers as singletons.
// Services are registered in dependency order:
// 1. Config (no dependencies)
// 2. Logger (depends on Config)
// 3. Metrics (no dependencies)
// 4. Descriptor (depends on Config, Logger, Metrics)
// 5. Cache (depends on Config, Logger)
// 6. Store (depends on Config, Logger, Metrics)
// 7. Renderer (depends on Config, Cache)
// 8. Handler (depends on all above services)
// 9. Server (depends on Handler, Config).
func RegisterSingletons(i do.Injector) {
	do.Provide(i, NewConfig)
	do.Provide(i, NewLogger)
	do.Provide(i, NewMetrics)
	do.Provide(i, NewDescriptor)
	do.Provide(i, NewCache)
	do.Provide(i, NewStore)
	do.Provide(i, NewRenderer)
	do.Provide(i, NewHandler)
	do.Provide(i, NewHTTPServer)
}
