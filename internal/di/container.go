// Package di provides dependency injection configuration for the Sanctum server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/sanctumapp/sanctum-server/internal/config"
	"github.com/sanctumapp/sanctum-server/internal/di/providers"
	"github.com/sanctumapp/sanctum-server/internal/logger"
	"github.com/sanctumapp/sanctum-server/internal/session"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Persistence
	do.Provide(injector, providers.ProvideStore)

	// Upstream Bible API
	do.Provide(injector, providers.ProvideBibleClient)

	// Session cache
	do.Provide(injector, providers.ProvideSessionCache)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.BibleClientHandle](injector)
	_ = do.MustInvoke[*session.Cache](injector)
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
