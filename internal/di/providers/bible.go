package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/sanctumapp/sanctum-server/internal/bible/nlt"
	"github.com/sanctumapp/sanctum-server/internal/config"
	"github.com/sanctumapp/sanctum-server/internal/logger"
	"github.com/sanctumapp/sanctum-server/internal/session"
)

// BibleClientHandle wraps the NLT API client with shutdown capability.
type BibleClientHandle struct {
	*nlt.Client
}

// Shutdown implements do.Shutdownable.
func (h *BibleClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideBibleClient provides the rate-limited NLT API client.
func ProvideBibleClient(i do.Injector) (*BibleClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := nlt.New(nlt.Config{
		BaseURL: cfg.Bible.BaseURL,
		APIKey:  cfg.Bible.APIKey,
		Timeout: cfg.Bible.RequestTimeout,
		RPS:     cfg.Bible.RequestsPerSec,
	}, log.Logger)

	if cfg.Bible.APIKey == "" {
		log.Warn("No Bible API key configured, upstream may serve limited content")
	}

	return &BibleClientHandle{Client: client}, nil
}

// ProvideSessionCache provides the in-memory session cache and warms it from
// the store.
func ProvideSessionCache(i do.Injector) (*session.Cache, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clientHandle := do.MustInvoke[*BibleClientHandle](i)

	cache := session.New(storeHandle.Store, clientHandle.Client, log.Logger)

	info, err := cache.InitializeSession(context.Background(), cfg.Bible.DefaultVersion)
	if err != nil {
		return nil, err
	}

	log.Info("Session cache ready",
		"version", info.Version,
		"cached_chapters", info.CachedChapters,
		"missing_chapters", info.MissingChapters,
	)

	return cache, nil
}
