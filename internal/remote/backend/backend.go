// Package backend escolhe o adaptador remoto a partir da configuração.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/remote"
	"github.com/radieske/betting-companion/internal/remote/docstore"
	"github.com/radieske/betting-companion/internal/remote/localonly"
	"github.com/radieske/betting-companion/internal/remote/pgstore"
	"github.com/radieske/betting-companion/internal/remote/restapi"
	"github.com/radieske/betting-companion/internal/shared/config"
	"github.com/radieske/betting-companion/internal/shared/db"
)

// Open devolve o Store configurado e uma função de cleanup (nunca nil)
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (remote.Store, func(), error) {
	noop := func() {}

	switch cfg.RemoteBackend {
	case "", "local":
		return localonly.New(), noop, nil

	case "docstore":
		if cfg.DocstoreURL == "" {
			return nil, noop, fmt.Errorf("remote backend docstore: DOCSTORE_URL is required")
		}
		return docstore.New(docstore.Config{
			DatabaseURL: cfg.DocstoreURL,
			AuthURL:     cfg.DocstoreAuthURL,
			StorageURL:  cfg.DocstoreStorageURL,
			APIKey:      cfg.DocstoreAPIKey,
			Timeout:     cfg.RESTTimeout,
		}), noop, nil

	case "rest":
		return restapi.New(cfg.RESTAPIURL, cfg.RESTAPIToken, cfg.RESTTimeout, cfg.RESTHealthTimeout), noop, nil

	case "postgres":
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		store := pgstore.New(pg)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return nil, noop, fmt.Errorf("ensure remote schema: %w", err)
		}
		log.Info("postgres remote ready")
		return store, func() { _ = pg.Close() }, nil
	}

	return nil, noop, fmt.Errorf("unknown remote backend %q", cfg.RemoteBackend)
}
