package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/school-data-api/internal/store/esstore"
	"github.com/noah-isme/school-data-api/internal/store/mongostore"
	"github.com/noah-isme/school-data-api/internal/store/pgstore"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"

	"github.com/noah-isme/school-data-api/pkg/config"
)

// New selects the backend adapter named by cfg.Store.Backend.
func New(cfg *config.Config, log *zap.Logger) (Store, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		return pgstore.New(cfg, log), nil
	case config.BackendMongo:
		return mongostore.New(cfg, log), nil
	case config.BackendElasticsearch:
		return esstore.New(cfg, log), nil
	default:
		return nil, appErrors.BadBackend(fmt.Sprintf("unsupported store backend %q", cfg.Store.Backend))
	}
}
