package bootstrap

import (
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/config"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/database"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/metrics"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/repository"
)

// SetupStore builds the metadata store stack: PostgreSQL fronted by the
// flat-catalog fallback. When the database is unreachable at startup the
// service comes up catalog-only rather than refusing to boot; the
// returned closer releases the database connection when there is one.
func SetupStore(cfg *config.Config, log logger.Logger, m *metrics.Metrics) (repository.Store, func()) {
	catalog := repository.NewCatalogStore(cfg.Catalog.Paths, log)

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Warn("Database unreachable at startup, serving from flat catalog only",
			logger.String("host", cfg.Database.Host),
			logger.Int("port", cfg.Database.Port),
			logger.Error(err),
		)
		return catalog, func() {}
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.String("dbname", cfg.Database.DBName),
	)

	querier := database.NewQuerier(db, log)
	primary := repository.NewIconRepository(querier, log)

	closer := func() {
		if closeErr := database.Close(db); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
	}
	return repository.NewFallbackStore(primary, catalog, log, m), closer
}
