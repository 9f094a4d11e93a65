package migration

import (
	"github.com/personacoreio/personacore/internal/config"
	"github.com/personacoreio/personacore/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The embedded migrator targets postgres. Other dialects (sqlite in
		// tests) create their schema out of band.
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		}

		if cfg.SeedDemoCreators {
			return seed.EnsureDemoCreators(conn)
		}
		return nil
	}),
)
