package db_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"musevisit/internal/infra"
)

var Module = fx.Options(
	fx.Provide(provideDB),
	fx.Invoke(migrate),
)

func provideDB() *gorm.DB {
	return infra.InitPostgresql()
}

func migrate(db *gorm.DB) error {
	return infra.AutoMigrate(db)
}
