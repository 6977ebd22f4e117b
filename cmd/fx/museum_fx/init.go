package museum_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"musevisit/internal/repositories"
	"musevisit/internal/services"
)

var Module = fx.Provide(
	provideMuseumRepo, provideMuseumDirectory)

func provideMuseumRepo(db *gorm.DB) repositories.MuseumRepository {
	return repositories.NewMuseumRepository(db)
}

func provideMuseumDirectory(museumRepo repositories.MuseumRepository) services.MuseumDirectoryInterface {
	return services.NewMuseumDirectory(museumRepo)
}
