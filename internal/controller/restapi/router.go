package restapi

import (
	"github.com/andreyxaxa/Photo-Importer/config"
	v1 "github.com/andreyxaxa/Photo-Importer/internal/controller/restapi/v1"
	"github.com/andreyxaxa/Photo-Importer/internal/usecase"
	"github.com/andreyxaxa/Photo-Importer/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// @title Photo Importer
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(app *fiber.App, cfg *config.Config, gallery usecase.GalleryUseCase, progress usecase.ProgressUseCase, l logger.Interface) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewImportRoutes(apiV1Group, gallery, progress, l)
	}
}
