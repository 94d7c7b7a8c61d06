package v1

import (
	"github.com/andreyxaxa/Photo-Importer/internal/usecase"
	"github.com/andreyxaxa/Photo-Importer/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewImportRoutes(apiV1Group fiber.Router, gallery usecase.GalleryUseCase, progress usecase.ProgressUseCase, l logger.Interface) {
	r := &V1{gallery: gallery, progress: progress, logger: l}

	apiV1Group.Use(identityRequired)

	{
		apiV1Group.Post("/sessions", r.createSession)
		apiV1Group.Post("/process-session", r.processSession)
		apiV1Group.Get("/session-status/:sessionId", r.sessionStatus)
		apiV1Group.Get("/images", r.listImages)
		apiV1Group.Delete("/images", r.deleteImages)
	}
}
