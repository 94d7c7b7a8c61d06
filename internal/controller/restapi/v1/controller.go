package v1

import (
	"github.com/andreyxaxa/Photo-Importer/internal/usecase"
	"github.com/andreyxaxa/Photo-Importer/pkg/logger"
)

type V1 struct {
	gallery  usecase.GalleryUseCase
	progress usecase.ProgressUseCase
	logger   logger.Interface
}
