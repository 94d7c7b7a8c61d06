package gallery

type Option func(*GalleryUseCase)

func DeleteBatchSize(size int) Option {
	return func(uc *GalleryUseCase) {
		uc.deleteBatchSize = size
	}
}
