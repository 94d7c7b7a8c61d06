package importer

type Option func(*ImporterUseCase)

func PageSize(size int) Option {
	return func(uc *ImporterUseCase) {
		uc.pageSize = size
	}
}

func MaxImageSide(side int) Option {
	return func(uc *ImporterUseCase) {
		uc.maxImageSide = side
	}
}
