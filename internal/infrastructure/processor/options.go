package processor

type Option func(*ImageProcessor)

func ThumbnailBox(width, height int) Option {
	return func(p *ImageProcessor) {
		p.thumbWidth = width
		p.thumbHeight = height
	}
}
