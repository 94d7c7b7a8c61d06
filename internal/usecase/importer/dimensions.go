package importer

import "math"

// clampDimensions preserves aspect ratio while keeping both axes inside the
// maximums. Scaling happens along the constrained axis first, then the other
// axis is re-checked: independent per-axis clamping can overshoot on extreme
// aspect ratios.
func clampDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		// No provider metadata; request the box and let the provider fit it.
		return maxWidth, maxHeight
	}

	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	if width >= height {
		w := maxWidth
		h := scale(height, maxWidth, width)
		if h > maxHeight {
			w = scale(w, maxHeight, h)
			h = maxHeight
		}
		return w, h
	}

	h := maxHeight
	w := scale(width, maxHeight, height)
	if w > maxWidth {
		h = scale(h, maxWidth, w)
		w = maxWidth
	}
	return w, h
}

func scale(value, num, den int) int {
	scaled := int(math.Round(float64(value) * float64(num) / float64(den)))
	if scaled < 1 {
		return 1
	}
	return scaled
}
