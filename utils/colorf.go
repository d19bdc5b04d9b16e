package utils

type ColorFloat [4]float32

func (c ColorFloat) RGBA() (r, g, b, a uint32) {
	const mf = float32(256*256 - 1)
	r = uint32(clamp01(c[0]) * mf)
	g = uint32(clamp01(c[1]) * mf)
	b = uint32(clamp01(c[2]) * mf)
	a = uint32(clamp01(c[3]) * mf)
	return
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func NewColorFloat(c []float32) ColorFloat {
	switch len(c) {
	case 0:
		return ColorFloat{0, 0, 0, 1}
	case 3:
		return ColorFloat{c[0], c[1], c[2], 1.0}
	default:
		return ColorFloat{c[0], c[1], c[2], c[3]}
	}
}
