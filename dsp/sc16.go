package dsp

// sc16Scale is the Q11 full-scale value of a 12-bit sample held in an int16.
const sc16Scale = 2048.0

// NormalizeSC16Q11 maps a Q11 fixed-point sample in [-2048, 2047] onto [-1, 1).
func NormalizeSC16Q11(s int16) float64 { return float64(s) / sc16Scale }

// AppendSC16Q11 appends one complex sample per interleaved (I, Q) pair in src.
// Callers reuse dst by truncating it to zero length between blocks.
func AppendSC16Q11(dst []complex128, src []int16) []complex128 {
	if len(src)%2 != 0 {
		panic("odd length sc16 block")
	}
	for i := 0; i < len(src); i += 2 {
		dst = append(dst, complex(NormalizeSC16Q11(src[i]), NormalizeSC16Q11(src[i+1])))
	}
	return dst
}
