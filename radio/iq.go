package radio

// U8ToSC16Q11 converts offset binary u8 I/Q bytes, as sent by rtl_tcp, into
// Q11 samples. It returns the number of int16 values written.
func U8ToSC16Q11(dst []int16, src []byte) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = (int16(src[i]) - 128) << 4
	}
	return n
}

// S16ToSC16Q11 scales full range 16-bit samples down to 12 bits in place.
func S16ToSC16Q11(buf []int16) {
	for i, v := range buf {
		buf[i] = v >> 4
	}
}
