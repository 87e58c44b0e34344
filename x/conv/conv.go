// Package conv formats integers without fmt or strconv, for MCU builds.
package conv

// Itoa writes the base-10 form of n at the end of buf and returns the used
// tail. buf needs 20 bytes for any int64.
func Itoa(buf []byte, n int64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	u := uint64(n)
	if n < 0 {
		u = -u
	}
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
		if u == 0 || i == 0 {
			break
		}
	}
	if n < 0 && i > 0 {
		i--
		buf[i] = '-'
	}
	return buf[i:]
}

// AppendInt appends the base-10 form of n to dst.
func AppendInt(dst []byte, n int64) []byte {
	var tmp [20]byte
	return append(dst, Itoa(tmp[:], n)...)
}

// Line returns prefix followed by n, reusing dst's storage.
func Line(dst []byte, prefix string, n int64) []byte {
	return AppendInt(append(dst[:0], prefix...), n)
}
