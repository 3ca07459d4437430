package arena

// Concat joins a and b into a single allocation sized exactly
// len(a)+len(b). The result lives in the arena when it fits and on the
// heap otherwise, so the operation itself never fails. Concatenation with
// an empty operand still produces a fresh allocation; two empty operands
// produce an empty result with no allocation at all.
func Concat(ar *Arena, a, b []byte) []byte {
	n := len(a) + len(b)
	if n == 0 {
		return nil
	}
	buf, err := ar.Alloc(n)
	if err != nil {
		buf = make([]byte, n)
	}
	copy(buf, a)
	copy(buf[len(a):], b)
	return buf
}

// ConcatString is Concat over string operands. The result is always a
// heap string because Go strings are immutable, but the length discipline
// (single exact-size buffer, empty operands tolerated) is the same.
func ConcatString(a, b string) string {
	if len(a) == 0 && len(b) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(a)+len(b))
	buf = append(buf, a...)
	buf = append(buf, b...)
	return string(buf)
}

// Promote copies b out of the arena onto the heap so the value survives
// LeaveScope. Used for values that escape the scope they were built in.
func Promote(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// ByteAt returns b[i], or the sentinel zero byte when i is out of range.
func ByteAt(b []byte, i int64) byte {
	if i < 0 || i >= int64(len(b)) {
		return 0
	}
	return b[i]
}

// SliceOf returns length bytes of b starting at start, clamped to the
// bounds of b. Out-of-range requests yield an empty slice.
func SliceOf(b []byte, start, length int64) []byte {
	if start < 0 || length <= 0 || start >= int64(len(b)) {
		return nil
	}
	end := start + length
	if end > int64(len(b)) {
		end = int64(len(b))
	}
	return b[start:end]
}
