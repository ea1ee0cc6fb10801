package kernel

// Entropy is treated as a 256-bit unsigned counter for iteration: index
// 31 is the least-significant byte. BIP39 encoding treats the same
// bytes as an opaque MSB-first bit string (see EntropyToIndices) — the
// two interpretations share storage but never arithmetic.
type Entropy [32]byte

// IncrementBy adds step to the entropy counter, carrying from byte 31
// (least significant) toward byte 0. Returns false if the addition
// overflows out of the 256-bit range.
func IncrementBy(e Entropy, step uint32) (Entropy, bool) {
	carry := uint64(step)
	for i := 31; i >= 0 && carry != 0; i-- {
		sum := uint64(e[i]) + (carry & 0xFF)
		e[i] = byte(sum)
		carry = carry>>8 + sum>>8
	}
	if carry != 0 {
		return e, false
	}
	return e, true
}
