// Package kernel implements the device-side compute pipeline for vanity
// address mining: 256-bit modular arithmetic, the secp256k1 point engine,
// Keccak-256, SHA-256/512, PBKDF2, and BIP39/BIP32 — all built from the
// ground up rather than delegated to an OS crypto library, mirroring what
// a GPU kernel with no crypto runtime of its own has to do.
package kernel

// BI256 is a 256-bit unsigned integer as eight 32-bit limbs, little-endian
// (limb[0] is the least significant). Byte conversions at I/O boundaries
// use big-endian, matching every cryptographic standard in play here.
type BI256 [8]uint32

var zero256 = BI256{}

// secp256k1 field prime p = 2^256 - 2^32 - 977.
var fieldP = BI256{0xFFFFFC2F, 0xFFFFFFFE, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF}

// secp256k1 group order n.
var curveN = BI256{0xD0364141, 0xBFD25E8C, 0xAF48A03B, 0xBAAEDCE6, 0xFFFFFFFE, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF}

// fieldReduceConst is c such that 2^256 ≡ c (mod p), used for fast reduction.
const fieldReduceConst = uint64(1<<32) + 977

// FromBytesBE parses a 32-byte big-endian value into canonical limb form.
func FromBytesBE(b [32]byte) BI256 {
	var x BI256
	for i := 0; i < 8; i++ {
		off := i * 4
		x[7-i] = uint32(b[off])<<24 | uint32(b[off+1])<<16 | uint32(b[off+2])<<8 | uint32(b[off+3])
	}
	return x
}

// BytesBE serializes to 32 big-endian bytes.
func (x BI256) BytesBE() [32]byte {
	var b [32]byte
	for i := 0; i < 8; i++ {
		off := i * 4
		limb := x[7-i]
		b[off] = byte(limb >> 24)
		b[off+1] = byte(limb >> 16)
		b[off+2] = byte(limb >> 8)
		b[off+3] = byte(limb)
	}
	return b
}

// IsZero reports whether x is the zero value.
func (x BI256) IsZero() bool {
	for _, l := range x {
		if l != 0 {
			return false
		}
	}
	return true
}

// Cmp returns -1, 0, or 1 comparing x and y as unsigned 256-bit integers.
func (x BI256) Cmp(y BI256) int {
	for i := 7; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] > y[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

func (x BI256) gte(y BI256) bool { return x.Cmp(y) >= 0 }

// add performs limb-wise add-with-carry, returning the out-carry.
func add(x, y BI256) (BI256, uint32) {
	var z BI256
	var carry uint64
	for i := 0; i < 8; i++ {
		s := uint64(x[i]) + uint64(y[i]) + carry
		z[i] = uint32(s)
		carry = s >> 32
	}
	return z, uint32(carry)
}

// sub performs limb-wise subtract-with-borrow, returning the out-borrow.
func sub(x, y BI256) (BI256, uint32) {
	var z BI256
	var borrow uint64
	for i := 0; i < 8; i++ {
		xi := uint64(x[i])
		yi := uint64(y[i]) + borrow
		if xi < yi {
			z[i] = uint32(xi + (1 << 32) - yi)
			borrow = 1
		} else {
			z[i] = uint32(xi - yi)
			borrow = 0
		}
	}
	return z, uint32(borrow)
}

// shr1 shifts x right by one bit, shifting in a zero at the top.
func shr1(x BI256) BI256 {
	var z BI256
	var carryIn uint32
	for i := 7; i >= 0; i-- {
		carryOut := x[i] & 1
		z[i] = (x[i] >> 1) | (carryIn << 31)
		carryIn = carryOut
	}
	return z
}

func isEven(x BI256) bool { return x[0]&1 == 0 }

// modAdd computes (x+y) mod m, where x,y are already in [0,m).
func modAdd(x, y, m BI256) BI256 {
	sum, carry := add(x, y)
	if carry != 0 || sum.gte(m) {
		sum, _ = sub(sum, m)
	}
	return sum
}

// modSub computes (x-y) mod m, where x,y are already in [0,m).
func modSub(x, y, m BI256) BI256 {
	diff, borrow := sub(x, y)
	if borrow != 0 {
		diff, _ = add(diff, m)
	}
	return diff
}

// ModAddP computes (x+y) mod p.
func ModAddP(x, y BI256) BI256 { return modAdd(x, y, fieldP) }

// ModSubP computes (x-y) mod p.
func ModSubP(x, y BI256) BI256 { return modSub(x, y, fieldP) }

// ModAddN computes (x+y) mod n. Used only for BIP32 private key tweaking.
func ModAddN(x, y BI256) BI256 { return modAdd(x, y, curveN) }

// ModSubN computes (x-y) mod n.
func ModSubN(x, y BI256) BI256 { return modSub(x, y, curveN) }

// mulFull computes the full 512-bit product of x and y as sixteen
// little-endian 32-bit limbs, via ordinary schoolbook multiplication.
func mulFull(x, y BI256) [16]uint32 {
	var z [16]uint32
	for i := 0; i < 8; i++ {
		var carry uint64
		for j := 0; j < 8; j++ {
			t := uint64(x[i])*uint64(y[j]) + uint64(z[i+j]) + carry
			z[i+j] = uint32(t)
			carry = t >> 32
		}
		k := i + 8
		for carry != 0 {
			t := uint64(z[k]) + carry
			z[k] = uint32(t)
			carry = t >> 32
			k++
		}
	}
	return z
}

// mulByConst64 multiplies a little-endian limb slice by a small (<2^40)
// constant, returning a result two limbs longer.
func mulByConst64(x []uint32, c uint64) []uint32 {
	out := make([]uint32, len(x)+2)
	var carry uint64
	for i, xi := range x {
		lo := uint64(xi)*(c&0xFFFFFFFF) + (carry & 0xFFFFFFFF)
		hi := uint64(xi)*(c>>32) + (carry >> 32) + (lo >> 32)
		out[i] = uint32(lo)
		carry = hi
	}
	for i := len(x); carry != 0; i++ {
		out[i] = uint32(carry)
		carry >>= 32
	}
	return out
}

// addLimbs adds two little-endian limb slices of possibly different
// length, returning a result long enough to hold any final carry.
func addLimbs(a, b []uint32) []uint32 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]uint32, n+1)
	var carry uint64
	for i := 0; i < n; i++ {
		var ai, bi uint64
		if i < len(a) {
			ai = uint64(a[i])
		}
		if i < len(b) {
			bi = uint64(b[i])
		}
		t := ai + bi + carry
		out[i] = uint32(t)
		carry = t >> 32
	}
	out[n] = uint32(carry)
	return out
}

func trimTo8(limbs []uint32) BI256 {
	var x BI256
	for i := 0; i < 8 && i < len(limbs); i++ {
		x[i] = limbs[i]
	}
	return x
}

func highLimbsNonZero(limbs []uint32) bool {
	for _, l := range limbs[8:] {
		if l != 0 {
			return true
		}
	}
	return false
}

// ModMulP computes (x*y) mod p using the secp256k1 fast-reduction identity
// 2^256 ≡ 2^32+977 (mod p): fold the high half of the 512-bit product back
// into the low half, repeating until the high half vanishes, then correct
// by subtracting p while the remainder still exceeds it.
func ModMulP(x, y BI256) BI256 {
	product := mulFull(x, y)
	cur := product[:]

	for highLimbsNonZero(cur) {
		low := cur[:8]
		high := cur[8:]
		for len(high) > 0 && high[len(high)-1] == 0 {
			high = high[:len(high)-1]
		}
		if len(high) == 0 {
			cur = low
			break
		}
		folded := mulByConst64(high, fieldReduceConst)
		cur = addLimbs(low, folded)
	}

	result := trimTo8(cur)
	for result.gte(fieldP) {
		result, _ = sub(result, fieldP)
	}
	return result
}

// wide9 is a 288-bit accumulator (eight 32-bit limbs plus one extra word)
// used by ModInvP; intermediate additions of p can overflow 256 bits.
type wide9 [9]uint32

func to9(x BI256) wide9 {
	var w wide9
	copy(w[:8], x[:])
	return w
}

func add9(x, y wide9) wide9 {
	var z wide9
	var carry uint64
	for i := 0; i < 9; i++ {
		s := uint64(x[i]) + uint64(y[i]) + carry
		z[i] = uint32(s)
		carry = s >> 32
	}
	return z
}

func sub9(x, y wide9) (wide9, uint32) {
	var z wide9
	var borrow uint64
	for i := 0; i < 9; i++ {
		xi := uint64(x[i])
		yi := uint64(y[i]) + borrow
		if xi < yi {
			z[i] = uint32(xi + (1 << 32) - yi)
			borrow = 1
		} else {
			z[i] = uint32(xi - yi)
			borrow = 0
		}
	}
	return z, uint32(borrow)
}

func shr9(x wide9) wide9 {
	var z wide9
	var carryIn uint32
	for i := 8; i >= 0; i-- {
		carryOut := x[i] & 1
		z[i] = (x[i] >> 1) | (carryIn << 31)
		carryIn = carryOut
	}
	return z
}

func isOdd9(x wide9) bool { return x[0]&1 == 1 }

func isZero9(x wide9) bool {
	for _, l := range x {
		if l != 0 {
			return false
		}
	}
	return true
}

func cmp9(x, y wide9) int {
	for i := 8; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] > y[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// subMod9 computes (x-y) mod m, adding m back once on borrow.
func subMod9(x, y, m wide9) wide9 {
	diff, borrow := sub9(x, y)
	if borrow != 0 {
		diff = add9(diff, m)
	}
	return diff
}

// ModInvP computes the modular inverse of a nonzero a mod p via binary
// extended Euclid: maintain r, v with r starting at a and v at p, and
// accumulators A, C satisfying A·a ≡ r and C·a ≡ v (mod p) throughout; halve by
// shifting right when a value is even, otherwise subtract the smaller
// from the larger and adjust the matching accumulator. Terminates with
// r = 0, v = gcd(a, p) = 1, and C already equal to the inverse.
func ModInvP(a BI256) BI256 {
	if a.IsZero() {
		return zero256
	}

	p9 := to9(fieldP)
	r := to9(a)
	v := p9
	A := wide9{1}
	C := wide9{}

	for !isZero9(r) {
		switch {
		case r[0]&1 == 0:
			r = shr9(r)
			if isOdd9(A) {
				A = add9(A, p9)
			}
			A = shr9(A)
		case v[0]&1 == 0:
			v = shr9(v)
			if isOdd9(C) {
				C = add9(C, p9)
			}
			C = shr9(C)
		case cmp9(r, v) >= 0:
			r, _ = sub9(r, v)
			A = subMod9(A, C, p9)
		default:
			v, _ = sub9(v, r)
			C = subMod9(C, A, p9)
		}
	}

	out := trimTo8(C[:])
	for out.gte(fieldP) {
		out, _ = sub(out, fieldP)
	}
	return out
}
