package kernel

import "encoding/binary"

// SHA-256 and SHA-512 (FIPS 180-4) plus HMAC (RFC 2104), implemented
// directly so the PBKDF2 loop in pbkdf2.go can reuse half-computed HMAC state
// across iterations instead of rehashing the key from scratch every time.

var sha256K = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

var sha256IV = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

func rotr32(x uint32, n uint) uint32 { return x>>n | x<<(32-n) }

// sha256Block runs one 64-byte compression round, updating state in place.
func sha256Block(state *[8]uint32, block []byte) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[i*4:])
	}
	for i := 16; i < 64; i++ {
		s0 := rotr32(w[i-15], 7) ^ rotr32(w[i-15], 18) ^ (w[i-15] >> 3)
		s1 := rotr32(w[i-2], 17) ^ rotr32(w[i-2], 19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, d, e, f, g, h := state[0], state[1], state[2], state[3], state[4], state[5], state[6], state[7]
	for i := 0; i < 64; i++ {
		s1 := rotr32(e, 6) ^ rotr32(e, 11) ^ rotr32(e, 25)
		ch := (e & f) ^ (^e & g)
		t1 := h + s1 + ch + sha256K[i] + w[i]
		s0 := rotr32(a, 2) ^ rotr32(a, 13) ^ rotr32(a, 22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := s0 + maj

		h, g, f, e = g, f, e, d+t1
		d, c, b, a = c, b, a, t1+t2
	}

	state[0] += a
	state[1] += b
	state[2] += c
	state[3] += d
	state[4] += e
	state[5] += f
	state[6] += g
	state[7] += h
}

func sha256Pad(msgLen int) []byte {
	padLen := (64 - (msgLen+9)%64) % 64
	pad := make([]byte, 1+padLen+8)
	pad[0] = 0x80
	binary.BigEndian.PutUint64(pad[len(pad)-8:], uint64(msgLen)*8)
	return pad
}

// SHA256 computes the 32-byte SHA-256 digest of msg.
func SHA256(msg []byte) [32]byte {
	state := sha256IV
	rem := msg
	for len(rem) >= 64 {
		sha256Block(&state, rem[:64])
		rem = rem[64:]
	}
	tail := append(append([]byte{}, rem...), sha256Pad(len(msg))...)
	for len(tail) >= 64 {
		sha256Block(&state, tail[:64])
		tail = tail[64:]
	}

	var out [32]byte
	for i, s := range state {
		binary.BigEndian.PutUint32(out[i*4:], s)
	}
	return out
}

var sha512K = [80]uint64{
	0x428a2f98d728ae22, 0x7137449123ef65cd, 0xb5c0fbcfec4d3b2f, 0xe9b5dba58189dbbc,
	0x3956c25bf348b538, 0x59f111f1b605d019, 0x923f82a4af194f9b, 0xab1c5ed5da6d8118,
	0xd807aa98a3030242, 0x12835b0145706fbe, 0x243185be4ee4b28c, 0x550c7dc3d5ffb4e2,
	0x72be5d74f27b896f, 0x80deb1fe3b1696b1, 0x9bdc06a725c71235, 0xc19bf174cf692694,
	0xe49b69c19ef14ad2, 0xefbe4786384f25e3, 0x0fc19dc68b8cd5b5, 0x240ca1cc77ac9c65,
	0x2de92c6f592b0275, 0x4a7484aa6ea6e483, 0x5cb0a9dcbd41fbd4, 0x76f988da831153b5,
	0x983e5152ee66dfab, 0xa831c66d2db43210, 0xb00327c898fb213f, 0xbf597fc7beef0ee4,
	0xc6e00bf33da88fc2, 0xd5a79147930aa725, 0x06ca6351e003826f, 0x142929670a0e6e70,
	0x27b70a8546d22ffc, 0x2e1b21385c26c926, 0x4d2c6dfc5ac42aed, 0x53380d139d95b3df,
	0x650a73548baf63de, 0x766a0abb3c77b2a8, 0x81c2c92e47edaee6, 0x92722c851482353b,
	0xa2bfe8a14cf10364, 0xa81a664bbc423001, 0xc24b8b70d0f89791, 0xc76c51a30654be30,
	0xd192e819d6ef5218, 0xd69906245565a910, 0xf40e35855771202a, 0x106aa07032bbd1b8,
	0x19a4c116b8d2d0c8, 0x1e376c085141ab53, 0x2748774cdf8eeb99, 0x34b0bcb5e19b48a8,
	0x391c0cb3c5c95a63, 0x4ed8aa4ae3418acb, 0x5b9cca4f7763e373, 0x682e6ff3d6b2b8a3,
	0x748f82ee5defb2fc, 0x78a5636f43172f60, 0x84c87814a1f0ab72, 0x8cc702081a6439ec,
	0x90befffa23631e28, 0xa4506cebde82bde9, 0xbef9a3f7b2c67915, 0xc67178f2e372532b,
	0xca273eceea26619c, 0xd186b8c721c0c207, 0xeada7dd6cde0eb1e, 0xf57d4f7fee6ed178,
	0x06f067aa72176fba, 0x0a637dc5a2c898a6, 0x113f9804bef90dae, 0x1b710b35131c471b,
	0x28db77f523047d84, 0x32caab7b40c72493, 0x3c9ebe0a15c9bebc, 0x431d67c49c100d4c,
	0x4cc5d4becb3e42b6, 0x597f299cfc657e2a, 0x5fcb6fab3ad6faec, 0x6c44198c4a475817,
}

var sha512IV = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

func rotr64(x uint64, n uint) uint64 { return x>>n | x<<(64-n) }

func sha512Block(state *[8]uint64, block []byte) {
	var w [80]uint64
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint64(block[i*8:])
	}
	for i := 16; i < 80; i++ {
		s0 := rotr64(w[i-15], 1) ^ rotr64(w[i-15], 8) ^ (w[i-15] >> 7)
		s1 := rotr64(w[i-2], 19) ^ rotr64(w[i-2], 61) ^ (w[i-2] >> 6)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, d, e, f, g, h := state[0], state[1], state[2], state[3], state[4], state[5], state[6], state[7]
	for i := 0; i < 80; i++ {
		s1 := rotr64(e, 14) ^ rotr64(e, 18) ^ rotr64(e, 41)
		ch := (e & f) ^ (^e & g)
		t1 := h + s1 + ch + sha512K[i] + w[i]
		s0 := rotr64(a, 28) ^ rotr64(a, 34) ^ rotr64(a, 39)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := s0 + maj

		h, g, f, e = g, f, e, d+t1
		d, c, b, a = c, b, a, t1+t2
	}

	state[0] += a
	state[1] += b
	state[2] += c
	state[3] += d
	state[4] += e
	state[5] += f
	state[6] += g
	state[7] += h
}

func sha512Pad(msgLen int) []byte {
	padLen := (128 - (msgLen+17)%128) % 128
	pad := make([]byte, 1+padLen+16)
	pad[0] = 0x80
	// Message length field is 128 bits; bit counts for our inputs never
	// approach the high 64 bits, so only the low word is written.
	binary.BigEndian.PutUint64(pad[len(pad)-8:], uint64(msgLen)*8)
	return pad
}

// SHA512 computes the 64-byte SHA-512 digest of msg.
func SHA512(msg []byte) [64]byte {
	state := sha512IV
	rem := msg
	for len(rem) >= 128 {
		sha512Block(&state, rem[:128])
		rem = rem[128:]
	}
	tail := append(append([]byte{}, rem...), sha512Pad(len(msg))...)
	for len(tail) >= 128 {
		sha512Block(&state, tail[:128])
		tail = tail[128:]
	}

	var out [64]byte
	for i, s := range state {
		binary.BigEndian.PutUint64(out[i*8:], s)
	}
	return out
}

// HMACSHA512State caches the ipad/opad-keyed intermediate compression
// state so repeated HMAC calls under the same key (PBKDF2's inner loop)
// skip re-absorbing the key block every iteration.
type HMACSHA512State struct {
	innerState [8]uint64
	outerState [8]uint64
}

// NewHMACSHA512 derives the ipad/opad block states for key once.
func NewHMACSHA512(key []byte) HMACSHA512State {
	var block [128]byte
	if len(key) > 128 {
		k := SHA512(key)
		copy(block[:], k[:])
	} else {
		copy(block[:], key)
	}

	var ipad, opad [128]byte
	for i := 0; i < 128; i++ {
		ipad[i] = block[i] ^ 0x36
		opad[i] = block[i] ^ 0x5c
	}

	var s HMACSHA512State
	s.innerState = sha512IV
	sha512Block(&s.innerState, ipad[:])
	s.outerState = sha512IV
	sha512Block(&s.outerState, opad[:])
	return s
}

// Sum computes HMAC-SHA512 over msg using the precomputed key state.
func (s HMACSHA512State) Sum(msg []byte) [64]byte {
	inner := s.innerState
	rem := msg
	for len(rem) >= 128 {
		sha512Block(&inner, rem[:128])
		rem = rem[128:]
	}
	tail := append(append([]byte{}, rem...), sha512Pad(128+len(msg))...)
	for len(tail) >= 128 {
		sha512Block(&inner, tail[:128])
		tail = tail[128:]
	}
	var innerDigest [64]byte
	for i, v := range inner {
		binary.BigEndian.PutUint64(innerDigest[i*8:], v)
	}

	outer := s.outerState
	outerTail := append(append([]byte{}, innerDigest[:]...), sha512Pad(128+64)...)
	for len(outerTail) >= 128 {
		sha512Block(&outer, outerTail[:128])
		outerTail = outerTail[128:]
	}

	var out [64]byte
	for i, v := range outer {
		binary.BigEndian.PutUint64(out[i*8:], v)
	}
	return out
}

// HMACSHA512 is the non-cached convenience form, used where a key is
// used only once.
func HMACSHA512(key, msg []byte) [64]byte {
	return NewHMACSHA512(key).Sum(msg)
}

// HMACSHA256 is a plain, non-cached HMAC-SHA256. Nothing in the mining
// path calls it; it is kept alongside HMACSHA512 for completeness.
func HMACSHA256(key, msg []byte) [32]byte {
	var block [64]byte
	if len(key) > 64 {
		k := SHA256(key)
		copy(block[:], k[:])
	} else {
		copy(block[:], key)
	}

	var ipad, opad [64]byte
	for i := 0; i < 64; i++ {
		ipad[i] = block[i] ^ 0x36
		opad[i] = block[i] ^ 0x5c
	}

	inner := SHA256(append(ipad[:], msg...))
	return SHA256(append(opad[:], inner[:]...))
}
