package kernel

// AffinePoint is a point on secp256k1 in affine coordinates. Infinity is
// carried as an explicit bit rather than the legacy x=y=0 convention.
type AffinePoint struct {
	X, Y     BI256
	Infinity bool
}

// JacobianPoint is a point in Jacobian projective coordinates; the affine
// image is (X·Z⁻², Y·Z⁻³). Z=0 denotes the point at infinity.
type JacobianPoint struct {
	X, Y, Z BI256
}

var one256 = BI256{1}

// Gx, Gy are the secp256k1 generator's affine coordinates.
var (
	Gx = BI256{0x16F81798, 0x59F2815B, 0x2DCE28D9, 0x029BFCDB, 0xCE870B07, 0x55A06295, 0xF9DCBBAC, 0x79BE667E}
	Gy = BI256{0xFB10D4B8, 0x9C47D08F, 0xA6855419, 0xFD17B448, 0x0E1108A8, 0x5DA4FBFC, 0x26A3C465, 0x483ADA77}
)

// Generator returns the base point G in affine form.
func Generator() AffinePoint { return AffinePoint{X: Gx, Y: Gy} }

func infinityJacobian() JacobianPoint { return JacobianPoint{} }

// IsInfinity reports whether p is the point at infinity.
func (p JacobianPoint) IsInfinity() bool { return p.Z.IsZero() }

// liftAffine converts an affine point to Jacobian form with Z=1.
func liftAffine(p AffinePoint) JacobianPoint {
	if p.Infinity {
		return infinityJacobian()
	}
	return JacobianPoint{X: p.X, Y: p.Y, Z: one256}
}

// AffineAdd adds two distinct affine points (p1 != ±p2). Doubling and
// infinity cases are delegated to the appropriate specialised path; this
// costs one modular inverse and is only used for table construction and
// as a cross-check against the Jacobian path, never in the search hot
// loop.
func AffineAdd(p1, p2 AffinePoint) AffinePoint {
	if p1.Infinity {
		return p2
	}
	if p2.Infinity {
		return p1
	}
	if p1.X.Cmp(p2.X) == 0 {
		if p1.Y.Cmp(p2.Y) == 0 {
			return AffineDouble(p1)
		}
		return AffinePoint{Infinity: true}
	}

	dy := ModSubP(p2.Y, p1.Y)
	dx := ModSubP(p2.X, p1.X)
	lambda := ModMulP(dy, ModInvP(dx))

	x3 := ModSubP(ModSubP(ModMulP(lambda, lambda), p1.X), p2.X)
	y3 := ModSubP(ModMulP(lambda, ModSubP(p1.X, x3)), p1.Y)
	return AffinePoint{X: x3, Y: y3}
}

// AffineDouble doubles an affine point.
func AffineDouble(p AffinePoint) AffinePoint {
	if p.Infinity || p.Y.IsZero() {
		return AffinePoint{Infinity: true}
	}

	xx := ModMulP(p.X, p.X)
	num := ModAddP(ModAddP(xx, xx), xx) // 3x^2
	den := ModInvP(ModAddP(p.Y, p.Y))   // 1/(2y)
	lambda := ModMulP(num, den)

	x3 := ModSubP(ModMulP(lambda, lambda), ModAddP(p.X, p.X))
	y3 := ModSubP(ModMulP(lambda, ModSubP(p.X, x3)), p.Y)
	return AffinePoint{X: x3, Y: y3}
}

// JacobianDouble doubles a Jacobian point (a=0 curve simplification).
func JacobianDouble(p JacobianPoint) JacobianPoint {
	if p.IsInfinity() || p.Y.IsZero() {
		return infinityJacobian()
	}

	xx := ModMulP(p.X, p.X)
	yy := ModMulP(p.Y, p.Y)
	yyyy := ModMulP(yy, yy)

	xPlusYY := ModAddP(p.X, yy)
	sHalf := ModSubP(ModSubP(ModMulP(xPlusYY, xPlusYY), xx), yyyy)
	s := ModAddP(sHalf, sHalf)

	m := ModAddP(ModAddP(xx, xx), xx)
	t := ModSubP(ModMulP(m, m), ModAddP(s, s))

	x3 := t
	fourYYYY := ModAddP(yyyy, yyyy)
	fourYYYY = ModAddP(fourYYYY, fourYYYY)
	eightYYYY := ModAddP(fourYYYY, fourYYYY)
	y3 := ModSubP(ModMulP(m, ModSubP(s, t)), eightYYYY)
	z3 := ModMulP(ModAddP(p.Y, p.Y), p.Z)

	return JacobianPoint{X: x3, Y: y3, Z: z3}
}

// JacobianMixedAdd adds an affine point p2 (Z=1) to a Jacobian point p1;
// cheaper than general Jacobian addition.
func JacobianMixedAdd(p1 JacobianPoint, p2 AffinePoint) JacobianPoint {
	if p1.IsInfinity() {
		return liftAffine(p2)
	}
	if p2.Infinity {
		return p1
	}

	z1z1 := ModMulP(p1.Z, p1.Z)
	z1z1z1 := ModMulP(p1.Z, z1z1)
	u2 := ModMulP(p2.X, z1z1)
	s2 := ModMulP(p2.Y, z1z1z1)
	h := ModSubP(u2, p1.X)

	if h.IsZero() {
		if s2.Cmp(p1.Y) == 0 {
			return JacobianDouble(p1)
		}
		return infinityJacobian()
	}

	hh := ModMulP(h, h)
	i := ModAddP(hh, hh)
	i = ModAddP(i, i) // (2H)^2
	j := ModMulP(h, i)
	v := ModMulP(p1.X, i)
	r := ModAddP(ModSubP(s2, p1.Y), ModSubP(s2, p1.Y))

	x3 := ModSubP(ModSubP(ModMulP(r, r), j), ModAddP(v, v))
	twoY1J := ModAddP(ModMulP(p1.Y, j), ModMulP(p1.Y, j))
	y3 := ModSubP(ModMulP(r, ModSubP(v, x3)), twoY1J)

	zh := ModAddP(p1.Z, h)
	z3 := ModSubP(ModSubP(ModMulP(zh, zh), z1z1), hh)

	return JacobianPoint{X: x3, Y: y3, Z: z3}
}

// ToAffine converts a Jacobian point to affine form, spending one
// modular inverse.
func (p JacobianPoint) ToAffine() AffinePoint {
	if p.IsInfinity() {
		return AffinePoint{Infinity: true}
	}
	zinv := ModInvP(p.Z)
	zinv2 := ModMulP(zinv, zinv)
	zinv3 := ModMulP(zinv2, zinv)
	return AffinePoint{
		X: ModMulP(p.X, zinv2),
		Y: ModMulP(p.Y, zinv3),
	}
}

// windowTable holds table[i] = (i+1)*G for i in [0,14], covering every
// nonzero value a 4-bit window can take directly — see DESIGN.md's
// decision on the odd/even branch the source otherwise requires.
var windowTable = buildWindowTable()

func buildWindowTable() [15]AffinePoint {
	var table [15]AffinePoint
	g := Generator()
	table[0] = g
	for i := 1; i < 15; i++ {
		table[i] = AffineAdd(table[i-1], g)
	}
	return table
}

// ScalarBaseMul computes k*G via 4-bit windowed multiplication against
// windowTable, walking the scalar in big-endian nibble order.
func ScalarBaseMul(k BI256) AffinePoint {
	acc := infinityJacobian()
	started := false

	kb := k.BytesBE()
	for _, b := range kb {
		for _, nibble := range [2]byte{b >> 4, b & 0x0F} {
			if started {
				acc = JacobianDouble(acc)
				acc = JacobianDouble(acc)
				acc = JacobianDouble(acc)
				acc = JacobianDouble(acc)
			}
			if nibble != 0 {
				p := windowTable[nibble-1]
				if !started {
					acc = liftAffine(p)
					started = true
				} else {
					acc = JacobianMixedAdd(acc, p)
				}
			}
		}
	}

	if !started {
		return AffinePoint{Infinity: true}
	}
	return acc.ToAffine()
}

// UncompressedPublicKey renders the 65-byte uncompressed SEC1 encoding:
// 0x04 || X (32B big-endian) || Y (32B big-endian).
func UncompressedPublicKey(p AffinePoint) [65]byte {
	var out [65]byte
	out[0] = 0x04
	x := p.X.BytesBE()
	y := p.Y.BytesBE()
	copy(out[1:33], x[:])
	copy(out[33:65], y[:])
	return out
}
