package kernel

import (
	"encoding/hex"
	"testing"
)

// Pinned against the standard secp256k1 test vectors for 2G and 3G.
var (
	twoGx   = hexBI256Str("c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5")
	twoGy   = hexBI256Str("1ae168fea63dc339a3c58419466ceaeef7f632653266d0e1236431a950cfe52a")
	threeGx = hexBI256Str("f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9")
	threeGy = hexBI256Str("388f7b0f632de8140fe337e62a37f3566500a99934c2231b6cb9fd7584b8e672")
)

func hexBI256Str(s string) BI256 {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		panic("bad fixture " + s)
	}
	var arr [32]byte
	copy(arr[:], b)
	return FromBytesBE(arr)
}

func TestGeneratorMatchesStandardConstant(t *testing.T) {
	g := Generator()
	if g.X.Cmp(Gx) != 0 || g.Y.Cmp(Gy) != 0 {
		t.Fatalf("Generator() != (Gx,Gy)")
	}
}

func TestAffineDoubleMatchesKnown2G(t *testing.T) {
	g := Generator()
	got := AffineDouble(g)
	if got.X.Cmp(twoGx) != 0 || got.Y.Cmp(twoGy) != 0 {
		t.Fatalf("AffineDouble(G) = (%x,%x), want 2G", got.X.BytesBE(), got.Y.BytesBE())
	}
}

func TestAffineAddMatchesDouble(t *testing.T) {
	g := Generator()
	viaAdd := AffineAdd(g, g)
	viaDouble := AffineDouble(g)
	if viaAdd.X.Cmp(viaDouble.X) != 0 || viaAdd.Y.Cmp(viaDouble.Y) != 0 {
		t.Fatalf("Add(P,P) != Double(P)")
	}
}

func TestAffineAddMatchesKnown3G(t *testing.T) {
	g := Generator()
	twoG := AffineDouble(g)
	got := AffineAdd(g, twoG)
	if got.X.Cmp(threeGx) != 0 || got.Y.Cmp(threeGy) != 0 {
		t.Fatalf("G+2G = (%x,%x), want 3G", got.X.BytesBE(), got.Y.BytesBE())
	}
}

func TestPointPlusInfinity(t *testing.T) {
	g := Generator()
	inf := AffinePoint{Infinity: true}
	if got := AffineAdd(g, inf); got.X.Cmp(g.X) != 0 || got.Y.Cmp(g.Y) != 0 {
		t.Fatalf("P + infinity != P")
	}
	if got := AffineAdd(inf, g); got.X.Cmp(g.X) != 0 || got.Y.Cmp(g.Y) != 0 {
		t.Fatalf("infinity + P != P")
	}
}

func TestPointPlusNegation(t *testing.T) {
	g := Generator()
	neg := AffinePoint{X: g.X, Y: ModSubP(zero256, g.Y)}
	got := AffineAdd(g, neg)
	if !got.Infinity {
		t.Fatalf("P + (-P) did not yield infinity")
	}
}

func TestScalarBaseMulOfOneIsG(t *testing.T) {
	got := ScalarBaseMul(BI256{1})
	if got.X.Cmp(Gx) != 0 || got.Y.Cmp(Gy) != 0 {
		t.Fatalf("ScalarBaseMul(1) != G")
	}
}

func TestScalarBaseMulOfTwoIsAffineDouble(t *testing.T) {
	got := ScalarBaseMul(BI256{2})
	want := AffineDouble(Generator())
	if got.X.Cmp(want.X) != 0 || got.Y.Cmp(want.Y) != 0 {
		t.Fatalf("ScalarBaseMul(2) != AffineDouble(G)")
	}
}

func TestScalarBaseMulMatchesAffinePathAcrossScalars(t *testing.T) {
	acc := Generator()
	for k := uint32(2); k <= 40; k++ {
		acc = AffineAdd(acc, Generator())
		got := ScalarBaseMul(BI256{k})
		if got.X.Cmp(acc.X) != 0 || got.Y.Cmp(acc.Y) != 0 {
			t.Fatalf("ScalarBaseMul(%d) disagrees with repeated AffineAdd", k)
		}
	}
}

func TestScalarBaseMulOfZeroIsInfinity(t *testing.T) {
	got := ScalarBaseMul(BI256{})
	if !got.Infinity {
		t.Fatalf("ScalarBaseMul(0) should be infinity")
	}
}

func TestUncompressedPublicKeyOfG(t *testing.T) {
	pub := UncompressedPublicKey(Generator())
	if pub[0] != 0x04 {
		t.Fatalf("expected 0x04 prefix, got %#x", pub[0])
	}
	x := Gx.BytesBE()
	y := Gy.BytesBE()
	if string(pub[1:33]) != string(x[:]) || string(pub[33:65]) != string(y[:]) {
		t.Fatalf("uncompressed encoding mismatch")
	}
}

func TestJacobianDoubleMatchesAffine(t *testing.T) {
	g := liftAffine(Generator())
	jac := JacobianDouble(g).ToAffine()
	aff := AffineDouble(Generator())
	if jac.X.Cmp(aff.X) != 0 || jac.Y.Cmp(aff.Y) != 0 {
		t.Fatalf("JacobianDouble disagrees with AffineDouble")
	}
}

func TestJacobianMixedAddMatchesAffine(t *testing.T) {
	accJac := liftAffine(Generator())
	accAff := Generator()
	for k := 0; k < 10; k++ {
		accJac = JacobianMixedAdd(accJac, Generator())
		accAff = AffineAdd(accAff, Generator())
		got := accJac.ToAffine()
		if got.X.Cmp(accAff.X) != 0 || got.Y.Cmp(accAff.Y) != 0 {
			t.Fatalf("iteration %d: Jacobian path diverged from affine path", k)
		}
	}
}
