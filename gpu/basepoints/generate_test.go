package basepoints

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

func TestGIsGenerator(t *testing.T) {
	g := G()
	if g.X.Cmp(Gx) != 0 || g.Y.Cmp(Gy) != 0 {
		t.Fatalf("G() != (Gx,Gy)")
	}
}

func TestDoubleMatchesKnown2G(t *testing.T) {
	g := G()
	twoG := Double(g)

	expectedX, _ := new(big.Int).SetString("c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5", 16)
	expectedY, _ := new(big.Int).SetString("1ae168fea63dc339a3c58419466ceaeef7f632653266d0e1236431a950cfe52a", 16)

	if twoG.X.Cmp(expectedX) != 0 {
		t.Errorf("2G.X mismatch: got %s", twoG.X.Text(16))
	}
	if twoG.Y.Cmp(expectedY) != 0 {
		t.Errorf("2G.Y mismatch: got %s", twoG.Y.Text(16))
	}
}

func TestAddMatchesDouble(t *testing.T) {
	g := G()
	viaAdd := Add(g, g)
	viaDouble := Double(g)
	if viaAdd.X.Cmp(viaDouble.X) != 0 || viaAdd.Y.Cmp(viaDouble.Y) != 0 {
		t.Fatalf("Add(G,G) != Double(G)")
	}
}

func TestAddMatchesKnown3G(t *testing.T) {
	g := G()
	twoG := Double(g)
	threeG := Add(g, twoG)

	expectedX, _ := new(big.Int).SetString("f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9", 16)
	expectedY, _ := new(big.Int).SetString("388f7b0f632de8140fe337e62a37f3566500a99934c2231b6cb9fd7584b8e672", 16)

	if threeG.X.Cmp(expectedX) != 0 {
		t.Errorf("3G.X mismatch: got %s", threeG.X.Text(16))
	}
	if threeG.Y.Cmp(expectedY) != 0 {
		t.Errorf("3G.Y mismatch: got %s", threeG.Y.Text(16))
	}
}

func TestToBytesRoundTrip(t *testing.T) {
	g := G()
	xBytes, yBytes := g.toBytes()

	xBig := leBytesToBig(xBytes)
	yBig := leBytesToBig(yBytes)

	if xBig.Cmp(Gx) != 0 {
		t.Errorf("toBytes X round trip failed: got %s", xBig.Text(16))
	}
	if yBig.Cmp(Gy) != 0 {
		t.Errorf("toBytes Y round trip failed: got %s", yBig.Text(16))
	}
}

func TestGenerateTableContents(t *testing.T) {
	table := Generate()
	if err := table.Verify(); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	var secondX, secondY [32]byte
	copy(secondX[:], table.X[32:64])
	copy(secondY[:], table.Y[32:64])

	twoG := Double(G())
	if leBytesToBig(secondX).Cmp(twoG.X) != 0 || leBytesToBig(secondY).Cmp(twoG.Y) != 0 {
		t.Errorf("table[1] should be 2G")
	}

	var thirdX, thirdY [32]byte
	copy(thirdX[:], table.X[64:96])
	copy(thirdY[:], table.Y[64:96])

	threeG := Add(G(), twoG)
	if leBytesToBig(thirdX).Cmp(threeG.X) != 0 || leBytesToBig(thirdY).Cmp(threeG.Y) != 0 {
		t.Errorf("table[2] should be 3G")
	}
}

func TestGenerateTableSize(t *testing.T) {
	table := Generate()
	if len(table.X) != TableSize*32 || len(table.Y) != TableSize*32 {
		t.Fatalf("table size = %d/%d, want %d each", len(table.X), len(table.Y), TableSize*32)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	table := Generate()

	dir := t.TempDir()
	xPath := filepath.Join(dir, "x.bin")
	yPath := filepath.Join(dir, "y.bin")

	if err := table.Save(xPath, yPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(xPath, yPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(loaded.X) != string(table.X) || string(loaded.Y) != string(table.Y) {
		t.Fatalf("loaded table differs from saved table")
	}
	if err := loaded.Verify(); err != nil {
		t.Fatalf("loaded table failed Verify: %v", err)
	}
}

func TestLoadRejectsWrongSize(t *testing.T) {
	dir := t.TempDir()
	xPath := filepath.Join(dir, "x.bin")
	yPath := filepath.Join(dir, "y.bin")

	if err := os.WriteFile(xPath, make([]byte, 16), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(yPath, make([]byte, TableSize*32), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := Load(xPath, yPath); err == nil {
		t.Fatalf("expected an error loading a short X table")
	}
}

func TestHashReflectsTableZero(t *testing.T) {
	table := Generate()
	h := table.Hash()

	var want [8]byte
	copy(want[:], table.X[0:8])
	var wantU64 uint64
	for i := 7; i >= 0; i-- {
		wantU64 = wantU64<<8 | uint64(want[i])
	}
	if h != wantU64 {
		t.Fatalf("Hash() = %d, want %d", h, wantU64)
	}
}
