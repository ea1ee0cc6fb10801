// Package basepoints generates the precomputed secp256k1 window table
// for GPU point multiplication: fifteen points, table[i] = (i+1)*G for
// i in [0,14], covering every nonzero value a 4-bit scalar window can
// take. A device-side windowed scalar-mul walks the scalar 4 bits at a
// time, doubling the accumulator four times per window and, when the
// window is nonzero, adding table[window-1] directly — no odd/even
// branch, no 65536-entry-per-chunk table.
package basepoints

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"os"
)

var (
	P, _  = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F", 16)
	Gx, _ = new(big.Int).SetString("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798", 16)
	Gy, _ = new(big.Int).SetString("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8", 16)
)

const TableSize = 15

// Point is a secp256k1 affine point, nil-free (infinity never appears
// in this table since 1*G..15*G are all finite).
type Point struct {
	X, Y *big.Int
}

func G() *Point { return &Point{X: new(big.Int).Set(Gx), Y: new(big.Int).Set(Gy)} }

// Add adds two distinct affine points.
func Add(p1, p2 *Point) *Point {
	if p1.X.Cmp(p2.X) == 0 {
		if p1.Y.Cmp(p2.Y) == 0 {
			return Double(p1)
		}
		return nil // p1 = -p2; never reached building this table
	}

	dy := new(big.Int).Sub(p2.Y, p1.Y)
	dx := new(big.Int).Sub(p2.X, p1.X)
	dx.ModInverse(dx, P)
	s := new(big.Int).Mul(dy, dx)
	s.Mod(s, P)

	x3 := new(big.Int).Mul(s, s)
	x3.Sub(x3, p1.X)
	x3.Sub(x3, p2.X)
	x3.Mod(x3, P)

	y3 := new(big.Int).Sub(p1.X, x3)
	y3.Mul(y3, s)
	y3.Sub(y3, p1.Y)
	y3.Mod(y3, P)

	return &Point{X: x3, Y: y3}
}

// Double doubles an affine point.
func Double(p *Point) *Point {
	x2 := new(big.Int).Mul(p.X, p.X)
	x2.Mod(x2, P)

	numerator := new(big.Int).Mul(x2, big.NewInt(3))
	numerator.Mod(numerator, P)

	denominator := new(big.Int).Mul(p.Y, big.NewInt(2))
	denominator.ModInverse(denominator, P)

	s := new(big.Int).Mul(numerator, denominator)
	s.Mod(s, P)

	x3 := new(big.Int).Mul(s, s)
	x3.Sub(x3, p.X)
	x3.Sub(x3, p.X)
	x3.Mod(x3, P)

	y3 := new(big.Int).Sub(p.X, x3)
	y3.Mul(y3, s)
	y3.Sub(y3, p.Y)
	y3.Mod(y3, P)

	return &Point{X: x3, Y: y3}
}

func (p *Point) toBytes() (xBytes, yBytes [32]byte) {
	xBig := p.X.Bytes()
	yBig := p.Y.Bytes()
	for i := 0; i < len(xBig) && i < 32; i++ {
		xBytes[i] = xBig[len(xBig)-1-i]
	}
	for i := 0; i < len(yBig) && i < 32; i++ {
		yBytes[i] = yBig[len(yBig)-1-i]
	}
	return
}

// Table holds the fifteen precomputed points, little-endian per point
// to match device byte order.
type Table struct {
	X []byte // TableSize * 32 bytes
	Y []byte // TableSize * 32 bytes
}

// Generate builds table[i] = (i+1)*G for i in [0, TableSize).
func Generate() *Table {
	t := &Table{
		X: make([]byte, TableSize*32),
		Y: make([]byte, TableSize*32),
	}

	point := G()
	for i := 0; i < TableSize; i++ {
		xBytes, yBytes := point.toBytes()
		copy(t.X[i*32:(i+1)*32], xBytes[:])
		copy(t.Y[i*32:(i+1)*32], yBytes[:])
		if i < TableSize-1 {
			point = Add(point, G())
		}
	}
	return t
}

// Save writes the table to two binary files.
func (t *Table) Save(xPath, yPath string) error {
	if err := os.WriteFile(xPath, t.X, 0644); err != nil {
		return fmt.Errorf("writing X table: %w", err)
	}
	if err := os.WriteFile(yPath, t.Y, 0644); err != nil {
		return fmt.Errorf("writing Y table: %w", err)
	}
	return nil
}

// Load reads the table back from two binary files.
func Load(xPath, yPath string) (*Table, error) {
	x, err := os.ReadFile(xPath)
	if err != nil {
		return nil, fmt.Errorf("reading X table: %w", err)
	}
	y, err := os.ReadFile(yPath)
	if err != nil {
		return nil, fmt.Errorf("reading Y table: %w", err)
	}

	const expected = TableSize * 32
	if len(x) != expected || len(y) != expected {
		return nil, fmt.Errorf("table size mismatch: got X=%d Y=%d, want %d each", len(x), len(y), expected)
	}
	return &Table{X: x, Y: y}, nil
}

// Verify checks that table[0] == G.
func (t *Table) Verify() error {
	var xBytes, yBytes [32]byte
	copy(xBytes[:], t.X[0:32])
	copy(yBytes[:], t.Y[0:32])

	xBig := leBytesToBig(xBytes)
	yBig := leBytesToBig(yBytes)

	if xBig.Cmp(Gx) != 0 {
		return fmt.Errorf("table[0].X mismatch: got %s, want %s", xBig.Text(16), Gx.Text(16))
	}
	if yBig.Cmp(Gy) != 0 {
		return fmt.Errorf("table[0].Y mismatch: got %s, want %s", yBig.Text(16), Gy.Text(16))
	}
	return nil
}

func leBytesToBig(b [32]byte) *big.Int {
	v := new(big.Int)
	for i := 31; i >= 0; i-- {
		v.Lsh(v, 8)
		v.Or(v, big.NewInt(int64(b[i])))
	}
	return v
}

// Hash returns the low 8 bytes of table[0].X, for a cheap sanity check
// that a loaded binary file matches the table this package builds.
func (t *Table) Hash() uint64 {
	return binary.LittleEndian.Uint64(t.X[0:8])
}
