// Cross-checks against independent, widely-used third-party
// implementations. These never run in production — every function under
// test here is built from scratch elsewhere in this package — they exist
// only to catch a from-scratch implementation bug that a self-consistency
// test (affine vs Jacobian, encode/decode round trip) can't: an error
// that's internally consistent but wrong against the outside world.
package kernel

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	bip32 "github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/sha3"
)

func TestKeccak256MatchesGoEthereum(t *testing.T) {
	msgs := [][]byte{
		nil,
		[]byte("a"),
		[]byte("ethereum vanity address miner"),
		make([]byte, 400), // spans several keccakRate blocks
	}
	for _, msg := range msgs {
		got := Keccak256(msg)
		want := ethcrypto.Keccak256(msg)
		if !bytes.Equal(got[:], want) {
			t.Errorf("Keccak256(%d bytes) disagrees with go-ethereum: got %x want %x", len(msg), got, want)
		}
	}
}

func TestKeccak256MatchesGolangXCryptoSHA3LegacyKeccak(t *testing.T) {
	msgs := [][]byte{nil, []byte("abc"), make([]byte, 200)}
	for _, msg := range msgs {
		got := Keccak256(msg)

		h := sha3.NewLegacyKeccak256()
		h.Write(msg)
		want := h.Sum(nil)

		if !bytes.Equal(got[:], want) {
			t.Errorf("Keccak256(%d bytes) disagrees with x/crypto/sha3 LegacyKeccak256: got %x want %x", len(msg), got, want)
		}
	}
}

func TestBIP39IndicesMatchTylerSmithGoBip39(t *testing.T) {
	entropies := [][]byte{
		make([]byte, 32),
		bytes.Repeat([]byte{0xFF}, 32),
		{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10,
			0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E, 0x1F, 0x20},
	}
	for _, e := range entropies {
		var arr [32]byte
		copy(arr[:], e)

		want, err := bip39.NewMnemonic(e)
		if err != nil {
			t.Fatalf("reference NewMnemonic failed: %v", err)
		}

		indices := EntropyToIndices(arr)
		got := IndicesToMnemonic(indices)
		if got != want {
			t.Errorf("mnemonic for entropy %x: got %q want %q", e, got, want)
		}
	}
}

func TestSeedFromMnemonicMatchesTylerSmithGoBip39(t *testing.T) {
	var zero [32]byte
	indices := EntropyToIndices(zero)
	mnemonic := IndicesToMnemonic(indices)

	got := SeedFromMnemonic(mnemonic, "")
	want := bip39.NewSeed(mnemonic, "")
	if !bytes.Equal(got[:], want) {
		t.Fatalf("seed mismatch against go-bip39:\ngot  %x\nwant %x", got, want)
	}

	gotPass := SeedFromMnemonic(mnemonic, "TREZOR")
	wantPass := bip39.NewSeed(mnemonic, "TREZOR")
	if !bytes.Equal(gotPass[:], wantPass) {
		t.Fatalf("seed-with-passphrase mismatch against go-bip39")
	}
}

func TestDeriveEthereumKeyMatchesTylerSmithGoBip32(t *testing.T) {
	var zero [32]byte
	indices := EntropyToIndices(zero)
	mnemonic := IndicesToMnemonic(indices)
	seed := SeedFromMnemonic(mnemonic, "")

	got := DeriveEthereumKey(seed)
	gotBytes := got.BytesBE()

	masterKey, err := bip32.NewMasterKey(seed[:])
	if err != nil {
		t.Fatalf("reference NewMasterKey failed: %v", err)
	}
	key := masterKey
	for _, idx := range EthereumPath {
		key, err = key.NewChildKey(idx)
		if err != nil {
			t.Fatalf("reference NewChildKey(%#x) failed: %v", idx, err)
		}
	}

	if !bytes.Equal(gotBytes[:], key.Key) {
		t.Fatalf("derived private key mismatch against go-bip32:\ngot  %x\nwant %x", gotBytes, key.Key)
	}
}

func TestScalarBaseMulMatchesBtcec(t *testing.T) {
	for _, k := range []uint32{1, 2, 3, 12345, 0xABCDEF} {
		scalar := BI256{k}
		got := ScalarBaseMul(scalar)

		var scalarBytes [32]byte
		gotBE := scalar.BytesBE()
		copy(scalarBytes[:], gotBE[:])

		_, pub := btcec.PrivKeyFromBytes(scalarBytes[:])
		wantX := pub.X().Bytes()
		wantY := pub.Y().Bytes()

		gotX := got.X.BytesBE()
		gotY := got.Y.BytesBE()

		var wantXPadded, wantYPadded [32]byte
		copy(wantXPadded[32-len(wantX):], wantX)
		copy(wantYPadded[32-len(wantY):], wantY)

		if gotX != wantXPadded || gotY != wantYPadded {
			t.Errorf("ScalarBaseMul(%d) disagrees with btcec: got (%x,%x) want (%x,%x)", k, gotX, gotY, wantXPadded, wantYPadded)
		}
	}
}

func TestAddressFromPrivateKeyMatchesGoEthereum(t *testing.T) {
	for _, k := range []uint32{1, 2, 999999} {
		scalar := BI256{k}
		got := AddressFromPrivateKey(scalar)

		scalarBytes := scalar.BytesBE()
		privKey, err := ethcrypto.ToECDSA(scalarBytes[:])
		if err != nil {
			t.Fatalf("ToECDSA failed: %v", err)
		}
		want := ethcrypto.PubkeyToAddress(privKey.PublicKey)

		if !bytes.Equal(got[:], want.Bytes()) {
			t.Errorf("AddressFromPrivateKey(%d) disagrees with go-ethereum: got %x want %x", k, got, want)
		}
	}
}
