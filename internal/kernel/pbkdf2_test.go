package kernel

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// TestSeedFromMnemonicZeroEntropyVector pins the published BIP39 test
// vector for 256-bit zero entropy (mnemonic "abandon"×23 + "art", empty
// passphrase).
func TestSeedFromMnemonicZeroEntropyVector(t *testing.T) {
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon art"

	want, err := hex.DecodeString(
		"408b285c123836004f4b8842c89324c1f01382450c0d439af345ba7fc49acf" +
			"705489c6fc77dbd4e3dc1dd8cc6bc9f043db8ada1e243c4a0eafb290d399480840")
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}

	got := SeedFromMnemonic(mnemonic, "")
	if !bytes.Equal(got[:], want) {
		t.Fatalf("SeedFromMnemonic zero-entropy vector mismatch:\ngot  %x\nwant %x", got, want)
	}
}

func TestSeedFromMnemonicPassphraseChangesOutput(t *testing.T) {
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon art"

	noPass := SeedFromMnemonic(mnemonic, "")
	withPass := SeedFromMnemonic(mnemonic, "TREZOR")
	if noPass == withPass {
		t.Fatalf("passphrase must change the derived seed")
	}
}

func TestSeedFromMnemonicDeterministic(t *testing.T) {
	a := SeedFromMnemonic("legal winner thank year wave sausage worth useful legal winner thank yellow", "")
	b := SeedFromMnemonic("legal winner thank year wave sausage worth useful legal winner thank yellow", "")
	if a != b {
		t.Fatalf("SeedFromMnemonic is not deterministic")
	}
}
