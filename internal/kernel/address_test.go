package kernel

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// TestDeriveEthereumKeyZeroEntropyVector chains BIP39 -> PBKDF2 -> BIP32 ->
// secp256k1 -> Keccak-256 for the all-zero entropy vector and checks the
// result against an independently-computed reference (RFC-standard HMAC
// and modular arithmetic, not this package's own code).
func TestDeriveEthereumKeyZeroEntropyVector(t *testing.T) {
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon art"

	seed := SeedFromMnemonic(mnemonic, "")

	wantPriv, _ := hex.DecodeString("1053fae1b3ac64f178bcc21026fd06a3f4544ec2f35338b001f02d1d8efa3d5f")
	priv := DeriveEthereumKey(seed)
	gotPriv := priv.BytesBE()
	if !bytes.Equal(gotPriv[:], wantPriv) {
		t.Fatalf("derived private key mismatch:\ngot  %x\nwant %x", gotPriv, wantPriv)
	}

	wantAddr, _ := hex.DecodeString("f278cf59f82edcf871d630f28ecc8056f25c1cdb")
	addr := AddressFromPrivateKey(priv)
	if !bytes.Equal(addr[:], wantAddr) {
		t.Fatalf("derived address mismatch:\ngot  %x\nwant %x", addr, wantAddr)
	}
}

func TestAddressFromPrivateKeyOfOne(t *testing.T) {
	want, _ := hex.DecodeString("7e5f4552091a69125d5dfcb7b8c2659029395bdf")
	addr := AddressFromPrivateKey(BI256{1})
	if !bytes.Equal(addr[:], want) {
		t.Fatalf("address(k=1) mismatch: got %x want %x", addr, want)
	}
}

func TestAddressFromPublicKeyMatchesPrivateKeyPath(t *testing.T) {
	priv := BI256{0xDEADBEEF}
	pub := ScalarBaseMul(priv)

	fromPub := AddressFromPublicKey(pub)
	fromPriv := AddressFromPrivateKey(priv)
	if fromPub != fromPriv {
		t.Fatalf("AddressFromPublicKey and AddressFromPrivateKey disagree")
	}
}

func TestDeriveChildHardenedAndNonHardenedProduceNonZeroKeys(t *testing.T) {
	seed := SeedFromMnemonic("legal winner thank year wave sausage worth useful legal winner thank yellow", "")
	master := MasterKeyFromSeed(seed)

	hardened := DeriveChild(master, EthereumPath[0])
	if hardened.PrivateKey.IsZero() {
		t.Fatalf("hardened child derivation produced a degenerate zero key (vanishingly unlikely for a real seed)")
	}

	nonHardened := DeriveChild(hardened, 0)
	if nonHardened.PrivateKey.IsZero() {
		t.Fatalf("non-hardened child derivation produced a degenerate zero key")
	}
}

func TestDeriveEthereumKeyFollowsFixedPath(t *testing.T) {
	seed := SeedFromMnemonic("legal winner thank year wave sausage worth useful legal winner thank yellow", "")

	want := MasterKeyFromSeed(seed)
	for _, idx := range EthereumPath {
		want = DeriveChild(want, idx)
	}

	got := DeriveEthereumKey(seed)
	if got.Cmp(want.PrivateKey) != 0 {
		t.Fatalf("DeriveEthereumKey disagrees with manual path walk")
	}
}

func TestDeriveEthereumKeyDeterministic(t *testing.T) {
	seed := SeedFromMnemonic("legal winner thank year wave sausage worth useful legal winner thank yellow", "")
	a := DeriveEthereumKey(seed)
	b := DeriveEthereumKey(seed)
	if a.Cmp(b) != 0 {
		t.Fatalf("DeriveEthereumKey is not deterministic")
	}
}
