package kernel

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestSHA256KnownVectors(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, c := range cases {
		want, err := hex.DecodeString(c.want)
		if err != nil {
			t.Fatalf("bad fixture: %v", err)
		}
		got := SHA256([]byte(c.msg))
		if !bytes.Equal(got[:], want) {
			t.Errorf("SHA256(%q) = %x, want %x", c.msg, got, want)
		}
	}
}

func TestSHA256ZerosChecksumByte(t *testing.T) {
	var zeros [32]byte
	got := SHA256(zeros[:])
	if got[0] != 0x66 {
		t.Fatalf("SHA256(32 zero bytes)[0] = %#x, want 0x66", got[0])
	}
}

func TestSHA512KnownVector(t *testing.T) {
	want, _ := hex.DecodeString("ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39" +
		"a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f")
	got := SHA512([]byte("abc"))
	if !bytes.Equal(got[:], want) {
		t.Fatalf("SHA512(\"abc\") = %x, want %x", got, want)
	}
}

func TestSHA256AcrossBlockBoundary(t *testing.T) {
	for _, n := range []int{0, 1, 55, 56, 63, 64, 65, 128, 129} {
		msg := make([]byte, n)
		for i := range msg {
			msg[i] = byte(i)
		}
		a := SHA256(msg)
		b := SHA256(msg)
		if a != b {
			t.Fatalf("SHA256 not deterministic for length %d", n)
		}
	}
}

func TestHMACSHA512MatchesNonCachedForm(t *testing.T) {
	key := []byte("a key longer than one block, used to exercise the >128 byte branch in NewHMACSHA512 which pre-hashes the key with SHA-512 before deriving ipad/opad")
	msg := []byte("message")

	cached := NewHMACSHA512(key).Sum(msg)
	plain := HMACSHA512(key, msg)
	if cached != plain {
		t.Fatalf("cached and non-cached HMAC-SHA512 disagree")
	}
}

func TestHMACSHA512ReuseAcrossMessages(t *testing.T) {
	key := []byte("mnemonic-sentence-placeholder")
	state := NewHMACSHA512(key)

	first := state.Sum([]byte("one"))
	second := state.Sum([]byte("two"))
	if first == second {
		t.Fatalf("distinct messages under the same key produced identical HMACs")
	}

	// Re-deriving from scratch for "one" again must reproduce the same value.
	again := NewHMACSHA512(key).Sum([]byte("one"))
	if again != first {
		t.Fatalf("HMAC-SHA512 not deterministic across fresh state derivations")
	}
}

func TestHMACSHA256KnownVector(t *testing.T) {
	// RFC 4231 test case 1.
	key, _ := hex.DecodeString("0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b")
	want, _ := hex.DecodeString("b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7")
	got := HMACSHA256(key, []byte("Hi There"))
	if !bytes.Equal(got[:], want) {
		t.Fatalf("HMAC-SHA256 RFC 4231 case 1 mismatch: got %x want %x", got, want)
	}
}
