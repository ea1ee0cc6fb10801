package kernel

import "encoding/binary"

// BIP32 hardened/non-hardened key derivation, restricted to what the
// fixed Ethereum path needs: no serialization format, no public extended
// keys, just (private key, chain code) pairs threaded through HMAC-SHA512.

// EthereumPath is m/44'/60'/0'/0/0 as raw BIP32 indices.
var EthereumPath = [5]uint32{0x8000002C, 0x8000003C, 0x80000000, 0, 0}

const hardenedBit = 0x80000000

// ExtendedKey is a BIP32 private key plus chain code.
type ExtendedKey struct {
	PrivateKey BI256
	ChainCode  [32]byte
}

// MasterKeyFromSeed derives the BIP32 master key from a BIP39 seed.
func MasterKeyFromSeed(seed [64]byte) ExtendedKey {
	h := HMACSHA512([]byte("Bitcoin seed"), seed[:])
	var key ExtendedKey
	var il [32]byte
	copy(il[:], h[:32])
	key.PrivateKey = FromBytesBE(il)
	copy(key.ChainCode[:], h[32:])
	return key
}

// DeriveChild computes the child key at the given BIP32 index. An
// invalid intermediate (IL == 0 or IL >= n) yields a zeroed private key,
// per spec: the kernel does not retry, it just continues with the
// degenerate key.
func DeriveChild(parent ExtendedKey, index uint32) ExtendedKey {
	var data []byte
	if index >= hardenedBit {
		data = make([]byte, 0, 37)
		data = append(data, 0x00)
		privBytes := parent.PrivateKey.BytesBE()
		data = append(data, privBytes[:]...)
	} else {
		pub := ScalarBaseMul(parent.PrivateKey)
		yBytes := pub.Y.BytesBE()
		prefix := byte(0x02 | (yBytes[31] & 1))
		data = make([]byte, 0, 37)
		data = append(data, prefix)
		xBytes := pub.X.BytesBE()
		data = append(data, xBytes[:]...)
	}
	var idxBytes [4]byte
	binary.BigEndian.PutUint32(idxBytes[:], index)
	data = append(data, idxBytes[:]...)

	h := HMACSHA512(parent.ChainCode[:], data)
	var ilBytes [32]byte
	copy(ilBytes[:], h[:32])
	il := FromBytesBE(ilBytes)

	var child ExtendedKey
	copy(child.ChainCode[:], h[32:])
	if il.IsZero() || il.gte(curveN) {
		return child // degenerate: zero private key, valid chain code
	}
	child.PrivateKey = ModAddN(parent.PrivateKey, il)
	return child
}

// DeriveEthereumKey walks the full fixed path m/44'/60'/0'/0/0 from a
// BIP39 seed to the final Ethereum signing key.
func DeriveEthereumKey(seed [64]byte) BI256 {
	key := MasterKeyFromSeed(seed)
	for _, idx := range EthereumPath {
		key = DeriveChild(key, idx)
	}
	return key.PrivateKey
}
