package kernel

// AddressFromPrivateKey derives the 20-byte Ethereum address for a
// secp256k1 private key: scalar-mul by G, uncompressed-encode, hash the
// 64 coordinate bytes (skipping the leading 0x04) with Keccak-256, and
// keep the last 20 bytes of the digest.
func AddressFromPrivateKey(priv BI256) [20]byte {
	pub := ScalarBaseMul(priv)
	return AddressFromPublicKey(pub)
}

// AddressFromPublicKey hashes an affine public key into its address.
func AddressFromPublicKey(pub AffinePoint) [20]byte {
	uncompressed := UncompressedPublicKey(pub)
	digest := Keccak256(uncompressed[1:])
	var addr [20]byte
	copy(addr[:], digest[12:])
	return addr
}
