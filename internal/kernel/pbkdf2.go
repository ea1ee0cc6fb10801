package kernel

// PBKDF2-HMAC-SHA512 with BIP39's fixed parameters: 2048 iterations, salt
// "mnemonic"||passphrase. The key (the mnemonic sentence) never changes
// across iterations, so the ipad/opad state is derived once and reused
// for every HMAC call in the 2048-round chain of the single output block.

const bip39Iterations = 2048

// SeedFromMnemonic derives the 64-byte BIP39 seed from a mnemonic
// sentence and optional passphrase.
func SeedFromMnemonic(mnemonic, passphrase string) [64]byte {
	hmacState := NewHMACSHA512([]byte(mnemonic))
	salt := append([]byte("mnemonic"), []byte(passphrase)...)

	// A 64-byte derived key needs exactly one SHA-512 block (block index 1).
	var blockSalt []byte
	blockSalt = append(blockSalt, salt...)
	blockSalt = append(blockSalt, 0, 0, 0, 1)

	u := hmacState.Sum(blockSalt)
	t := u
	for i := 1; i < bip39Iterations; i++ {
		u = hmacState.Sum(u[:])
		for j := range t {
			t[j] ^= u[j]
		}
	}
	return t
}
