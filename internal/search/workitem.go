// Package search implements the per-work-item loop body and the CPU
// goroutine fan-out driver that coordinates many of them, mirroring what
// a GPU kernel launch with the same work-item count would do.
package search

import (
	"sync/atomic"

	"ethvanity/internal/kernel"
)

// Condition pairs a decoded condition word with its optional pattern.
type Condition = kernel.Condition

// Config is the read-only search configuration shared by all work-items.
type Config struct {
	BaseEntropy   kernel.Entropy
	NumThreads    uint32
	Condition     Condition
	CheckInterval uint32 // must be a power of two
}

// Result is the published outcome of the first work-item to match.
type Result struct {
	Entropy      kernel.Entropy
	Address      [20]byte
	FoundByIndex uint32
}

// runWorkItem executes the loop body of §4.10 for work-item index t. It
// derives an address from the current entropy, tests the condition, and
// on a match performs the single-writer CAS into foundFlag/result. It
// returns the number of addresses this work-item checked.
func runWorkItem(cfg Config, t uint32, foundFlag *atomic.Uint32, result *atomic.Pointer[Result]) uint64 {
	entropy, ok := kernel.IncrementBy(cfg.BaseEntropy, t)
	if !ok {
		return 0
	}

	var checked uint64
	var counter uint32
	mask := cfg.CheckInterval - 1

	for foundFlag.Load() == 0 {
		addr := deriveAddress(entropy)
		checked++

		if cfg.Condition.Matches(addr) {
			if foundFlag.CompareAndSwap(0, 1) {
				result.Store(&Result{Entropy: entropy, Address: addr, FoundByIndex: t})
			}
			break
		}

		var inRange bool
		entropy, inRange = kernel.IncrementBy(entropy, cfg.NumThreads)
		if !inRange {
			break
		}

		counter++
		if counter&mask == 0 && foundFlag.Load() != 0 {
			break
		}
	}

	return checked
}

// deriveAddress runs the full entropy->address pipeline (§4.2-§4.8):
// BIP39 encode, PBKDF2 seed, BIP32 derivation to the fixed Ethereum
// path, scalar-mul-by-G, and Keccak-256 hashing.
func deriveAddress(entropy kernel.Entropy) [20]byte {
	indices := kernel.EntropyToIndices([32]byte(entropy))
	mnemonic := kernel.IndicesToMnemonic(indices)
	seed := kernel.SeedFromMnemonic(mnemonic, "")
	priv := kernel.DeriveEthereumKey(seed)
	return kernel.AddressFromPrivateKey(priv)
}
