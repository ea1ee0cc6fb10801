package worker

import (
	"context"
	"encoding/hex"

	"ethvanity/internal/kernel"
	"ethvanity/internal/search"
)

// CPUWorker drives a search on goroutine work-items, one per logical
// thread, via the shared search package.
type CPUWorker struct {
	driver *search.Driver
	cfg    Config
}

// NewCPUWorker creates a new CPU-based worker.
func NewCPUWorker(cfg Config) *CPUWorker {
	return &CPUWorker{
		driver: search.NewDriver(search.Config{
			BaseEntropy:   cfg.BaseEntropy,
			NumThreads:    cfg.NumThreads,
			Condition:     cfg.Condition,
			CheckInterval: cfg.CheckInterval,
		}),
		cfg: cfg,
	}
}

// Run starts the worker loop.
func (w *CPUWorker) Run(ctx context.Context) <-chan Match {
	matches := make(chan Match, 1)

	go func() {
		defer close(matches)

		w.driver.Run(ctx)

		result := w.driver.Result()
		if result == nil {
			return
		}

		select {
		case matches <- resultToMatch(*result):
		case <-ctx.Done():
		}
	}()

	return matches
}

// Stats returns current statistics.
func (w *CPUWorker) Stats() Stats {
	s := w.driver.Stats()
	return Stats{AddressesChecked: s.AddressesChecked, MatchFound: s.MatchFound}
}

// Close releases resources. CPUWorker holds none.
func (w *CPUWorker) Close() error {
	return nil
}

// resultToMatch re-derives the mnemonic and private key for a published
// search result, for host-side reporting; the work-item loop itself only
// ever needs the address.
func resultToMatch(r search.Result) Match {
	indices := kernel.EntropyToIndices([32]byte(r.Entropy))
	mnemonic := kernel.IndicesToMnemonic(indices)
	seed := kernel.SeedFromMnemonic(mnemonic, "")
	priv := kernel.DeriveEthereumKey(seed)
	privBytes := priv.BytesBE()

	return Match{
		Entropy:       r.Entropy,
		Address:       r.Address,
		Mnemonic:      mnemonic,
		PrivateKeyHex: hex.EncodeToString(privBytes[:]),
		FoundByIndex:  r.FoundByIndex,
	}
}
