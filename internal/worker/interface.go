package worker

import (
	"context"

	"ethvanity/internal/kernel"
)

// Match represents a found vanity address.
type Match struct {
	Entropy       kernel.Entropy
	Address       [20]byte
	Mnemonic      string
	PrivateKeyHex string
	FoundByIndex  uint32
}

// Stats contains worker statistics.
type Stats struct {
	AddressesChecked uint64
	MatchFound       bool
}

// Worker defines the interface for driving a vanity-address search,
// whether the search loop runs on CPU goroutines or a GPU kernel.
type Worker interface {
	// Run starts the search, returning at most one Match on the channel
	// before closing it. Returns the channel at once; the search runs in
	// the background and the channel is closed when it ends.
	Run(ctx context.Context) <-chan Match

	// Stats returns current statistics.
	Stats() Stats

	// Close releases any resources.
	Close() error
}

// Config contains worker configuration shared by the CPU and GPU paths.
type Config struct {
	BaseEntropy   kernel.Entropy
	NumThreads    uint32
	Condition     kernel.Condition
	CheckInterval uint32 // must be a power of two

	Verbose bool
}

// DefaultConfig returns sensible defaults for a single search run.
func DefaultConfig() Config {
	return Config{
		NumThreads:    uint32(1024),
		CheckInterval: 2048,
	}
}
