//go:build cuda

package worker

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"sync/atomic"

	"ethvanity/gpu/wrapper"
	"ethvanity/internal/kernel"
)

// GPUWorker drives the device search kernel, re-launching it over
// successive entropy slices until it finds a match or ctx is cancelled.
// The kernel itself scans NumThreads disjoint strides to exhaustion in a
// single launch; GPUWorker's job is only to advance the base entropy
// between launches when a launch comes back empty.
type GPUWorker struct {
	device     *wrapper.Device
	search     *wrapper.SearchKernel
	cfg        Config
	launchSpan uint32

	addressesChecked uint64
	matchFound       atomic.Bool
}

// GPUWorkerConfig contains GPU-specific configuration.
type GPUWorkerConfig struct {
	Config
	PTXPath         string
	BasepointsXPath string
	BasepointsYPath string

	// LaunchSpan sets how far the host advances the base entropy after a
	// launch that found no match: by LaunchSpan * NumThreads. It is not
	// passed to the kernel.
	LaunchSpan uint32
}

// NewGPUWorker creates a new GPU-accelerated worker.
func NewGPUWorker(cfg GPUWorkerConfig) (*GPUWorker, error) {
	if err := wrapper.InitCUDA(); err != nil {
		return nil, fmt.Errorf("initializing CUDA: %w", err)
	}

	count, err := wrapper.DeviceCount()
	if err != nil || count == 0 {
		return nil, fmt.Errorf("no CUDA devices available")
	}

	device, err := wrapper.NewDevice(0)
	if err != nil {
		return nil, fmt.Errorf("creating device: %w", err)
	}

	log.Printf("GPU: %s (%.2f GB)", device.Name(), float64(device.Memory())/(1<<30))

	searchKernel, err := wrapper.NewSearchKernel(device, wrapper.SearchConfig{
		PTXPath:         cfg.PTXPath,
		BasepointsXPath: cfg.BasepointsXPath,
		BasepointsYPath: cfg.BasepointsYPath,
	})
	if err != nil {
		device.Close()
		return nil, fmt.Errorf("creating search kernel: %w", err)
	}

	span := cfg.LaunchSpan
	if span == 0 {
		span = cfg.CheckInterval
	}

	return &GPUWorker{
		device:     device,
		search:     searchKernel,
		cfg:        cfg.Config,
		launchSpan: span,
	}, nil
}

// Run starts the worker loop.
func (w *GPUWorker) Run(ctx context.Context) <-chan Match {
	matches := make(chan Match, 1)

	go func() {
		defer close(matches)

		base := w.cfg.BaseEntropy
		condition := kernel.EncodeCondition(w.cfg.Condition)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			result, err := w.search.Run(wrapper.RunParams{
				BaseEntropy:   base,
				NumThreads:    w.cfg.NumThreads,
				Condition:     condition,
				CheckInterval: w.cfg.CheckInterval,
				PatternMask:   w.cfg.Condition.Mask,
				PatternValue:  w.cfg.Condition.Value,
			})
			if err != nil {
				if w.cfg.Verbose {
					log.Printf("search kernel launch error: %v", err)
				}
				return
			}

			for _, c := range result.Counters {
				atomic.AddUint64(&w.addressesChecked, c)
			}

			if result.Found {
				w.matchFound.Store(true)
				select {
				case matches <- gpuResultToMatch(result):
				case <-ctx.Done():
				}
				return
			}

			var ok bool
			base, ok = kernel.IncrementBy(base, w.cfg.NumThreads*w.launchSpan)
			if !ok {
				return
			}
		}
	}()

	return matches
}

// Stats returns current statistics.
func (w *GPUWorker) Stats() Stats {
	return Stats{
		AddressesChecked: atomic.LoadUint64(&w.addressesChecked),
		MatchFound:       w.matchFound.Load(),
	}
}

// Close releases GPU resources.
func (w *GPUWorker) Close() error {
	if w.search != nil {
		if err := w.search.Close(); err != nil {
			return err
		}
	}
	if w.device != nil {
		return w.device.Close()
	}
	return nil
}

func gpuResultToMatch(r wrapper.RunResult) Match {
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
		FoundByIndex:  r.FoundByThread,
	}
}
