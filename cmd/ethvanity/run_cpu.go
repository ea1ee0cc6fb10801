//go:build !cuda

package main

import (
	"context"
	"log"

	"ethvanity/internal/worker"
)

// runWorker starts a single CPU worker (non-GPU build). The worker
// internally fans out cfg.numThreads goroutines, one per work-item.
func runWorker(ctx context.Context, cfg workerConfig) (matchChan chan worker.Match, statsFn func() worker.Stats, waitFn func()) {
	if cfg.useGPU {
		log.Println("WARNING: GPU acceleration requested but not compiled with -tags cuda")
		log.Println("falling back to CPU-only mode")
	}

	w := worker.NewCPUWorker(worker.Config{
		BaseEntropy:   cfg.baseEntropy,
		NumThreads:    cfg.numThreads,
		Condition:     cfg.condition,
		CheckInterval: cfg.checkInterval,
		Verbose:       cfg.verbose,
	})

	log.Printf("starting %d CPU work-items...", cfg.numThreads)

	matchChan = make(chan worker.Match, 1)
	done := make(chan struct{})

	go func() {
		defer close(matchChan)
		defer close(done)
		defer w.Close()

		for match := range w.Run(ctx) {
			matchChan <- match
		}
	}()

	statsFn = w.Stats
	waitFn = func() { <-done }

	return
}
