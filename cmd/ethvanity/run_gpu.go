//go:build cuda

package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"ethvanity/internal/worker"
)

// runWorker starts the GPU worker (GPU-enabled build), falling back to a
// CPU worker if device initialization fails.
func runWorker(ctx context.Context, cfg workerConfig) (matchChan chan worker.Match, statsFn func() worker.Stats, waitFn func()) {
	if !cfg.useGPU {
		return runCPUWorker(ctx, cfg)
	}

	ptxPath := cfg.ptxPath
	if ptxPath == "" {
		candidates := []string{
			"gpu/cuda/search.ptx",
			filepath.Join(filepath.Dir(os.Args[0]), "search.ptx"),
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				ptxPath = p
				break
			}
		}
		if ptxPath == "" {
			log.Fatal("cannot find search.ptx; use -ptx to specify a path")
		}
	}

	gpuWorker, err := worker.NewGPUWorker(worker.GPUWorkerConfig{
		Config: worker.Config{
			BaseEntropy:   cfg.baseEntropy,
			NumThreads:    cfg.numThreads,
			Condition:     cfg.condition,
			CheckInterval: cfg.checkInterval,
			Verbose:       cfg.verbose,
		},
		PTXPath:         ptxPath,
		BasepointsXPath: cfg.basepointsXPath,
		BasepointsYPath: cfg.basepointsYPath,
	})
	if err != nil {
		log.Printf("failed to create GPU worker: %v", err)
		log.Printf("falling back to CPU worker")
		return runCPUWorker(ctx, cfg)
	}

	matchChan = make(chan worker.Match, 1)
	done := make(chan struct{})

	go func() {
		defer close(matchChan)
		defer close(done)
		defer gpuWorker.Close()

		for match := range gpuWorker.Run(ctx) {
			matchChan <- match
		}
	}()

	statsFn = gpuWorker.Stats
	waitFn = func() { <-done }

	return
}

func runCPUWorker(ctx context.Context, cfg workerConfig) (matchChan chan worker.Match, statsFn func() worker.Stats, waitFn func()) {
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
