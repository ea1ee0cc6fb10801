// ethvanity searches for Ethereum addresses matching a vanity condition
// by brute-forcing 256-bit entropy across CPU goroutines or, with the
// cuda build tag, a CUDA device.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"ethvanity/internal/checkpoint"
	"ethvanity/internal/kernel"
	"ethvanity/internal/notify"
	"ethvanity/internal/persist"
	"ethvanity/internal/worker"
)

var (
	threads       = flag.Uint("t", 1024, "Number of search work-items (CPU goroutines or GPU threads)")
	checkInterval = flag.Uint("c", 2048, "Iterations between found-flag polls per work-item (power of two)")

	prefixHex  = flag.String("prefix", "", "Match addresses starting with this hex string")
	suffixHex  = flag.String("suffix", "", "Match addresses ending with this hex string")
	minZeros   = flag.Int("min-leading-zeros", -1, "Match addresses with at least this many leading zero hex nibbles")
	exactZeros = flag.Int("leading-zeros", -1, "Match addresses with exactly this many leading zero hex nibbles")
	patternHex = flag.String("pattern", "", "20-byte hex mask:value pattern, e.g. ff00...:de00... (mask applied with AND)")

	baseEntropyHex = flag.String("base-entropy", "", "32-byte hex starting entropy (random if unset)")

	useGPU          = flag.Bool("gpu", false, "Enable GPU acceleration (requires -tags cuda build)")
	ptxPath         = flag.String("ptx", "", "Path to the compiled search kernel PTX")
	basepointsXPath = flag.String("basepoints-x", "basepoints_x.bin", "Path to the base-point table X coordinates")
	basepointsYPath = flag.String("basepoints-y", "basepoints_y.bin", "Path to the base-point table Y coordinates")

	progressInterval = flag.Int("progress", 10, "Seconds between progress reports (0 = disabled)")
	verbose          = flag.Bool("v", false, "Enable verbose output")

	dbConn = flag.String("db", "", "Postgres connection string for persisting matches and run stats (optional)")

	pushoverToken = flag.String("pt", "", "Pushover application token")
	pushoverUser  = flag.String("pu", "", "Pushover user key")

	coverageFile = flag.String("coverage", "", "Path to a bloom filter file recording base-entropy ranges prior runs covered (optional)")
)

// workerConfig holds the resolved configuration passed to runWorker.
type workerConfig struct {
	numThreads      uint32
	checkInterval   uint32
	baseEntropy     kernel.Entropy
	condition       kernel.Condition
	useGPU          bool
	verbose         bool
	ptxPath         string
	basepointsXPath string
	basepointsYPath string
}

func main() {
	flag.Parse()

	condition, err := buildCondition()
	if err != nil {
		log.Fatalf("invalid condition: %v", err)
	}

	baseEntropy, err := resolveBaseEntropy()
	if err != nil {
		log.Fatalf("invalid base entropy: %v", err)
	}

	if *checkInterval == 0 || (*checkInterval)&(*checkInterval-1) != 0 {
		log.Fatal("-c (check interval) must be a nonzero power of two")
	}

	var coverage *checkpoint.Filter
	if *coverageFile != "" {
		coverage, err = checkpoint.LoadFilter(*coverageFile, 1024, 0.0001)
		if err != nil {
			log.Fatalf("failed to load coverage filter: %v", err)
		}
		baseEntropy, err = avoidCoveredEntropy(coverage, baseEntropy)
		if err != nil {
			log.Fatalf("failed to pick an uncovered base entropy: %v", err)
		}
	}

	cfg := workerConfig{
		numThreads:      uint32(*threads),
		checkInterval:   uint32(*checkInterval),
		baseEntropy:     baseEntropy,
		condition:       condition,
		useGPU:          *useGPU,
		verbose:         *verbose,
		ptxPath:         *ptxPath,
		basepointsXPath: *basepointsXPath,
		basepointsYPath: *basepointsYPath,
	}

	log.Printf("ethvanity: %d work-items, check-interval %d", cfg.numThreads, cfg.checkInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier := notify.NewClient(*pushoverToken, *pushoverUser)

	var store *persist.Store
	if *dbConn != "" {
		store, err = persist.Open(*dbConn)
		if err != nil {
			log.Fatalf("failed to open persistence store: %v", err)
		}
		defer store.Close()
	}

	runID, err := startRun(store, cfg)
	if err != nil && *verbose {
		log.Printf("failed to record run start: %v", err)
	}

	matchChan, statsFn, waitFn := runWorker(ctx, cfg)

	var found atomic.Bool
	go func() {
		for match := range matchChan {
			found.Store(true)
			logMatch(store, notifier, runID, match)
		}
	}()

	if *progressInterval > 0 {
		go reportProgress(ctx, statsFn, notifier, *progressInterval)
	}

	<-ctx.Done()
	log.Println("shutdown signal received, waiting for search to stop...")

	done := make(chan struct{})
	go func() {
		waitFn()
		close(done)
	}()

	select {
	case <-done:
		log.Println("search stopped")
	case <-time.After(10 * time.Second):
		log.Println("timeout waiting for search to stop")
	}

	stats := statsFn()
	log.Printf("shutdown complete. addresses checked: %d, match found: %v", stats.AddressesChecked, found.Load())

	if store != nil {
		if err := store.FinishRun(runID, int64(stats.AddressesChecked), found.Load()); err != nil && *verbose {
			log.Printf("failed to record run completion: %v", err)
		}
	}

	if coverage != nil {
		coverage.AddRun(cfg.baseEntropy, stats.AddressesChecked/uint64(cfg.numThreads)*uint64(cfg.numThreads))
		if err := coverage.Save(*coverageFile); err != nil && *verbose {
			log.Printf("failed to save coverage filter: %v", err)
		}
	}
}

// avoidCoveredEntropy re-rolls base a bounded number of times if the
// coverage filter reports it as probably already covered by a prior
// run, returning the last rolled value if every attempt still hits.
// tried records each rejected roll by its 8-byte prefix and the loop
// stops early if a roll repeats one already rejected.
func avoidCoveredEntropy(coverage *checkpoint.Filter, base kernel.Entropy) (kernel.Entropy, error) {
	const maxAttempts = 8
	tried := checkpoint.NewRangeSet(maxAttempts)

	for i := 0; i < maxAttempts; i++ {
		if !coverage.ProbablyCovered(base) {
			return base, nil
		}
		if tried.Contains(base) {
			break
		}
		tried.Add(base)
		if _, err := rand.Read(base[:]); err != nil {
			return base, fmt.Errorf("re-rolling base entropy: %w", err)
		}
	}
	return base, nil
}

func startRun(store *persist.Store, cfg workerConfig) (int64, error) {
	if store == nil {
		return 0, nil
	}
	return store.StartRun(persist.RunParams{
		BaseEntropy: cfg.baseEntropy,
		NumThreads:  cfg.numThreads,
		Condition:   kernel.EncodeCondition(cfg.condition),
	})
}

func reportProgress(ctx context.Context, statsFn func() worker.Stats, notifier *notify.Client, intervalSeconds int) {
	ticker := time.NewTicker(time.Duration(intervalSeconds) * time.Second)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := statsFn()
			rate := (stats.AddressesChecked - last) / uint64(intervalSeconds)
			last = stats.AddressesChecked

			msg := fmt.Sprintf("checked %d addresses (%d/sec)", stats.AddressesChecked, rate)
			log.Println(msg)

			if notifier.Enabled() {
				go notifier.Send("ethvanity progress", msg)
			}
		}
	}
}

func logMatch(store *persist.Store, notifier *notify.Client, runID int64, match worker.Match) {
	msg := fmt.Sprintf("MATCH FOUND! address: 0x%x mnemonic: %s", match.Address, match.Mnemonic)

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println(msg)
	fmt.Println(strings.Repeat("=", 60))

	if store != nil {
		if err := store.SaveMatch(runID, match); err != nil {
			log.Printf("failed to save match: %v", err)
		}
	}

	if notifier.Enabled() {
		go notifier.Send("ethvanity match found", msg)
	}
}

func resolveBaseEntropy() (kernel.Entropy, error) {
	var e kernel.Entropy
	if *baseEntropyHex == "" {
		if _, err := rand.Read(e[:]); err != nil {
			return e, fmt.Errorf("generating random base entropy: %w", err)
		}
		return e, nil
	}

	b, err := hexDecode(*baseEntropyHex)
	if err != nil {
		return e, err
	}
	if len(b) != 32 {
		return e, fmt.Errorf("base entropy must be 32 bytes, got %d", len(b))
	}
	copy(e[:], b)
	return e, nil
}

func buildCondition() (kernel.Condition, error) {
	var c kernel.Condition

	set := 0
	if *prefixHex != "" {
		set++
	}
	if *suffixHex != "" {
		set++
	}
	if *minZeros >= 0 {
		set++
	}
	if *exactZeros >= 0 {
		set++
	}
	if set != 1 {
		return c, fmt.Errorf("exactly one of -prefix, -suffix, -min-leading-zeros, -leading-zeros must be set")
	}

	switch {
	case *prefixHex != "":
		b, err := hexDecode(*prefixHex)
		if err != nil {
			return c, err
		}
		if len(b) == 0 || len(b) > 6 {
			return c, fmt.Errorf("-prefix must be 1-6 bytes")
		}
		c.Type = kernel.ConditionPrefix
		c.ParamLen = len(b)
		copy(c.Param[6-len(b):], b)

	case *suffixHex != "":
		b, err := hexDecode(*suffixHex)
		if err != nil {
			return c, err
		}
		if len(b) == 0 || len(b) > 6 {
			return c, fmt.Errorf("-suffix must be 1-6 bytes")
		}
		c.Type = kernel.ConditionSuffix
		c.ParamLen = len(b)
		copy(c.Param[6-len(b):], b)

	case *minZeros >= 0:
		c.Type = kernel.ConditionLeadingZerosMin
		c.ZeroCount = *minZeros

	case *exactZeros >= 0:
		c.Type = kernel.ConditionLeadingZerosExact
		c.ZeroCount = *exactZeros
	}

	if *patternHex != "" {
		parts := strings.SplitN(*patternHex, ":", 2)
		if len(parts) != 2 {
			return c, fmt.Errorf("-pattern must be mask:value")
		}
		mask, err := hexDecode(parts[0])
		if err != nil {
			return c, err
		}
		value, err := hexDecode(parts[1])
		if err != nil {
			return c, err
		}
		if len(mask) != 20 || len(value) != 20 {
			return c, fmt.Errorf("-pattern mask and value must each be 20 bytes")
		}
		c.HasPattern = true
		copy(c.Mask[:], mask)
		copy(c.Value[:], value)
	}

	return c, nil
}

func hexDecode(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	b := make([]byte, len(s)/2)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex string %q", s)
	}
	for i := range b {
		hi, ok1 := hexNibble(s[2*i])
		lo, ok2 := hexNibble(s[2*i+1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("invalid hex string %q", s)
		}
		b[i] = hi<<4 | lo
	}
	return b, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
