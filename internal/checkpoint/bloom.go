// Package checkpoint provides probabilistic and exact dedup structures
// so a restarted search doesn't burn time re-covering a base entropy
// slice a previous run already walked.
package checkpoint

import (
	"io"
	"os"

	"github.com/bits-and-blooms/bloom/v3"

	"ethvanity/internal/kernel"
)

// probeCount is the number of evenly-spaced points sampled across a
// run's entropy range and added to the filter alongside its base
// entropy, so a hit is plausible even when a new run's base entropy
// falls in the middle of a previously-covered range rather than at its
// start.
const probeCount = 8

// Filter is an advisory, probabilistic record of base-entropy ranges
// covered by completed runs. A hit means "probably already covered";
// it is never treated as a correctness guarantee — see ProbablyCovered.
type Filter struct {
	bf *bloom.BloomFilter
}

// NewFilter builds a filter sized for expectedRuns completed search
// runs at the given false-positive rate.
func NewFilter(expectedRuns uint, falsePositiveRate float64) *Filter {
	return &Filter{bf: bloom.NewWithEstimates(expectedRuns*probeCount, falsePositiveRate)}
}

// AddRun records a completed run's coverage: its base entropy plus
// probeCount points sampled evenly across [base, base+span).
func (f *Filter) AddRun(base kernel.Entropy, span uint64) {
	f.bf.Add(base[:])
	for i := 1; i < probeCount; i++ {
		step := span / uint64(probeCount) * uint64(i)
		probe, ok := kernel.IncrementBy(base, uint32(step))
		if !ok {
			break
		}
		f.bf.Add(probe[:])
	}
}

// ProbablyCovered reports whether base entropy falls within a
// previously-recorded run's coverage. A true result should make the
// host re-roll its base entropy before starting work; a false result
// is not a guarantee the range is uncovered, only that it probably
// isn't, per the false-positive rate NewFilter was built with.
func (f *Filter) ProbablyCovered(base kernel.Entropy) bool {
	return f.bf.Test(base[:])
}

// Save writes the filter's binary representation to path.
func (f *Filter) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = f.bf.WriteTo(file)
	return err
}

// LoadFilter reads a filter previously written by Save. A missing file
// is not an error — it just means no prior coverage is known yet.
func LoadFilter(path string, expectedRuns uint, falsePositiveRate float64) (*Filter, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewFilter(expectedRuns, falsePositiveRate), nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	bf := &bloom.BloomFilter{}
	if _, err := bf.ReadFrom(file); err != nil && err != io.EOF {
		return nil, err
	}
	return &Filter{bf: bf}, nil
}
