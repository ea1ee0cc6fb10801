package checkpoint

import (
	"path/filepath"
	"testing"

	"ethvanity/internal/kernel"
)

func TestFilterAddRunMarksBaseCovered(t *testing.T) {
	f := NewFilter(16, 0.001)
	var base kernel.Entropy
	base[0] = 0x10

	if f.ProbablyCovered(base) {
		t.Fatalf("a fresh filter should not report coverage")
	}
	f.AddRun(base, 1<<20)
	if !f.ProbablyCovered(base) {
		t.Fatalf("base entropy should be covered immediately after AddRun")
	}
}

func TestFilterAddRunMarksProbePoints(t *testing.T) {
	f := NewFilter(16, 0.001)
	var base kernel.Entropy
	base[0] = 0x20

	span := uint64(8000)
	f.AddRun(base, span)

	mid, ok := kernel.IncrementBy(base, uint32(span/2))
	if !ok {
		t.Fatalf("setup: increment overflowed")
	}
	if !f.ProbablyCovered(mid) {
		t.Fatalf("a probe point within the covered span should be reported covered")
	}
}

func TestFilterUncoveredEntropyUsuallyNotFlagged(t *testing.T) {
	f := NewFilter(16, 0.0001)
	var base kernel.Entropy
	base[0] = 0x30
	f.AddRun(base, 1000)

	var farAway kernel.Entropy
	farAway[0] = 0xF0
	if f.ProbablyCovered(farAway) {
		t.Fatalf("an entropy far from any covered run was flagged covered (unlucky false positive or a real bug)")
	}
}

func TestFilterSaveLoadRoundTrip(t *testing.T) {
	f := NewFilter(16, 0.001)
	var base kernel.Entropy
	base[0] = 0x40
	f.AddRun(base, 1<<16)

	dir := t.TempDir()
	path := filepath.Join(dir, "coverage.bloom")
	if err := f.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFilter(path, 16, 0.001)
	if err != nil {
		t.Fatalf("LoadFilter failed: %v", err)
	}
	if !loaded.ProbablyCovered(base) {
		t.Fatalf("loaded filter lost coverage of a previously-added base entropy")
	}
}

func TestLoadFilterMissingFileReturnsFreshFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "does-not-exist.bloom")

	f, err := LoadFilter(path, 16, 0.001)
	if err != nil {
		t.Fatalf("LoadFilter on a missing file should not error: %v", err)
	}
	var base kernel.Entropy
	if f.ProbablyCovered(base) {
		t.Fatalf("a fresh filter from a missing file should report nothing covered")
	}
}
