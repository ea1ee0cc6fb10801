package checkpoint

import (
	"testing"

	"ethvanity/internal/kernel"
)

func TestRangeSetAddContains(t *testing.T) {
	rs := NewRangeSet(4)
	var a, b kernel.Entropy
	a[0] = 0x01
	b[0] = 0x02

	if rs.Contains(a) {
		t.Fatalf("empty set should not contain a")
	}
	rs.Add(a)
	if !rs.Contains(a) {
		t.Fatalf("set should contain a after Add")
	}
	if rs.Contains(b) {
		t.Fatalf("set should not contain b, which was never added")
	}
}

func TestRangeSetDedup(t *testing.T) {
	rs := NewRangeSet(4)
	var a kernel.Entropy
	a[0] = 0x01

	rs.Add(a)
	rs.Add(a)
	rs.Add(a)
	if rs.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after adding the same prefix three times", rs.Len())
	}
}

func TestRangeSetOnlyKeysOnPrefix(t *testing.T) {
	rs := NewRangeSet(4)
	var a, b kernel.Entropy
	a[0] = 0x01
	b[0] = 0x01
	b[31] = 0xFF // differs only in bytes beyond the 8-byte prefix

	rs.Add(a)
	if !rs.Contains(b) {
		t.Fatalf("entries sharing an 8-byte prefix should be considered the same range")
	}
}

func TestRangeSetLenGrows(t *testing.T) {
	rs := NewRangeSet(4)
	for i := 0; i < 10; i++ {
		var e kernel.Entropy
		e[0] = byte(i)
		rs.Add(e)
	}
	if rs.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", rs.Len())
	}
}
