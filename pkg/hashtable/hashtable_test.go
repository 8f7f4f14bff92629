package hashtable

import (
	"fmt"
	"testing"
)

func TestInsertFind(t *testing.T) {
	h := NewString[string](50)
	h.Insert("running", "run")
	h.Insert("cats", "cat")

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"running", "run", true},
		{"cats", "cat", true},
		{"dogs", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, ok := h.Find(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("Find(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if ok && *v != tt.want {
				t.Errorf("Find(%q) = %q, want %q", tt.key, *v, tt.want)
			}
		})
	}
}

func TestInsertOverwrites(t *testing.T) {
	h := NewString[int](8)
	h.Insert("a", 1)
	h.Insert("a", 2)
	if h.Len() != 1 {
		t.Fatalf("Len = %d, want 1", h.Len())
	}
	if v, _ := h.Find("a"); *v != 2 {
		t.Errorf("value = %d, want 2", *v)
	}
}

func TestCollisionsKeepAllKeys(t *testing.T) {
	// Every key lands in the same bucket.
	h := New[string, int](4, func(string) uint64 { return 7 })
	for i := 0; i < 100; i++ {
		h.Insert(fmt.Sprintf("k%d", i), i)
	}
	if h.Len() != 100 {
		t.Fatalf("Len = %d, want 100", h.Len())
	}
	for i := 0; i < 100; i++ {
		v, ok := h.Find(fmt.Sprintf("k%d", i))
		if !ok || *v != i {
			t.Fatalf("k%d = %v, %v", i, v, ok)
		}
	}
}

func TestFindReturnsMutableReference(t *testing.T) {
	h := NewString[[]int](16)
	h.Insert("doc", nil)
	v, _ := h.Find("doc")
	*v = append(*v, 1, 2)
	got, _ := h.Find("doc")
	if len(*got) != 2 {
		t.Errorf("in-place update lost: %v", *got)
	}
}

func TestZeroBucketsClamped(t *testing.T) {
	h := NewString[int](0)
	if h.Buckets() != 1 {
		t.Fatalf("Buckets = %d, want 1", h.Buckets())
	}
	h.Insert("x", 1)
	if _, ok := h.Find("x"); !ok {
		t.Error("lookup failed in single-bucket table")
	}
}

func BenchmarkInsertFind(b *testing.B) {
	keys := make([]string, 1000)
	for i := range keys {
		keys[i] = fmt.Sprintf("term-%d", i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h := NewString[int](256)
		for j, k := range keys {
			h.Insert(k, j)
		}
		for _, k := range keys {
			h.Find(k)
		}
	}
}
