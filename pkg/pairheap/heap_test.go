package pairheap

import (
	"cmp"
	"math/rand"
	"slices"
	"strings"
	"testing"
)

func TestHeapOrdering(t *testing.T) {
	tests := []struct {
		name   string
		values []int
	}{
		{"empty", nil},
		{"single", []int{4}},
		{"sorted", []int{1, 2, 3, 4, 5}},
		{"reverse", []int{9, 8, 7, 6, 5, 4, 3}},
		{"duplicates", []int{3, 1, 3, 1, 2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(cmp.Compare[int])
			h.Push(tt.values...)
			if h.Len() != len(tt.values) {
				t.Fatalf("Len() = %d, want %d", h.Len(), len(tt.values))
			}
			got := h.Drain()
			want := slices.Clone(tt.values)
			slices.Sort(want)
			if !slices.Equal(got, want) {
				t.Errorf("Drain() = %v, want %v", got, want)
			}
			if _, ok := h.Dequeue(); ok {
				t.Errorf("Dequeue() on empty heap returned a value")
			}
		})
	}
}

func TestHeapRandom(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	h := New(cmp.Compare[int])
	var ref []int
	for i := 0; i < 2000; i++ {
		if r.Intn(3) == 0 && h.Len() > 0 {
			got, _ := h.Dequeue()
			slices.Sort(ref)
			if got != ref[0] {
				t.Fatalf("step %d: Dequeue() = %d, want %d", i, got, ref[0])
			}
			ref = ref[1:]
			continue
		}
		v := r.Intn(500)
		h.Add(v)
		ref = append(ref, v)
	}
	if h.Len() != len(ref) {
		t.Errorf("Len() = %d, want %d", h.Len(), len(ref))
	}
}

func TestPeekAndMerge(t *testing.T) {
	a := New(strings.Compare)
	a.Push("pear", "apple")
	b := New(strings.Compare)
	b.Push("banana", "aardvark")

	if v, _ := a.Peek(); v != "apple" {
		t.Errorf("Peek() = %q, want apple", v)
	}
	a.Merge(b)
	if b.Len() != 0 {
		t.Errorf("merged heap should be empty, Len() = %d", b.Len())
	}
	got := a.Drain()
	want := []string{"aardvark", "apple", "banana", "pear"}
	if !slices.Equal(got, want) {
		t.Errorf("Drain() = %v, want %v", got, want)
	}
}

func BenchmarkHeap(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	values := make([]int, 1024)
	for i := range values {
		values[i] = r.Int()
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h := New(cmp.Compare[int])
		h.Push(values...)
		for h.Len() > 0 {
			h.Dequeue()
		}
	}
}
