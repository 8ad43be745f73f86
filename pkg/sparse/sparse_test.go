package sparse

import (
	"os"
	"path/filepath"
	"testing"
)

func threeVectorBatch() *Batch {
	return &Batch{
		Markers: []int{0, 2, 2, 5},
		Indices: []uint32{1, 5, 9, 10, 20},
		Values:  []float32{1, 2, 3, 4, 5},
	}
}

func TestBatchLen(t *testing.T) {
	b := threeVectorBatch()
	if got := b.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
	if got := (&Batch{}).Len(); got != 0 {
		t.Fatalf("Len() on empty batch = %d, want 0", got)
	}
}

func TestBatchFeaturesAndWeights(t *testing.T) {
	b := threeVectorBatch()

	if got := b.Features(0); !equalU32(got, []uint32{1, 5}) {
		t.Fatalf("Features(0) = %v, want [1 5]", got)
	}
	if got := b.Features(1); len(got) != 0 {
		t.Fatalf("Features(1) = %v, want empty (vector 1 is empty)", got)
	}
	if got := b.Features(2); !equalU32(got, []uint32{9, 10, 20}) {
		t.Fatalf("Features(2) = %v, want [9 10 20]", got)
	}
	if got := b.Weights(0); !equalF32(got, []float32{1, 2}) {
		t.Fatalf("Weights(0) = %v, want [1 2]", got)
	}
}

func TestBatchValidate(t *testing.T) {
	b := threeVectorBatch()
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	cases := []*Batch{
		{Markers: nil},
		{Markers: []int{0, 2}, Indices: []uint32{1, 2}, Values: []float32{1}},
		{Markers: []int{1, 2}, Indices: []uint32{1}, Values: []float32{1}},
		{Markers: []int{0, 2, 1}, Indices: []uint32{1, 2}, Values: []float32{1, 2}},
		{Markers: []int{0, 3}, Indices: []uint32{1, 2}, Values: []float32{1, 2}},
	}
	for i, bad := range cases {
		if err := bad.Validate(); err == nil {
			t.Fatalf("case %d: Validate() = nil, want error", i)
		}
	}
}

func TestBatchSlice(t *testing.T) {
	b := threeVectorBatch()
	sub := b.Slice(1, 3)

	if got := sub.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if got := sub.Features(0); len(got) != 0 {
		t.Fatalf("Features(0) on sliced batch = %v, want empty", got)
	}
	if got := sub.Features(1); !equalU32(got, []uint32{9, 10, 20}) {
		t.Fatalf("Features(1) on sliced batch = %v, want [9 10 20]", got)
	}
}

func TestConcat(t *testing.T) {
	a := &Batch{Markers: []int{0, 2}, Indices: []uint32{1, 2}, Values: []float32{1, 1}}
	b := &Batch{Markers: []int{0, 1, 3}, Indices: []uint32{9, 4, 5}, Values: []float32{2, 3, 3}}

	out := Concat(a, b)
	if got := out.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
	if got := out.Features(0); !equalU32(got, []uint32{1, 2}) {
		t.Fatalf("Features(0) = %v, want [1 2]", got)
	}
	if got := out.Features(1); !equalU32(got, []uint32{9}) {
		t.Fatalf("Features(1) = %v, want [9]", got)
	}
	if got := out.Features(2); !equalU32(got, []uint32{4, 5}) {
		t.Fatalf("Features(2) = %v, want [4 5]", got)
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestConcatEmpty(t *testing.T) {
	out := Concat()
	if got := out.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.svm")
	content := "1 1:1.0 5:2.5\n0 9:3.0\n\n1 2:1.5 3:2.0 4:2.5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	b, err := ReadFile(path, 4, 3, 0)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := b.Len(); got != 4 {
		t.Fatalf("Len() = %d, want 4", got)
	}
	if got := b.Features(0); !equalU32(got, []uint32{1, 5}) {
		t.Fatalf("Features(0) = %v, want [1 5]", got)
	}
	if got := b.Weights(0); !equalF32(got, []float32{1.0, 2.5}) {
		t.Fatalf("Weights(0) = %v, want [1.0 2.5]", got)
	}
	if got := b.Features(2); len(got) != 0 {
		t.Fatalf("Features(2) = %v, want empty (blank line)", got)
	}
	if got := b.Features(3); !equalU32(got, []uint32{2, 3, 4}) {
		t.Fatalf("Features(3) = %v, want [2 3 4]", got)
	}
}

func TestReadFileSkip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.svm")
	content := "1 1:1.0\n1 2:2.0\n1 3:3.0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	b, err := ReadFile(path, 2, 1, 1)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := b.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if got := b.Features(0); !equalU32(got, []uint32{2}) {
		t.Fatalf("Features(0) = %v, want [2] (first line skipped)", got)
	}
	if got := b.Features(1); !equalU32(got, []uint32{3}) {
		t.Fatalf("Features(1) = %v, want [3]", got)
	}
}

func TestReadFileRejectsMalformedToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.svm")
	if err := os.WriteFile(path, []byte("1 bad-token\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := ReadFile(path, 1, 1, 0); err == nil {
		t.Fatalf("ReadFile = nil error, want error for malformed token")
	}
}

func equalU32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalF32(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
