package sparse

import (
	"errors"
	"testing"
)

func TestBackingString(t *testing.T) {
	tests := []struct {
		backing Backing
		want    string
	}{
		{Auto, "Auto"},
		{Heap, "Heap"},
		{Mmap, "Mmap"},
		{Backing(42), "UnknownBacking(42)"},
	}
	for _, tt := range tests {
		if got := tt.backing.String(); got != tt.want {
			t.Errorf("Backing(%d).String() = %q, want %q", tt.backing, got, tt.want)
		}
	}
}

func TestIndex_HeapLoadStore(t *testing.T) {
	x, err := New(100, Heap, DefaultMmapThreshold)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer x.Close()

	if x.Len() != 100 {
		t.Errorf("Len() = %d, want 100", x.Len())
	}
	if x.Backing() != Heap {
		t.Errorf("Backing() = %v, want Heap", x.Backing())
	}

	x.Store(5, 3)
	x.Store(99, 7)
	if got := x.Load(5); got != 3 {
		t.Errorf("Load(5) = %d, want 3", got)
	}
	if got := x.Load(99); got != 7 {
		t.Errorf("Load(99) = %d, want 7", got)
	}
}

func TestIndex_AutoSmallStaysOnHeap(t *testing.T) {
	x, err := New(16, Auto, DefaultMmapThreshold)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if x.Backing() != Heap {
		t.Errorf("small Auto index should use Heap, got %v", x.Backing())
	}
}

func TestIndex_AutoLarge(t *testing.T) {
	x, err := New(1<<20, Auto, DefaultMmapThreshold)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer x.Close()

	want := Heap
	if mmapSupported {
		want = Mmap
	}
	if x.Backing() != want {
		t.Errorf("Backing() = %v, want %v", x.Backing(), want)
	}
}

func TestIndex_Mmap(t *testing.T) {
	x, err := New(1<<24, Mmap, DefaultMmapThreshold)
	if !mmapSupported {
		if !errors.Is(err, ErrMmapUnsupported) {
			t.Fatalf("expected ErrMmapUnsupported, got %v", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Scattered writes only commit the pages they touch.
	for _, i := range []uint32{0, 1 << 12, 1 << 20, 1<<24 - 1} {
		x.Store(i, i/2)
	}
	for _, i := range []uint32{0, 1 << 12, 1 << 20, 1<<24 - 1} {
		if got := x.Load(i); got != i/2 {
			t.Errorf("Load(%d) = %d, want %d", i, got, i/2)
		}
	}

	if err := x.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := x.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	if x.Len() != 0 {
		t.Errorf("Len() after Close = %d, want 0", x.Len())
	}
}

func TestIndex_MemoryUsage(t *testing.T) {
	x, err := New(100, Heap, DefaultMmapThreshold)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := x.MemoryUsage(); got != 100*4 {
		t.Errorf("MemoryUsage() = %d, want %d", got, 100*4)
	}
}

func TestIndex_InvalidLength(t *testing.T) {
	if _, err := New(-1, Heap, DefaultMmapThreshold); err == nil {
		t.Error("New(-1) should fail")
	}
	if _, err := New(10, Backing(9), DefaultMmapThreshold); err == nil {
		t.Error("unknown backing should fail")
	}
}

func BenchmarkIndex_HeapLoad(b *testing.B) {
	x, _ := New(1000, Heap, DefaultMmapThreshold)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := uint32(0); j < 100; j++ {
			_ = x.Load(j)
		}
	}
}

func BenchmarkIndex_New(b *testing.B) {
	for i := 0; i < b.N; i++ {
		x, err := New(1<<22, Auto, DefaultMmapThreshold)
		if err != nil {
			b.Fatal(err)
		}
		x.Store(12345, 1)
		_ = x.Close()
	}
}
