package sck

import "testing"

func TestSurfaceLockGuard(t *testing.T) {
	m := newMockShim()
	m.install(t)

	h := m.newSurface(16, 16, 64, PixelFormatBGRA)
	ms := m.surfs[h]
	for i := range ms.data {
		ms.data[i] = byte(i)
	}

	surf, err := SurfaceFromRaw(h)
	if err != nil {
		t.Fatalf("SurfaceFromRaw: %v", err)
	}
	defer surf.Close()

	opts := SurfaceLockReadOnly | SurfaceLockAvoidSync
	g, err := surf.Lock(opts)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	if got := len(g.Bytes()); got != 16*64 {
		t.Errorf("Bytes length = %d, want %d", got, 16*64)
	}
	if g.Bytes()[1] != ms.data[1] {
		t.Error("Bytes does not view the surface memory")
	}
	if g.MutableBytes() != nil {
		t.Error("MutableBytes on a read-only lock should be nil")
	}

	g.Unlock()
	g.Unlock()

	if len(ms.unlocks) != 1 {
		t.Fatalf("unlock calls = %d, want 1", len(ms.unlocks))
	}
	if ms.unlocks[0] != uint32(opts) {
		t.Errorf("unlock options = %#x, want %#x", ms.unlocks[0], opts)
	}
}

func TestSurfaceInUse(t *testing.T) {
	m := newMockShim()
	m.install(t)

	h := m.newSurface(8, 8, 32, PixelFormatBGRA)
	surf, err := SurfaceFromRaw(h)
	if err != nil {
		t.Fatalf("SurfaceFromRaw: %v", err)
	}
	defer surf.Close()

	if surf.InUse() {
		t.Error("InUse should be false initially")
	}
	m.surfs[h].inUse = true
	if !surf.InUse() {
		t.Error("InUse should reflect the native state")
	}
}
