package sck

import "testing"

func TestAudioBufferList(t *testing.T) {
	m := newMockShim()
	m.install(t)

	block := m.newBlock()
	left := []byte{1, 2, 3, 4}
	right := []byte{5, 6, 7, 8}
	h := m.newSample(&mockSample{
		audio:      []mockAudioChunk{{channels: 1, data: left}, {channels: 1, data: right}},
		audioBlock: block,
	})

	sample, err := SampleBufferFromRaw(h)
	if err != nil {
		t.Fatalf("SampleBufferFromRaw: %v", err)
	}
	defer sample.Close()

	list, err := sample.AudioBufferList()
	if err != nil {
		t.Fatalf("AudioBufferList: %v", err)
	}
	if list == nil {
		t.Fatal("AudioBufferList returned nil for an audio sample")
	}

	if got := list.Len(); got != 2 {
		t.Fatalf("Len = %d, want 2", got)
	}
	b0, ok := list.Get(0)
	if !ok {
		t.Fatal("Get(0) not ok")
	}
	if b0.Channels() != 1 || b0.ByteSize() != 4 {
		t.Errorf("buffer 0 = %d channels / %d bytes, want 1/4", b0.Channels(), b0.ByteSize())
	}
	if got := b0.Data(); len(got) != 4 || got[0] != 1 {
		t.Errorf("buffer 0 data = %v, want %v", got, left)
	}
	if _, ok := list.Get(2); ok {
		t.Error("Get(2) should not be ok")
	}
	if _, ok := list.Get(-1); ok {
		t.Error("Get(-1) should not be ok")
	}

	// Iteration is restartable.
	for pass := 0; pass < 2; pass++ {
		total := 0
		for _, b := range list.Buffers() {
			total += b.ByteSize()
		}
		if total != 8 {
			t.Errorf("pass %d: total bytes = %d, want 8", pass, total)
		}
	}

	if err := list.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := list.Close(); err != nil { // second close is a no-op
		t.Fatalf("second Close: %v", err)
	}

	if len(m.audioLists) != 0 {
		t.Error("descriptor array not freed exactly once")
	}
	if !m.blocks[block].freed {
		t.Error("block buffer not released")
	}
	if m.blocks[block].refs != 0 {
		t.Errorf("block refs = %d, want 0", m.blocks[block].refs)
	}
	if list.Len() != 0 {
		t.Error("Len after Close should be 0")
	}
}

func TestAudioBufferEmptyData(t *testing.T) {
	m := newMockShim()
	m.install(t)

	block := m.newBlock()
	h := m.newSample(&mockSample{
		audio:      []mockAudioChunk{{channels: 2, data: nil}},
		audioBlock: block,
	})

	sample, err := SampleBufferFromRaw(h)
	if err != nil {
		t.Fatalf("SampleBufferFromRaw: %v", err)
	}
	defer sample.Close()

	list, err := sample.AudioBufferList()
	if err != nil {
		t.Fatalf("AudioBufferList: %v", err)
	}
	defer list.Close()

	b, ok := list.Get(0)
	if !ok {
		t.Fatal("Get(0) not ok")
	}
	// A descriptor with no data yields an empty slice, not a crash.
	if got := b.Data(); got == nil || len(got) != 0 {
		t.Errorf("Data = %v, want empty slice", got)
	}
	if b.Channels() != 2 {
		t.Errorf("Channels = %d, want 2", b.Channels())
	}
}

func TestAudioBufferListAbsent(t *testing.T) {
	m := newMockShim()
	m.install(t)

	h := m.newSample(&mockSample{frameStatus: 0})
	sample, err := SampleBufferFromRaw(h)
	if err != nil {
		t.Fatalf("SampleBufferFromRaw: %v", err)
	}
	defer sample.Close()

	list, err := sample.AudioBufferList()
	if err != nil {
		t.Fatalf("AudioBufferList: %v", err)
	}
	if list != nil {
		t.Fatal("AudioBufferList on a video-only sample should be nil")
	}
}
