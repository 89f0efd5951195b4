package sck

import "testing"

func TestSampleBufferVideoSample(t *testing.T) {
	m := newMockShim()
	m.install(t)

	pb := m.newPixelBuffer(64, 64, 256, PixelFormatBGRA)
	h := m.newSample(&mockSample{
		image:       pb,
		pts:         MediaTime{Value: 3000, Timescale: 600, Flags: mediaTimeFlagValid},
		duration:    MediaTime{Value: 10, Timescale: 600, Flags: mediaTimeFlagValid},
		frameStatus: int32(FrameStatusComplete),
		displayTime: 123456789,
		hasDisplay:  true,
		scale:       2.0,
		hasScale:    true,
		rect:        Rect{X: 0, Y: 0, Width: 64, Height: 64},
		hasRect:     true,
		numSamples:  1,
	})

	sample, err := SampleBufferFromRaw(h)
	if err != nil {
		t.Fatalf("SampleBufferFromRaw: %v", err)
	}
	defer sample.Close()

	img := sample.ImageBuffer()
	if img == nil {
		t.Fatal("ImageBuffer returned nil for a video sample")
	}
	defer img.Close()
	if got := m.pixbuf(t, pb).refs; got != 2 {
		t.Errorf("pixel buffer refs = %d, want 2 (borrowed pointer must be retained)", got)
	}

	pts := sample.PTS()
	if !pts.IsValid() {
		t.Error("PTS should be valid")
	}
	if got := pts.Seconds(); got != 5.0 {
		t.Errorf("PTS seconds = %v, want 5", got)
	}
	if d := sample.Duration(); d.Value != 10 {
		t.Errorf("Duration value = %d, want 10", d.Value)
	}

	status, ok := sample.FrameStatus()
	if !ok || status != FrameStatusComplete {
		t.Errorf("FrameStatus = %v/%t, want Complete/true", status, ok)
	}
	if dt, ok := sample.DisplayTime(); !ok || dt != 123456789 {
		t.Errorf("DisplayTime = %d/%t, want 123456789/true", dt, ok)
	}
	if sf, ok := sample.ScaleFactor(); !ok || sf != 2.0 {
		t.Errorf("ScaleFactor = %v/%t, want 2/true", sf, ok)
	}
	if r, ok := sample.ContentRect(); !ok || r.Width != 64 {
		t.Errorf("ContentRect = %+v/%t, want width 64/true", r, ok)
	}
	if n := sample.NumSamples(); n != 1 {
		t.Errorf("NumSamples = %d, want 1", n)
	}
	if !sample.IsValid() {
		t.Error("IsValid should be true")
	}
}

func TestSampleBufferAudioSampleAttachments(t *testing.T) {
	m := newMockShim()
	m.install(t)

	h := m.newSample(&mockSample{frameStatus: -1})
	sample, err := SampleBufferFromRaw(h)
	if err != nil {
		t.Fatalf("SampleBufferFromRaw: %v", err)
	}
	defer sample.Close()

	if sample.ImageBuffer() != nil {
		t.Error("ImageBuffer on an audio sample should be nil")
	}
	if _, ok := sample.FrameStatus(); ok {
		t.Error("FrameStatus should be absent on an audio sample")
	}
	if _, ok := sample.DisplayTime(); ok {
		t.Error("DisplayTime should be absent")
	}
	if _, ok := sample.ScaleFactor(); ok {
		t.Error("ScaleFactor should be absent")
	}
	if _, ok := sample.ContentRect(); ok {
		t.Error("ContentRect should be absent")
	}
}

func TestSampleBufferCloneClose(t *testing.T) {
	m := newMockShim()
	m.install(t)

	h := m.newSample(&mockSample{})
	sample, err := SampleBufferFromRaw(h)
	if err != nil {
		t.Fatalf("SampleBufferFromRaw: %v", err)
	}

	clone := sample.Clone()
	if got := m.samples[h].refs; got != 2 {
		t.Fatalf("refs after Clone = %d, want 2", got)
	}
	sample.Close()
	sample.Close()
	if got := m.samples[h].refs; got != 1 {
		t.Fatalf("refs after Close = %d, want 1", got)
	}
	clone.Close()
	if got := m.samples[h].refs; got != 0 {
		t.Errorf("refs after clone Close = %d, want 0", got)
	}
}
