package sck

import "testing"

func TestFourCCString(t *testing.T) {
	tests := []struct {
		format FourCC
		want   string
	}{
		{PixelFormatBGRA, "BGRA"},
		{PixelFormat420VideoRange, "420v"},
		{PixelFormat420FullRange, "420f"},
	}
	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("FourCC(%#x).String() = %q, want %q", uint32(tt.format), got, tt.want)
		}
	}
}

func TestFourCCIsPlanar(t *testing.T) {
	if PixelFormatBGRA.IsPlanar() {
		t.Error("BGRA should not be planar")
	}
	if !PixelFormat420VideoRange.IsPlanar() {
		t.Error("420v should be planar")
	}
	if !PixelFormat420FullRange.IsPlanar() {
		t.Error("420f should be planar")
	}
}

func TestPlaneDescriptorValidate(t *testing.T) {
	tests := []struct {
		name    string
		desc    PlaneDescriptor
		total   uint
		wantErr bool
	}{
		{
			name:  "fits exactly",
			desc:  PlaneDescriptor{Height: 4, BytesPerRow: 16, ByteOffset: 0, ByteSize: 64},
			total: 64,
		},
		{
			name:  "fits with offset",
			desc:  PlaneDescriptor{Height: 2, BytesPerRow: 16, ByteOffset: 64, ByteSize: 32},
			total: 96,
		},
		{
			name:    "size smaller than rows",
			desc:    PlaneDescriptor{Height: 4, BytesPerRow: 16, ByteSize: 32},
			total:   96,
			wantErr: true,
		},
		{
			name:    "extends past allocation",
			desc:    PlaneDescriptor{Height: 4, BytesPerRow: 16, ByteOffset: 64, ByteSize: 64},
			total:   96,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate(tt.total)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestMediaTime(t *testing.T) {
	valid := MediaTime{Value: 900, Timescale: 600, Flags: mediaTimeFlagValid}
	if !valid.IsValid() {
		t.Error("timestamp with valid flag should be valid")
	}
	if got := valid.Seconds(); got != 1.5 {
		t.Errorf("Seconds = %v, want 1.5", got)
	}

	invalid := MediaTime{Value: 900, Timescale: 600}
	if invalid.IsValid() {
		t.Error("timestamp without valid flag should be invalid")
	}
	if got := invalid.Seconds(); got != 0 {
		t.Errorf("invalid Seconds = %v, want 0", got)
	}
	if got := invalid.String(); got != "invalid" {
		t.Errorf("invalid String = %q", got)
	}
}
