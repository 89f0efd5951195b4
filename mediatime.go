package sck

import "fmt"

// MediaTime is a rational timestamp as reported by the native engine.
type MediaTime struct {
	Value     int64
	Timescale int32
	Flags     uint32
	Epoch     int64
}

const mediaTimeFlagValid = 1 << 0

// IsValid reports whether the timestamp carries a meaningful value.
func (t MediaTime) IsValid() bool {
	return t.Flags&mediaTimeFlagValid != 0 && t.Timescale != 0
}

// Seconds converts the timestamp to seconds. Returns 0 for invalid
// timestamps.
func (t MediaTime) Seconds() float64 {
	if !t.IsValid() {
		return 0
	}
	return float64(t.Value) / float64(t.Timescale)
}

func (t MediaTime) String() string {
	if !t.IsValid() {
		return "invalid"
	}
	return fmt.Sprintf("%d/%d", t.Value, t.Timescale)
}

// FrameStatus describes the state of a delivered video frame.
type FrameStatus int32

const (
	FrameStatusComplete  FrameStatus = 0 // new content, process it
	FrameStatusIdle      FrameStatus = 1 // no changes since last frame
	FrameStatusBlank     FrameStatus = 2 // frame is blank
	FrameStatusSuspended FrameStatus = 3 // capture suspended
	FrameStatusStarted   FrameStatus = 4 // first frame after start
	FrameStatusStopped   FrameStatus = 5 // capture stopped
)

func (s FrameStatus) String() string {
	switch s {
	case FrameStatusComplete:
		return "Complete"
	case FrameStatusIdle:
		return "Idle"
	case FrameStatusBlank:
		return "Blank"
	case FrameStatusSuspended:
		return "Suspended"
	case FrameStatusStarted:
		return "Started"
	case FrameStatusStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Rect is a rectangle in points, as attached to delivered frames.
type Rect struct {
	X, Y          float64
	Width, Height float64
}
