package directive

import (
	"fmt"
	"strconv"
)

// Snapshot output formats.
var snapshotFormats = []string{"jpg", "png"}

// Snapshot auto-rotation modes.
var snapshotRotations = []string{"auto", "w", "h"}

// Snapshot captures a single frame from a video.
//
// Pointer fields distinguish "not set" from an explicit zero: t_0 is a
// snapshot at the first millisecond and w_0/h_0 ask the service to
// derive the dimension from the source aspect ratio.
type Snapshot struct {
	// TimeMS is the capture timestamp in milliseconds.
	TimeMS *int64

	// Width and Height are the snapshot dimensions in pixels; zero
	// derives the value from the source aspect ratio.
	Width  *int
	Height *int

	// Mode selects frame selection: empty captures the exact
	// timestamp, "fast" the nearest preceding keyframe.
	Mode string

	// Format is the output image format, jpg (default) or png.
	Format string

	// AutoRotate rotates the result from video metadata: "auto",
	// "w" (force landscape) or "h" (force portrait).
	AutoRotate string
}

// Name implements Action.
func (Snapshot) Name() string { return "snapshot" }

// Params implements Action.
func (s Snapshot) Params() ([]string, error) {
	var params []string
	if s.TimeMS != nil {
		if *s.TimeMS < 0 {
			return nil, invalidParam("snapshot", "t", fmt.Sprintf("must be non-negative, got %d", *s.TimeMS))
		}
		params = append(params, "t_"+strconv.FormatInt(*s.TimeMS, 10))
	}
	for _, d := range []struct {
		key string
		val *int
	}{
		{"w", s.Width},
		{"h", s.Height},
	} {
		if d.val == nil {
			continue
		}
		if *d.val < 0 {
			return nil, invalidParam("snapshot", d.key, fmt.Sprintf("must be non-negative, got %d", *d.val))
		}
		params = append(params, d.key+"_"+strconv.Itoa(*d.val))
	}
	if s.Mode != "" {
		if s.Mode != "fast" {
			return nil, invalidParam("snapshot", "m", fmt.Sprintf("unsupported mode %q", s.Mode))
		}
		params = append(params, "m_"+s.Mode)
	}
	if s.Format != "" {
		if !inSet(s.Format, snapshotFormats) {
			return nil, invalidParam("snapshot", "f", fmt.Sprintf("unsupported format %q", s.Format))
		}
		params = append(params, "f_"+s.Format)
	}
	if s.AutoRotate != "" {
		if !inSet(s.AutoRotate, snapshotRotations) {
			return nil, invalidParam("snapshot", "ar", fmt.Sprintf("unsupported rotation %q", s.AutoRotate))
		}
		params = append(params, "ar_"+s.AutoRotate)
	}
	return params, nil
}
