package directive

import (
	"fmt"
	"regexp"
	"strconv"
)

// Formats accepted by the format action.
var imageFormats = []string{"jpg", "png", "webp", "bmp", "gif", "tiff", "heic"}

// Resize modes accepted by the resize action.
var resizeModes = []string{"lfit", "mfit", "fixed", "fill", "pad"}

// Watermark anchor positions.
var gravities = []string{"nw", "north", "ne", "west", "center", "east", "sw", "south", "se"}

// Fonts available for text watermarks.
var watermarkFonts = []string{
	"wqy-zenhei",
	"wqy-microhei",
	"fangzhengshusong",
	"fangzhengkaiti",
	"fangzhengheiti",
	"fangzhengfangsong",
	"droidsansfallback",
}

var hexColorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Format converts the image to a target format.
type Format struct {
	// Target is the output format (jpg, png, webp, bmp, gif, tiff, heic).
	Target string
}

// Name implements Action.
func (Format) Name() string { return "format" }

// Params implements Action.
func (f Format) Params() ([]string, error) {
	if !inSet(f.Target, imageFormats) {
		return nil, invalidParam("format", "target", fmt.Sprintf("unsupported format %q", f.Target))
	}
	return []string{f.Target}, nil
}

// Resize scales the image.
//
// Percent is exclusive with the dimension parameters: when set, all
// dimension fields are ignored, matching the processing API's
// precedence. Zero-valued dimension fields are treated as unset; Limit
// uses a pointer because 0 ("do scale up") is a meaningful value.
type Resize struct {
	// Mode selects the scaling strategy (lfit, mfit, fixed, fill, pad).
	Mode string

	// Width, Height, Long and Short are target dimensions in pixels.
	Width  int
	Height int
	Long   int
	Short  int

	// Limit controls behavior when the target is larger than the
	// original: 1 keeps the original, 0 scales up.
	Limit *int

	// Percent scales proportionally, range (0, 1000].
	Percent int

	// Color is the fill color for pad mode, as a 6-digit hex code.
	Color string
}

// Name implements Action.
func (Resize) Name() string { return "resize" }

// Params implements Action.
func (r Resize) Params() ([]string, error) {
	if r.Percent != 0 {
		if r.Percent < 0 || r.Percent > 1000 {
			return nil, invalidParam("resize", "p", fmt.Sprintf("must be in (0, 1000], got %d", r.Percent))
		}
		return []string{"p_" + strconv.Itoa(r.Percent)}, nil
	}

	var params []string
	if r.Mode != "" {
		if !inSet(r.Mode, resizeModes) {
			return nil, invalidParam("resize", "m", fmt.Sprintf("unsupported mode %q", r.Mode))
		}
		params = append(params, "m_"+r.Mode)
	}
	for _, d := range []struct {
		key string
		val int
	}{
		{"w", r.Width},
		{"h", r.Height},
		{"l", r.Long},
		{"s", r.Short},
	} {
		if d.val == 0 {
			continue
		}
		if d.val < 0 {
			return nil, invalidParam("resize", d.key, fmt.Sprintf("must be positive, got %d", d.val))
		}
		params = append(params, d.key+"_"+strconv.Itoa(d.val))
	}
	if r.Limit != nil {
		if *r.Limit != 0 && *r.Limit != 1 {
			return nil, invalidParam("resize", "limit", fmt.Sprintf("must be 0 or 1, got %d", *r.Limit))
		}
		params = append(params, "limit_"+strconv.Itoa(*r.Limit))
	}
	if r.Color != "" {
		if !hexColorPattern.MatchString(r.Color) {
			return nil, invalidParam("resize", "color", fmt.Sprintf("must be a 6-digit hex code, got %q", r.Color))
		}
		params = append(params, "color_"+r.Color)
	}
	return params, nil
}

// Watermark overlays an image watermark, a text watermark, or both on
// the base image. Multiple Watermark actions may be chained in one
// pipeline.
//
// Pointer fields distinguish "not set" from an explicit zero, which is
// meaningful for margins, angles and the mixed-layout selectors.
type Watermark struct {
	// Image is the object key of a watermark image in the same bucket.
	Image string

	// ImageProcess is an optional pipeline applied to the watermark
	// image before overlay (e.g. "image/resize,p_30").
	ImageProcess string

	// Text is the plain text content, at most 64 bytes before encoding.
	Text string

	// FontType selects the text font (see watermarkFonts).
	FontType string

	// Color is the text color as a 6-digit hex code.
	Color string

	// Size is the font size in pixels, range (0, 1000].
	Size int

	// Shadow is the text shadow transparency, range [0, 100].
	Shadow *int

	// Rotate is the clockwise rotation angle, range [0, 360].
	Rotate *int

	// Fill tiles the text across the image when 1.
	Fill *int

	// Transparency is the overall opacity, range [0, 100].
	Transparency *int

	// Gravity anchors the watermark (nw, north, ne, west, center,
	// east, sw, south, se).
	Gravity string

	// X and Y are the horizontal and vertical margins, range [0, 4096].
	X *int
	Y *int

	// VOffset shifts watermarks anchored on the middle line, range
	// [-1000, 1000].
	VOffset *int

	// Scale resizes an image watermark relative to the base image,
	// range (0, 1000]. Emitted as the uppercase P parameter.
	Scale int

	// Order, Align and Interval control mixed image+text layout:
	// order 0 puts the image first, align 0/1/2 is top/middle/bottom,
	// interval is the spacing in pixels, range [0, 1000].
	Order    *int
	Align    *int
	Interval *int
}

// Name implements Action.
func (Watermark) Name() string { return "watermark" }

// Params implements Action.
//
// The encoded image/text/type parameters come first, then the plain
// parameters in a fixed canonical order so equivalent watermarks encode
// identically.
func (w Watermark) Params() ([]string, error) {
	if w.Image == "" && w.Text == "" {
		return nil, invalidParam("watermark", "image/text", "at least one of image or text is required")
	}

	var params []string
	if w.Image != "" {
		val := w.Image
		if w.ImageProcess != "" {
			// Nested pre-processing rides inside the encoded value.
			if _, err := Raw(w.ImageProcess); err != nil {
				return nil, err
			}
			val = w.Image + "?x-tos-process=" + w.ImageProcess
		}
		params = append(params, "image_"+encodeValue(val))
	}
	if w.Text != "" {
		if len(w.Text) > 64 {
			return nil, invalidParam("watermark", "text", fmt.Sprintf("must be at most 64 bytes, got %d", len(w.Text)))
		}
		params = append(params, "text_"+encodeValue(w.Text))
	}
	if w.FontType != "" {
		if !inSet(w.FontType, watermarkFonts) {
			return nil, invalidParam("watermark", "type", fmt.Sprintf("unsupported font %q", w.FontType))
		}
		params = append(params, "type_"+encodeValue(w.FontType))
	}

	if err := checkRange("watermark", "t", w.Transparency, 0, 100); err != nil {
		return nil, err
	}
	params = appendIntParam(params, "t", w.Transparency)

	if w.Gravity != "" {
		if !inSet(w.Gravity, gravities) {
			return nil, invalidParam("watermark", "g", fmt.Sprintf("unsupported gravity %q", w.Gravity))
		}
		params = append(params, "g_"+w.Gravity)
	}

	for _, m := range []struct {
		key string
		val *int
		min int
		max int
	}{
		{"x", w.X, 0, 4096},
		{"y", w.Y, 0, 4096},
		{"voffset", w.VOffset, -1000, 1000},
		{"rotate", w.Rotate, 0, 360},
		{"fill", w.Fill, 0, 1},
	} {
		if err := checkRange("watermark", m.key, m.val, m.min, m.max); err != nil {
			return nil, err
		}
		params = appendIntParam(params, m.key, m.val)
	}

	if w.Color != "" {
		if !hexColorPattern.MatchString(w.Color) {
			return nil, invalidParam("watermark", "color", fmt.Sprintf("must be a 6-digit hex code, got %q", w.Color))
		}
		params = append(params, "color_"+w.Color)
	}
	if w.Size != 0 {
		if w.Size < 0 || w.Size > 1000 {
			return nil, invalidParam("watermark", "size", fmt.Sprintf("must be in (0, 1000], got %d", w.Size))
		}
		params = append(params, "size_"+strconv.Itoa(w.Size))
	}
	if err := checkRange("watermark", "shadow", w.Shadow, 0, 100); err != nil {
		return nil, err
	}
	params = appendIntParam(params, "shadow", w.Shadow)

	if w.Scale != 0 {
		if w.Scale < 0 || w.Scale > 1000 {
			return nil, invalidParam("watermark", "P", fmt.Sprintf("must be in (0, 1000], got %d", w.Scale))
		}
		params = append(params, "P_"+strconv.Itoa(w.Scale))
	}

	for _, m := range []struct {
		key string
		val *int
		min int
		max int
	}{
		{"order", w.Order, 0, 1},
		{"align", w.Align, 0, 2},
		{"interval", w.Interval, 0, 1000},
	} {
		if err := checkRange("watermark", m.key, m.val, m.min, m.max); err != nil {
			return nil, err
		}
		params = appendIntParam(params, m.key, m.val)
	}

	return params, nil
}

// BlindWatermark embeds an invisible text watermark.
type BlindWatermark struct {
	// Text is the watermark content; encoded internally, callers pass
	// the plain string.
	Text string

	// Version is the algorithm version, 1 or 2. Zero uses the service
	// default.
	Version int

	// Level is the embedding strength, 1 to 3. Zero uses the service
	// default.
	Level int
}

// Name implements Action.
func (BlindWatermark) Name() string { return "blindwatermark" }

// Params implements Action.
func (b BlindWatermark) Params() ([]string, error) {
	if b.Text == "" {
		return nil, invalidParam("blindwatermark", "text", "text is required")
	}
	params := []string{"text_" + encodeValue(b.Text)}
	if b.Version != 0 {
		if b.Version < 1 || b.Version > 2 {
			return nil, invalidParam("blindwatermark", "version", fmt.Sprintf("must be 1 or 2, got %d", b.Version))
		}
		params = append(params, "version_"+strconv.Itoa(b.Version))
	}
	if b.Level != 0 {
		if b.Level < 1 || b.Level > 3 {
			return nil, invalidParam("blindwatermark", "level", fmt.Sprintf("must be in [1, 3], got %d", b.Level))
		}
		params = append(params, "level_"+strconv.Itoa(b.Level))
	}
	return params, nil
}

// checkRange validates an optional int parameter against [min, max].
func checkRange(action, param string, v *int, min, max int) error {
	if v == nil {
		return nil
	}
	if *v < min || *v > max {
		return invalidParam(action, param, fmt.Sprintf("must be in [%d, %d], got %d", min, max, *v))
	}
	return nil
}

// appendIntParam appends "key_value" when the optional value is set.
func appendIntParam(params []string, key string, v *int) []string {
	if v == nil {
		return params
	}
	return append(params, key+"_"+strconv.Itoa(*v))
}
