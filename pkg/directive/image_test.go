package directive

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatParams(t *testing.T) {
	for _, f := range []string{"jpg", "png", "webp", "bmp", "gif", "tiff", "heic"} {
		t.Run(f, func(t *testing.T) {
			params, err := Format{Target: f}.Params()
			require.NoError(t, err)
			assert.Equal(t, []string{f}, params)
		})
	}

	_, err := Format{Target: "svg"}.Params()
	assert.ErrorIs(t, err, ErrInvalidParam)

	_, err = Format{}.Params()
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestResizeParams(t *testing.T) {
	tests := []struct {
		name    string
		resize  Resize
		want    []string
		wantErr string
	}{
		{
			name:   "dimensions with mode",
			resize: Resize{Mode: "lfit", Width: 100, Height: 200},
			want:   []string{"m_lfit", "w_100", "h_200"},
		},
		{
			name:   "long short limit",
			resize: Resize{Long: 800, Short: 600, Limit: intPtr(1)},
			want:   []string{"l_800", "s_600", "limit_1"},
		},
		{
			name:   "explicit limit zero survives",
			resize: Resize{Width: 50, Limit: intPtr(0)},
			want:   []string{"w_50", "limit_0"},
		},
		{
			name:   "pad with color",
			resize: Resize{Mode: "pad", Width: 100, Color: "FF0000"},
			want:   []string{"m_pad", "w_100", "color_FF0000"},
		},
		{
			name:   "percent wins over dimensions",
			resize: Resize{Percent: 50, Mode: "lfit", Width: 100},
			want:   []string{"p_50"},
		},
		{
			name:   "no params",
			resize: Resize{},
			want:   nil,
		},
		{
			name:    "percent out of range",
			resize:  Resize{Percent: 1001},
			wantErr: "p",
		},
		{
			name:    "bad mode",
			resize:  Resize{Mode: "stretch"},
			wantErr: "m",
		},
		{
			name:    "negative width",
			resize:  Resize{Width: -1},
			wantErr: "w",
		},
		{
			name:    "limit out of range",
			resize:  Resize{Width: 10, Limit: intPtr(2)},
			wantErr: "limit",
		},
		{
			name:    "bad color",
			resize:  Resize{Color: "red"},
			wantErr: "color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := tt.resize.Params()
			if tt.wantErr != "" {
				require.ErrorIs(t, err, ErrInvalidParam)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, params)
		})
	}
}

func TestWatermarkParams_Text(t *testing.T) {
	w := Watermark{
		Text:    "Confidential",
		Color:   "FF0000",
		Size:    60,
		Gravity: "center",
		Rotate:  intPtr(45),
	}
	params, err := w.Params()
	require.NoError(t, err)

	// Encoded value segments lead, plain parameters follow in
	// canonical order.
	assert.Equal(t, []string{
		"text_Q29uZmlkZW50aWFs",
		"g_center",
		"rotate_45",
		"color_FF0000",
		"size_60",
	}, params)
}

func TestWatermarkParams_Image(t *testing.T) {
	w := Watermark{
		Image:   "logo.png",
		Gravity: "nw",
		Scale:   30,
	}
	params, err := w.Params()
	require.NoError(t, err)
	assert.Equal(t, []string{"image_bG9nby5wbmc", "g_nw", "P_30"}, params)
}

func TestWatermarkParams_ImageWithPreprocess(t *testing.T) {
	w := Watermark{
		Image:        "watermark.png",
		ImageProcess: "image/resize,p_30",
	}
	params, err := w.Params()
	require.NoError(t, err)
	// The nested process URI rides inside the encoded value.
	assert.Equal(t, []string{"image_d2F0ZXJtYXJrLnBuZz94LXRvcy1wcm9jZXNzPWltYWdlL3Jlc2l6ZSxwXzMw"}, params)
}

func TestWatermarkParams_Mixed(t *testing.T) {
	w := Watermark{
		Image:    "logo.png",
		Text:     "hello",
		FontType: "wqy-zenhei",
		Order:    intPtr(1),
		Align:    intPtr(2),
		Interval: intPtr(20),
	}
	params, err := w.Params()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"image_bG9nby5wbmc",
		"text_aGVsbG8",
		"type_d3F5LXplbmhlaQ",
		"order_1",
		"align_2",
		"interval_20",
	}, params)
}

func TestWatermarkParams_UnicodeText(t *testing.T) {
	params, err := Watermark{Text: "秘密"}.Params()
	require.NoError(t, err)
	assert.Equal(t, []string{"text_56eY5a-G"}, params)
}

func TestWatermarkParams_Margins(t *testing.T) {
	w := Watermark{
		Text:         "hello",
		Transparency: intPtr(80),
		X:            intPtr(0),
		Y:            intPtr(4096),
		VOffset:      intPtr(-100),
	}
	params, err := w.Params()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"text_aGVsbG8",
		"t_80",
		"x_0",
		"y_4096",
		"voffset_-100",
	}, params)
}

func TestWatermarkParams_Errors(t *testing.T) {
	tests := []struct {
		name string
		w    Watermark
	}{
		{"neither image nor text", Watermark{Gravity: "se"}},
		{"text too long", Watermark{Text: strings.Repeat("a", 65)}},
		{"bad font", Watermark{Text: "a", FontType: "comic-sans"}},
		{"bad gravity", Watermark{Text: "a", Gravity: "up"}},
		{"transparency out of range", Watermark{Text: "a", Transparency: intPtr(101)}},
		{"x out of range", Watermark{Text: "a", X: intPtr(4097)}},
		{"voffset out of range", Watermark{Text: "a", VOffset: intPtr(-1001)}},
		{"rotate out of range", Watermark{Text: "a", Rotate: intPtr(361)}},
		{"fill out of range", Watermark{Text: "a", Fill: intPtr(2)}},
		{"bad color", Watermark{Text: "a", Color: "red"}},
		{"size out of range", Watermark{Text: "a", Size: 1001}},
		{"shadow out of range", Watermark{Text: "a", Shadow: intPtr(-1)}},
		{"scale out of range", Watermark{Image: "logo.png", Scale: 1001}},
		{"order out of range", Watermark{Text: "a", Order: intPtr(2)}},
		{"align out of range", Watermark{Text: "a", Align: intPtr(3)}},
		{"interval out of range", Watermark{Text: "a", Interval: intPtr(1001)}},
		{"bad nested preprocess", Watermark{Image: "logo.png", ImageProcess: "resize,p_30"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.w.Params()
			assert.ErrorIs(t, err, ErrInvalidParam)
		})
	}
}

func TestWatermarkPipeline_Multiple(t *testing.T) {
	p := Image(
		Watermark{Image: "logo.png", ImageProcess: "image/resize,p_30", Gravity: "nw"},
		Watermark{Text: "Confidential", Color: "FF0000", Size: 60, Gravity: "center", Rotate: intPtr(45)},
	)
	got, err := p.Encode()
	require.NoError(t, err)

	want := "image/watermark,image_" + encodeValue("logo.png?x-tos-process=image/resize,p_30") + ",g_nw" +
		"/watermark,text_Q29uZmlkZW50aWFs,g_center,rotate_45,color_FF0000,size_60"
	assert.Equal(t, want, got)
}

func TestBlindWatermarkParams(t *testing.T) {
	tests := []struct {
		name    string
		bw      BlindWatermark
		want    []string
		wantErr bool
	}{
		{
			name: "text only",
			bw:   BlindWatermark{Text: "hello"},
			want: []string{"text_aGVsbG8"},
		},
		{
			name: "full",
			bw:   BlindWatermark{Text: "hello", Version: 2, Level: 3},
			want: []string{"text_aGVsbG8", "version_2", "level_3"},
		},
		{
			name:    "missing text",
			bw:      BlindWatermark{Version: 1},
			wantErr: true,
		},
		{
			name:    "bad version",
			bw:      BlindWatermark{Text: "a", Version: 3},
			wantErr: true,
		},
		{
			name:    "bad level",
			bw:      BlindWatermark{Text: "a", Level: 4},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := tt.bw.Params()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParam)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, params)
		})
	}
}

func TestWatermarkEncodingIsURLSafe(t *testing.T) {
	// Values that would produce + / = in standard base64 must not leak
	// those characters into the directive.
	w := Watermark{Text: "a?b>c~d"}
	params, err := w.Params()
	require.NoError(t, err)
	require.Len(t, params, 1)
	for _, c := range []string{"+", "/", "="} {
		assert.NotContains(t, params[0], c, fmt.Sprintf("encoded value must not contain %q", c))
	}
}
