package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotParams(t *testing.T) {
	tests := []struct {
		name    string
		snap    Snapshot
		want    []string
		wantErr string
	}{
		{
			name: "full",
			snap: Snapshot{
				TimeMS:     int64Ptr(5000),
				Width:      intPtr(640),
				Height:     intPtr(360),
				Mode:       "fast",
				Format:     "png",
				AutoRotate: "auto",
			},
			want: []string{"t_5000", "w_640", "h_360", "m_fast", "f_png", "ar_auto"},
		},
		{
			name: "zero time and auto dimensions survive",
			snap: Snapshot{TimeMS: int64Ptr(0), Width: intPtr(0)},
			want: []string{"t_0", "w_0"},
		},
		{
			name: "bare snapshot",
			snap: Snapshot{},
			want: nil,
		},
		{
			name:    "negative time",
			snap:    Snapshot{TimeMS: int64Ptr(-1)},
			wantErr: "t",
		},
		{
			name:    "negative height",
			snap:    Snapshot{Height: intPtr(-10)},
			wantErr: "h",
		},
		{
			name:    "bad mode",
			snap:    Snapshot{Mode: "slow"},
			wantErr: "m",
		},
		{
			name:    "bad format",
			snap:    Snapshot{Format: "gif"},
			wantErr: "f",
		},
		{
			name:    "bad rotation",
			snap:    Snapshot{AutoRotate: "flip"},
			wantErr: "ar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := tt.snap.Params()
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

func TestSnapshotPipeline(t *testing.T) {
	got, err := Video(Snapshot{TimeMS: int64Ptr(1000), Format: "jpg"}).Encode()
	require.NoError(t, err)
	assert.Equal(t, "video/snapshot,t_1000,f_jpg", got)
}
