package export

import (
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/mirefly/paperdiary/internal/pkg/errors"
)

func TestParseQuality(t *testing.T) {
	tests := []struct {
		input   string
		want    Quality
		wantErr bool
	}{
		{input: "low", want: QualityLow},
		{input: "medium", want: QualityMedium},
		{input: "high", want: QualityHigh},
		{input: "", want: QualityMedium},
		{input: "ultra", wantErr: true},
		{input: "LOW", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseQuality(tt.input)
		if tt.wantErr {
			require.ErrorIs(t, err, appErr.ErrInvalid, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		require.Equal(t, tt.want, got)
	}
}

func TestQualitySettingsMapping(t *testing.T) {
	low := QualityLow.settings()
	require.Equal(t, 1.0, low.Scale)
	require.Equal(t, "JPEG", low.ImageType)
	require.Equal(t, 0.7, low.EncodeQuality)

	medium := QualityMedium.settings()
	require.Equal(t, 1.5, medium.Scale)
	require.Equal(t, "JPEG", medium.ImageType)
	require.Equal(t, 0.8, medium.EncodeQuality)

	high := QualityHigh.settings()
	require.Equal(t, 2.0, high.Scale)
	require.Equal(t, "PNG", high.ImageType)
	require.Equal(t, 1.0, high.EncodeQuality)
}

func TestFileNameIsDeterministic(t *testing.T) {
	require.Equal(t, "diary-export-2024-01-02-to-2024-01-05.pdf", FileName("2024-01-02", "2024-01-05"))
}
