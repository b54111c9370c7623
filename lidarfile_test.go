package lasgo

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempLAS(t *testing.T, name string) string {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	require.NoError(t, ds.AddPoints([]Row{{X: 1, Y: 2, Z: 3}}, nil))

	var buf bytes.Buffer
	require.NoError(t, WriteLAS(&buf, ds))

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestDetectFormatLAS(t *testing.T) {
	path := writeTempLAS(t, "cloud.las")
	got, err := DetectFormat(path)
	require.NoError(t, err)
	assert.Equal(t, FormatLAS, got)
}

func TestDetectFormatRejectsUnknownExtension(t *testing.T) {
	path := writeTempLAS(t, "cloud.bin")
	_, err := DetectFormat(path)
	require.Error(t, err)
}

func TestDetectFormatRejectsBadMagicDespiteExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.las")
	require.NoError(t, os.WriteFile(path, []byte("NOTALASFILE"), 0o644))
	_, err := DetectFormat(path)
	require.Error(t, err)
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "LAS", FormatLAS.String())
	assert.Equal(t, "LAZ", FormatLAZ.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}

func TestOpenLASReadsDatasetAndClosesCleanly(t *testing.T) {
	path := writeTempLAS(t, "cloud.las")

	f, err := OpenLAS(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, uint64(1), f.PointCount())
	assert.False(t, f.IsCompressed())
	assert.Equal(t, PointFormat0, f.Header().PointFormatID)
	assert.NoError(t, f.Close())
}

func TestOpenLASMissingFile(t *testing.T) {
	_, err := OpenLAS(filepath.Join(t.TempDir(), "missing.las"))
	require.Error(t, err)
}
