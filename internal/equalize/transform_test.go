package equalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformRows_IdentityLeavesRasterUnchanged(t *testing.T) {
	src := randomRaster(t, 13, 9, 42)
	dst := newRasterT(t, src.Width, src.Height)

	identity, err := IdentityTable(DefaultBins)
	require.NoError(t, err)

	require.NoError(t, TransformRows(dst, src, identity, Span{Start: 0, End: src.Height}))
	if diff := cmp.Diff(src, dst); diff != "" {
		t.Errorf("identity transform changed pixels (-want +got):\n%s", diff)
	}
}

func TestTransformRows_RemapsChannelsIndependently(t *testing.T) {
	src := newRasterT(t, 1, 1)
	src.SetRGB(0, 0, 1, 2, 3)
	dst := newRasterT(t, 1, 1)

	table := make(RemapTable, DefaultBins)
	table[1] = 10
	table[2] = 20
	table[3] = 30

	require.NoError(t, TransformRows(dst, src, table, Span{Start: 0, End: 1}))
	r, g, b := dst.RGBAt(0, 0)
	assert.Equal(t, []uint8{10, 20, 30}, []uint8{r, g, b})
}

func TestTransformRows_OnlyWritesSpan(t *testing.T) {
	src := randomRaster(t, 4, 6, 3)
	dst := newRasterT(t, 4, 6)
	for i := range dst.Pix {
		dst.Pix[i] = 7
	}

	table := make(RemapTable, DefaultBins)
	require.NoError(t, TransformRows(dst, src, table, Span{Start: 2, End: 4}))

	for y := 0; y < dst.Height; y++ {
		for _, v := range dst.Row(y) {
			if y >= 2 && y < 4 {
				assert.Zero(t, v, "row %d", y)
			} else {
				assert.Equal(t, uint8(7), v, "row %d", y)
			}
		}
	}
}

func TestTransformRows_ValidationPrecedesWrites(t *testing.T) {
	src := randomRaster(t, 3, 3, 5)
	table := make(RemapTable, DefaultBins)

	tests := []struct {
		name    string
		dst     *Raster
		table   RemapTable
		span    Span
		wantErr error
	}{
		{"end past height", newRasterT(t, 3, 3), table, Span{Start: 1, End: 4}, ErrRowRange},
		{"negative start", newRasterT(t, 3, 3), table, Span{Start: -1, End: 2}, ErrRowRange},
		{"inverted", newRasterT(t, 3, 3), table, Span{Start: 2, End: 1}, ErrRowRange},
		{"dimension mismatch", newRasterT(t, 3, 2), table, Span{Start: 0, End: 2}, ErrDimensionMismatch},
		{"short table", newRasterT(t, 3, 3), RemapTable{0}, Span{Start: 0, End: 3}, ErrTableSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.dst.Clone()
			err := TransformRows(tt.dst, src, tt.table, tt.span)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, before.Equal(tt.dst), "destination was written")
		})
	}
}

func TestTransformSpans_PropagatesWorkerFailure(t *testing.T) {
	src := randomRaster(t, 5, 8, 9)
	dst := newRasterT(t, 5, 8)
	table := make(RemapTable, DefaultBins)

	spans := []Span{{Start: 0, End: 4}, {Start: 4, End: 12}}
	err := transformSpans(dst, src, table, spans)
	assert.ErrorIs(t, err, ErrRowRange)
}
