package memory_test

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/stretchr/testify/require"

	"github.com/grafana/listops/pkg/memory"
)

// bitsOf returns the bits of bmap as bools.
func bitsOf(bmap *memory.Bitmap) []bool {
	out := make([]bool, bmap.Len())
	for i := range out {
		out[i] = bitutil.BitIsSet(bmap.Bytes(), i)
	}
	return out
}

func TestBitmap_Append(t *testing.T) {
	var bmap memory.Bitmap
	require.Zero(t, bmap.Len())

	// Crosses several byte boundaries, forcing the bitmap to grow.
	var expect []bool
	for i := range 21 {
		value := i%3 == 0
		bmap.Append(value)
		expect = append(expect, value)
	}

	require.Equal(t, 21, bmap.Len())
	require.Equal(t, expect, bitsOf(&bmap))
}

func TestBitmap_AppendCount(t *testing.T) {
	bmap := memory.NewBitmap(4)
	bmap.AppendCount(true, 2)
	bmap.AppendCount(false, 0)
	bmap.AppendCount(false, 3)
	bmap.AppendCount(true, 11)

	require.Equal(t, 16, bmap.Len())
	require.Equal(t, 13, bmap.SetCount())
	require.Equal(t, []bool{true, true, false, false, false}, bitsOf(&bmap)[:5])
}

func TestBitmap_AppendBits(t *testing.T) {
	// 0b1011_0110: bits 1, 2, 4, 5 and 7 are set.
	src := []byte{0xB6}

	var bmap memory.Bitmap
	bmap.Append(true)
	bmap.AppendBits(src, 2, 4)
	bmap.AppendBits(src, 0, 0)

	require.Equal(t, []bool{true, true, false, true, true}, bitsOf(&bmap))
}

func TestBitmap_AppendBits_Unaligned(t *testing.T) {
	src := []byte{0xFF, 0x00, 0xFF}

	var bmap memory.Bitmap
	bmap.AppendCount(false, 3)
	bmap.AppendBits(src, 6, 12) // 2 set, 8 unset, 2 set.

	expect := []bool{false, false, false, true, true, false, false, false, false, false, false, false, false, true, true}
	require.Equal(t, expect, bitsOf(&bmap))
	require.Equal(t, 4, bmap.SetCount())
}

func TestBitmap_Resize(t *testing.T) {
	var bmap memory.Bitmap
	bmap.AppendCount(true, 10)

	// Shrinking and growing again must not resurrect old bits.
	bmap.Resize(2)
	bmap.Resize(10)

	require.Equal(t, 10, bmap.Len())
	require.Equal(t, 2, bmap.SetCount())
}

func TestBitmap_SetCount(t *testing.T) {
	var bmap memory.Bitmap
	require.Zero(t, bmap.SetCount())

	bmap.Append(true)
	bmap.AppendCount(false, 30)
	bmap.AppendCount(true, 3)
	require.Equal(t, 4, bmap.SetCount())
}

func TestBitmap_Bytes(t *testing.T) {
	var bmap memory.Bitmap
	require.Empty(t, bmap.Bytes())

	bmap.AppendCount(true, 9)
	require.Equal(t, []byte{0xFF, 0x01}, bmap.Bytes())
}
