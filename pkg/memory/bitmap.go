package memory

import "github.com/apache/arrow-go/v18/arrow/bitutil"

// Bitmap is a growable, LSB-ordered sequence of bits compatible with Arrow
// validity and boolean buffers. The zero value is an empty bitmap ready for
// use.
type Bitmap struct {
	data []byte // len(data) is the capacity in bytes.
	len  int    // Number of bits.
}

// NewBitmap returns a Bitmap with room for at least n bits.
func NewBitmap(n int) Bitmap {
	var bmap Bitmap
	bmap.Grow(n)
	return bmap
}

// Len returns the number of bits in the bitmap.
func (b *Bitmap) Len() int { return b.len }

// Grow ensures there is room for n more bits.
func (b *Bitmap) Grow(n int) {
	need := int(bitutil.BytesForBits(int64(b.len + n)))
	if need <= len(b.data) {
		return
	}
	data := make([]byte, max(need, 2*len(b.data)))
	copy(data, b.data)
	b.data = data
}

// Resize changes the length of the bitmap to n. New bits are unset.
func (b *Bitmap) Resize(n int) {
	if n > b.len {
		b.Grow(n - b.len)
		bitutil.SetBitsTo(b.data, int64(b.len), int64(n-b.len), false)
	}
	b.len = n
}

// Append appends a single bit.
func (b *Bitmap) Append(value bool) {
	b.Grow(1)
	bitutil.SetBitTo(b.data, b.len, value)
	b.len++
}

// AppendCount appends value n times.
func (b *Bitmap) AppendCount(value bool, n int) {
	if n <= 0 {
		return
	}
	b.Grow(n)
	bitutil.SetBitsTo(b.data, int64(b.len), int64(n), value)
	b.len += n
}

// AppendBits appends n bits from src starting at bit offset.
func (b *Bitmap) AppendBits(src []byte, offset, n int) {
	if n <= 0 {
		return
	}
	b.Grow(n)
	bitutil.CopyBitmap(src, offset, n, b.data, b.len)
	b.len += n
}

// SetCount returns the number of set bits.
func (b *Bitmap) SetCount() int {
	if b.len == 0 {
		return 0
	}
	return bitutil.CountSetBits(b.data, 0, b.len)
}

// Bytes returns the bytes backing the bitmap, trimmed to Len bits.
func (b *Bitmap) Bytes() []byte {
	return b.data[:bitutil.BytesForBits(int64(b.len))]
}
