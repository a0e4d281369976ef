package buffer

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// Write writes a slice of bytes to w.
func Write(w Writer, c []byte) (n int64, err error) {
	nint, err := w.Write(c)
	return int64(nint), err
}

// WriteUint8 writes a byte c to w.
func WriteUint8(w Writer, c uint8) (n int64, err error) {

	if w.Available() == 0 {
		if err = w.Flush(); err != nil {
			return
		}

		if w.Available() == 0 {
			return 0, fmt.Errorf("cannot WriteUint8: available buffer is zero even after flush")
		}
	}

	nint, err := w.Write([]byte{c})

	return int64(nint), err
}

// WriteUint64 writes a uint64 c into w.
func WriteUint64(w Writer, c uint64) (n int64, err error) {

	if w.Available()>>3 == 0 {
		if err = w.Flush(); err != nil {
			return
		}

		if w.Available()>>3 == 0 {
			return 0, fmt.Errorf("cannot WriteUint64: available buffer/8 is zero even after flush")
		}
	}

	buf := w.AvailableBuffer()[:8]

	binary.LittleEndian.PutUint64(buf, c)

	nint, err := w.Write(buf)

	return int64(nint), err
}

// WriteInt writes an int c into w as a uint64.
func WriteInt(w Writer, c int) (n int64, err error) {
	return WriteUint64(w, uint64(c))
}

// WriteBytes writes the length of c followed by c.
func WriteBytes(w Writer, c []byte) (n int64, err error) {

	if n, err = WriteUint64(w, uint64(len(c))); err != nil {
		return
	}

	var inc int64
	inc, err = Write(w, c)

	return n + inc, err
}

// WriteBigFloat writes c with its precision and rounding mode, as encoded by
// big.Float.GobEncode, prefixed by the length of the encoding.
func WriteBigFloat(w Writer, c *big.Float) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot WriteBigFloat: c is nil")
	}

	var data []byte
	if data, err = c.GobEncode(); err != nil {
		return 0, fmt.Errorf("cannot WriteBigFloat: %w", err)
	}

	return WriteBytes(w, data)
}

// WriteBigFloatSlice writes the length of c followed by its elements.
func WriteBigFloatSlice(w Writer, c []*big.Float) (n int64, err error) {

	if n, err = WriteUint64(w, uint64(len(c))); err != nil {
		return
	}

	var inc int64
	for i := range c {
		if inc, err = WriteBigFloat(w, c[i]); err != nil {
			return n + inc, err
		}
		n += inc
	}

	return
}
