package buffer

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
)

// maxBytesLength bounds the length prefix accepted by ReadBytes.
const maxBytesLength = 1 << 24

// ReadUint8 reads a byte from r.
func ReadUint8(r Reader, c *uint8) (n int, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint8: c is nil")
	}

	var bb = [1]byte{}

	if n, err = io.ReadFull(r, bb[:]); err != nil {
		return
	}

	*c = bb[0]

	return n, nil
}

// ReadUint64 reads a uint64 from r.
func ReadUint64(r Reader, c *uint64) (n int, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint64: c is nil")
	}

	var bb = [8]byte{}

	if n, err = io.ReadFull(r, bb[:]); err != nil {
		return
	}

	*c = binary.LittleEndian.Uint64(bb[:])

	return n, nil
}

// ReadInt reads an int written by WriteInt.
func ReadInt(r Reader, c *int) (n int, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadInt: c is nil")
	}

	var u uint64
	if n, err = ReadUint64(r, &u); err != nil {
		return
	}

	*c = int(u)

	return
}

// ReadBytes reads a length-prefixed slice of bytes written by WriteBytes.
func ReadBytes(r Reader) (c []byte, n int, err error) {

	var size uint64
	if n, err = ReadUint64(r, &size); err != nil {
		return
	}

	if size > maxBytesLength {
		return nil, n, fmt.Errorf("cannot ReadBytes: length %d exceeds %d", size, maxBytesLength)
	}

	c = make([]byte, size)

	var inc int
	inc, err = io.ReadFull(r, c)

	return c, n + inc, err
}

// ReadBigFloat reads a big.Float written by WriteBigFloat.
func ReadBigFloat(r Reader) (c *big.Float, n int, err error) {

	var data []byte
	if data, n, err = ReadBytes(r); err != nil {
		return
	}

	c = new(big.Float)
	if err = c.GobDecode(data); err != nil {
		return nil, n, fmt.Errorf("cannot ReadBigFloat: %w", err)
	}

	return
}

// ReadBigFloatSlice reads a slice written by WriteBigFloatSlice.
func ReadBigFloatSlice(r Reader) (c []*big.Float, n int, err error) {

	var size uint64
	if n, err = ReadUint64(r, &size); err != nil {
		return
	}

	if size > maxBytesLength {
		return nil, n, fmt.Errorf("cannot ReadBigFloatSlice: length %d exceeds %d", size, maxBytesLength)
	}

	c = make([]*big.Float, size)

	var inc int
	for i := range c {
		if c[i], inc, err = ReadBigFloat(r); err != nil {
			return nil, n + inc, err
		}
		n += inc
	}

	return
}
