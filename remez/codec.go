package remez

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/tuneinsight/minimax/utils/bignum"
	"github.com/tuneinsight/minimax/utils/buffer"
)

// codecVersion is the first byte of an encoded Result.
const codecVersion = uint8(2)

// encoder accumulates the number of bytes written and the first error.
type encoder struct {
	w   buffer.Writer
	n   int64
	err error
}

func (e *encoder) write(f func(w buffer.Writer) (int64, error)) {
	if e.err != nil {
		return
	}
	var inc int64
	inc, e.err = f(e.w)
	e.n += inc
}

func (e *encoder) writeUint8(c uint8) {
	e.write(func(w buffer.Writer) (int64, error) { return buffer.WriteUint8(w, c) })
}

func (e *encoder) writeInt(c int) {
	e.write(func(w buffer.Writer) (int64, error) { return buffer.WriteInt(w, c) })
}

func (e *encoder) writeFloat64(c float64) {
	e.write(func(w buffer.Writer) (int64, error) { return buffer.WriteUint64(w, math.Float64bits(c)) })
}

func (e *encoder) writeBigFloat(c *big.Float) {
	e.write(func(w buffer.Writer) (int64, error) { return buffer.WriteBigFloat(w, c) })
}

func (e *encoder) writeBigFloats(c []*big.Float) {
	e.write(func(w buffer.Writer) (int64, error) { return buffer.WriteBigFloatSlice(w, c) })
}

// decoder accumulates the number of bytes read and the first error.
type decoder struct {
	r   buffer.Reader
	n   int64
	err error
}

func (d *decoder) readUint8() (c uint8) {
	if d.err != nil {
		return
	}
	var inc int
	inc, d.err = buffer.ReadUint8(d.r, &c)
	d.n += int64(inc)
	return
}

func (d *decoder) readInt() (c int) {
	if d.err != nil {
		return
	}
	var inc int
	inc, d.err = buffer.ReadInt(d.r, &c)
	d.n += int64(inc)
	return
}

func (d *decoder) readFloat64() float64 {
	if d.err != nil {
		return 0
	}
	var c uint64
	var inc int
	inc, d.err = buffer.ReadUint64(d.r, &c)
	d.n += int64(inc)
	return math.Float64frombits(c)
}

func (d *decoder) readBigFloat() (c *big.Float) {
	if d.err != nil {
		return
	}
	var inc int
	c, inc, d.err = buffer.ReadBigFloat(d.r)
	d.n += int64(inc)
	return
}

func (d *decoder) readBigFloats() (c []*big.Float) {
	if d.err != nil {
		return
	}
	var inc int
	c, inc, d.err = buffer.ReadBigFloatSlice(d.r)
	d.n += int64(inc)
	return
}

// WriteTo writes the result on w.
func (res *Result) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		e := &encoder{w: w}

		e.writeUint8(codecVersion)
		e.writeInt(res.NumDegree)
		e.writeInt(res.DenDegree)
		e.writeInt(int(res.Prec))
		e.writeBigFloat(res.Interval.A)
		e.writeBigFloat(res.Interval.B)
		e.writeBigFloats(res.Numerator)
		e.writeBigFloats(res.Denominator)
		e.writeBigFloat(res.Error)
		e.writeBigFloat(res.MaxErr)
		e.writeBigFloat(res.MinErr)
		e.writeBigFloats(res.Nodes)
		e.writeBigFloats(res.NodeErrors)
		e.writeInt(res.Iterations)
		e.writeInt(res.InnerIterations)

		if res.Converged {
			e.writeUint8(1)
		} else {
			e.writeUint8(0)
		}

		e.writeUint8(uint8(res.Stop))

		e.writeInt(len(res.History))
		for _, s := range res.History {
			e.writeInt(s.Iteration)
			e.writeFloat64(s.MaxErr)
			e.writeFloat64(s.MinErr)
			e.writeFloat64(s.Levelling)
			e.writeFloat64(s.Error)
			e.writeInt(s.InnerIterations)
			e.writeInt(s.Peaks)
			e.writeUint8(uint8(s.Stop))
		}

		if e.err != nil {
			return e.n, fmt.Errorf("cannot WriteTo: %w", e.err)
		}

		return e.n, w.Flush()

	default:
		return res.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads a result written by WriteTo from r.
func (res *Result) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		d := &decoder{r: r}

		if version := d.readUint8(); d.err == nil && version != codecVersion {
			return d.n, fmt.Errorf("cannot ReadFrom: unsupported version %d", version)
		}

		res.NumDegree = d.readInt()
		res.DenDegree = d.readInt()
		res.Prec = uint(d.readInt())
		res.Interval = bignum.Interval{A: d.readBigFloat(), B: d.readBigFloat()}
		res.Numerator = d.readBigFloats()
		res.Denominator = d.readBigFloats()
		res.Error = d.readBigFloat()
		res.MaxErr = d.readBigFloat()
		res.MinErr = d.readBigFloat()
		res.Nodes = d.readBigFloats()
		res.NodeErrors = d.readBigFloats()
		res.Iterations = d.readInt()
		res.InnerIterations = d.readInt()
		res.Converged = d.readUint8() == 1
		res.Stop = Criterion(d.readUint8())

		size := d.readInt()
		if d.err == nil && (size < 0 || size > 1<<20) {
			return d.n, fmt.Errorf("cannot ReadFrom: invalid history length %d", size)
		}

		res.History = nil
		if size > 0 {
			res.History = make([]IterationStats, size)
		}

		for i := range res.History {
			res.History[i] = IterationStats{
				Iteration:       d.readInt(),
				MaxErr:          d.readFloat64(),
				MinErr:          d.readFloat64(),
				Levelling:       d.readFloat64(),
				Error:           d.readFloat64(),
				InnerIterations: d.readInt(),
				Peaks:           d.readInt(),
				Stop:            Criterion(d.readUint8()),
			}
		}

		res.system = nil

		if d.err != nil {
			return d.n, fmt.Errorf("cannot ReadFrom: %w", d.err)
		}

		if len(res.Denominator) != res.DenDegree+1 || len(res.Numerator) != res.NumDegree+1 {
			return d.n, fmt.Errorf("cannot ReadFrom: coefficient count does not match degrees %d/%d", res.NumDegree, res.DenDegree)
		}

		return d.n, nil

	default:
		return res.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the result on a slice of bytes.
func (res *Result) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(1 << 10)
	if _, err = res.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary on the result.
func (res *Result) UnmarshalBinary(p []byte) (err error) {
	_, err = res.ReadFrom(buffer.NewBuffer(p))
	return
}
