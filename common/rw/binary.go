package rw

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// ReaderWriter packs fixed-size little-endian values. Reads record the first
// short-buffer error and return zero values afterwards; check Err when done.
type ReaderWriter struct {
	order   binary.ByteOrder
	dataBuf []byte
	rw      bytes.Buffer
	err     error
}

func NewWriter() *ReaderWriter {
	return &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
}

func NewReader(data []byte) *ReaderWriter {
	d := &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
	d.rw.Write(data)
	return d
}

func (w *ReaderWriter) read(n int) []byte {
	if w.err != nil {
		return nil
	}
	if _, err := io.ReadFull(&w.rw, w.dataBuf[:n]); err != nil {
		w.err = err
		return nil
	}
	return w.dataBuf[:n]
}

func (w *ReaderWriter) ReadUInt8() uint8 {
	b := w.read(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (w *ReaderWriter) ReadUInt16() uint16 {
	b := w.read(2)
	if b == nil {
		return 0
	}
	return w.order.Uint16(b)
}

func (w *ReaderWriter) ReadUInt32() uint32 {
	b := w.read(4)
	if b == nil {
		return 0
	}
	return w.order.Uint32(b)
}

func (w *ReaderWriter) ReadInt32() int32 {
	return int32(w.ReadUInt32())
}

func (w *ReaderWriter) ReadFloat32() float32 {
	return math.Float32frombits(w.ReadUInt32())
}

func (w *ReaderWriter) ReadFloat32s(value []float32) {
	for i := range value {
		value[i] = w.ReadFloat32()
	}
}

func (w *ReaderWriter) WriteUInt8(v uint8) {
	w.rw.WriteByte(v)
}

func (w *ReaderWriter) WriteUInt16(v uint16) {
	w.order.PutUint16(w.dataBuf, v)
	w.rw.Write(w.dataBuf[:2])
}

func (w *ReaderWriter) WriteUInt32(v uint32) {
	w.order.PutUint32(w.dataBuf, v)
	w.rw.Write(w.dataBuf[:4])
}

func (w *ReaderWriter) WriteInt32(v int32) {
	w.WriteUInt32(uint32(v))
}

func (w *ReaderWriter) WriteFloat32(v float32) {
	w.WriteUInt32(math.Float32bits(v))
}

func (w *ReaderWriter) WriteFloat32s(v []float32) {
	for _, f := range v {
		w.WriteFloat32(f)
	}
}

func (w *ReaderWriter) GetWriteBytes() []byte {
	return w.rw.Bytes()
}

// Remaining reports the unread byte count.
func (w *ReaderWriter) Remaining() int {
	return w.rw.Len()
}

func (w *ReaderWriter) Err() error {
	return w.err
}
