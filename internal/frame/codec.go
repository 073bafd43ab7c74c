package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const (
	codecVersion = 1
	headerSize   = 16
)

var codecMagic = [4]byte{'H', 'U', 'F', 'R'}

// Marshal serializes a frame for a frame store.
//
// Layout (little endian):
//
//	0  magic "HUFR"
//	4  version
//	5  depth
//	6  channels
//	7  reserved
//	8  height uint32
//	12 width uint32
//	16 zstd(payload)
//
// The payload is the raw component buffer; float components are written as
// IEEE-754 bits.
func Marshal(f *Frame) ([]byte, error) {
	if f == nil {
		return nil, ErrEmpty
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.Channels > math.MaxUint8 {
		return nil, fmt.Errorf("%w: %d channels", ErrCorrupt, f.Channels)
	}

	var payload []byte
	switch f.Depth {
	case Depth8U:
		payload = f.Pix
	case Depth32F:
		payload = make([]byte, 4*len(f.Float))
		for i, v := range f.Float {
			binary.LittleEndian.PutUint32(payload[4*i:], math.Float32bits(v))
		}
	}

	comp, err := compressZstd(payload)
	if err != nil {
		return nil, fmt.Errorf("zstd encode: %w", err)
	}

	out := make([]byte, headerSize, headerSize+len(comp))
	copy(out[0:4], codecMagic[:])
	out[4] = codecVersion
	out[5] = byte(f.Depth)
	out[6] = byte(f.Channels)
	binary.LittleEndian.PutUint32(out[8:], uint32(f.Height))
	binary.LittleEndian.PutUint32(out[12:], uint32(f.Width))
	return append(out, comp...), nil
}

// Unmarshal decodes bytes produced by Marshal.
func Unmarshal(data []byte) (*Frame, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: short header", ErrCorrupt)
	}
	if !bytes.Equal(data[0:4], codecMagic[:]) {
		return nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if data[4] != codecVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, data[4])
	}

	f := &Frame{
		Depth:    Depth(data[5]),
		Channels: int(data[6]),
		Height:   int(binary.LittleEndian.Uint32(data[8:])),
		Width:    int(binary.LittleEndian.Uint32(data[12:])),
	}

	payload, err := decompressZstd(data[headerSize:])
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}

	switch f.Depth {
	case Depth8U:
		f.Pix = payload
	case Depth32F:
		if len(payload)%4 != 0 {
			return nil, fmt.Errorf("%w: float payload of %d bytes", ErrCorrupt, len(payload))
		}
		f.Float = make([]float32, len(payload)/4)
		for i := range f.Float {
			f.Float[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[4*i:]))
		}
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// --- ZSTD helpers ---

var zstdEncPool = sync.Pool{
	New: func() any {
		enc, _ := zstd.NewWriter(nil)
		return enc
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		dec, _ := zstd.NewReader(nil)
		return dec
	},
}

func compressZstd(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	enc := zstdEncPool.Get().(*zstd.Encoder)
	defer zstdEncPool.Put(enc)
	return enc.EncodeAll(data, nil), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	dec := zstdDecPool.Get().(*zstd.Decoder)
	defer zstdDecPool.Put(dec)
	return dec.DecodeAll(data, nil)
}
