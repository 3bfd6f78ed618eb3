package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	wavHeaderSize  = 44
	formatPCM      = 1
	formatFloat    = 3
	formatExtended = 0xFFFE
)

// ContentTypeWAV is the media type written by EncodeWAV.
const ContentTypeWAV = "audio/wav"

// EncodeWAV writes buf as a canonical 44-byte-header RIFF/WAVE file with
// interleaved 16-bit little-endian PCM.
func EncodeWAV(buf *Buffer) []byte {
	channels := buf.NumChannels()
	frames := buf.Length()
	dataSize := frames * channels * 2

	out := make([]byte, wavHeaderSize+dataSize)
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], formatPCM)
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(buf.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(buf.SampleRate*channels*2))
	binary.LittleEndian.PutUint16(out[32:34], uint16(channels*2))
	binary.LittleEndian.PutUint16(out[34:36], 16)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))

	off := wavHeaderSize
	for i := 0; i < frames; i++ {
		for _, ch := range buf.Channels {
			binary.LittleEndian.PutUint16(out[off:], uint16(toPCM16(ch[i])))
			off += 2
		}
	}
	return out
}

func toPCM16(v float32) int16 {
	s := clamp(float64(v), -1, 1)
	if s < 0 {
		return int16(math.Round(s * 0x8000))
	}
	return int16(math.Round(s * 0x7fff))
}

type wavFormat struct {
	tag           uint16
	channels      int
	sampleRate    int
	bitsPerSample int
}

// decodeWAV walks RIFF chunks until both fmt and data are found.
func decodeWAV(data []byte) (*Buffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrDecode)
	}

	r := bytes.NewReader(data[12:])
	var format *wavFormat
	for {
		var hdr struct {
			ID   [4]byte
			Size uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
			return nil, fmt.Errorf("%w: missing data chunk", ErrDecode)
		}
		if int64(hdr.Size) > int64(r.Len()) {
			return nil, fmt.Errorf("%w: truncated %q chunk", ErrDecode, hdr.ID[:])
		}
		body := make([]byte, hdr.Size)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("%w: truncated %q chunk", ErrDecode, hdr.ID[:])
		}
		if hdr.Size%2 == 1 {
			_, _ = r.ReadByte()
		}

		switch string(hdr.ID[:]) {
		case "fmt ":
			f, err := parseFormat(body)
			if err != nil {
				return nil, err
			}
			format = f
		case "data":
			if format == nil {
				return nil, fmt.Errorf("%w: data chunk before fmt", ErrDecode)
			}
			return decodeSamples(format, body)
		}
	}
}

func parseFormat(body []byte) (*wavFormat, error) {
	if len(body) < 16 {
		return nil, fmt.Errorf("%w: short fmt chunk", ErrDecode)
	}
	f := &wavFormat{
		tag:           binary.LittleEndian.Uint16(body[0:2]),
		channels:      int(binary.LittleEndian.Uint16(body[2:4])),
		sampleRate:    int(binary.LittleEndian.Uint32(body[4:8])),
		bitsPerSample: int(binary.LittleEndian.Uint16(body[14:16])),
	}
	if f.tag == formatExtended && len(body) >= 26 {
		f.tag = binary.LittleEndian.Uint16(body[24:26])
	}
	if f.channels <= 0 || f.sampleRate <= 0 {
		return nil, fmt.Errorf("%w: invalid fmt chunk", ErrDecode)
	}
	switch {
	case f.tag == formatPCM && (f.bitsPerSample == 8 || f.bitsPerSample == 16 || f.bitsPerSample == 24 || f.bitsPerSample == 32):
	case f.tag == formatFloat && f.bitsPerSample == 32:
	default:
		return nil, fmt.Errorf("%w: unsupported format %d/%d-bit", ErrDecode, f.tag, f.bitsPerSample)
	}
	return f, nil
}

func decodeSamples(f *wavFormat, body []byte) (*Buffer, error) {
	width := f.bitsPerSample / 8
	frames := len(body) / (width * f.channels)
	buf := NewBuffer(f.sampleRate, f.channels, frames)

	off := 0
	for i := 0; i < frames; i++ {
		for c := 0; c < f.channels; c++ {
			buf.Channels[c][i] = sampleAt(f, body[off:off+width])
			off += width
		}
	}
	return buf, nil
}

func sampleAt(f *wavFormat, b []byte) float32 {
	switch {
	case f.tag == formatFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case f.bitsPerSample == 8:
		return (float32(b[0]) - 128) / 128
	case f.bitsPerSample == 16:
		return fromPCM16(int16(binary.LittleEndian.Uint16(b)))
	case f.bitsPerSample == 24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
		return float32(v) / (1 << 23)
	default:
		return float32(int32(binary.LittleEndian.Uint32(b))) / (1 << 31)
	}
}

func fromPCM16(v int16) float32 {
	if v < 0 {
		return float32(v) / 32768
	}
	return float32(v) / 32767
}
