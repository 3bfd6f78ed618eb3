package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// Decode parses a WAV or MP3 clip into planar samples at its native rate.
func Decode(data []byte) (*Buffer, error) {
	if len(data) >= 12 && string(data[0:4]) == "RIFF" {
		return decodeWAV(data)
	}
	if looksLikeMP3(data) {
		return decodeMP3(data)
	}
	return nil, fmt.Errorf("%w: unrecognized container", ErrDecode)
}

func looksLikeMP3(data []byte) bool {
	if len(data) >= 3 && string(data[0:3]) == "ID3" {
		return true
	}
	// MPEG audio frame sync: eleven set bits.
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

type mp3Stream interface {
	io.Reader
	SampleRate() int
}

// newMP3Decoder is replaced in tests.
var newMP3Decoder = func(r io.Reader) (mp3Stream, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// decodeMP3 always yields two channels; go-mp3 upmixes mono streams.
// go-mp3 panics on some corrupt frames, so panics are reported as ErrDecode.
func decodeMP3(data []byte) (buf *Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: corrupt mp3 stream: %v", ErrDecode, r)
		}
	}()

	dec, err := newMP3Decoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(pcm) < 4 {
		return nil, fmt.Errorf("%w: empty mp3 stream", ErrDecode)
	}

	frames := len(pcm) / 4
	buf = NewBuffer(dec.SampleRate(), 2, frames)
	for i := 0; i < frames; i++ {
		buf.Channels[0][i] = fromPCM16(int16(binary.LittleEndian.Uint16(pcm[i*4:])))
		buf.Channels[1][i] = fromPCM16(int16(binary.LittleEndian.Uint16(pcm[i*4+2:])))
	}
	return buf, nil
}
