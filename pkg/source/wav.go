package source

import (
	"bytes"
	"encoding/binary"
	"math"
)

// DecodedAudio holds mono float64 PCM decoded from a source clip
type DecodedAudio struct {
	Samples    []float64
	SampleRate int
	Channels   int
}

// DecodeWAV decodes a RIFF/WAVE byte buffer into mono float64 PCM in
// [-1, 1]. PCM 16-bit and IEEE float 32-bit formats are supported; that
// covers what the preview providers actually serve once transcoded.
// Multi-channel audio is downmixed by channel averaging.
func DecodeWAV(data []byte) (*DecodedAudio, error) {
	if len(data) < 44 {
		return nil, NewSourceError("", ErrCodeInvalidFormat, "buffer too short for WAV header", nil)
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, NewSourceError("", ErrCodeInvalidFormat, "missing RIFF/WAVE magic", nil)
	}

	var (
		audioFormat   uint16
		channels      uint16
		sampleRate    uint32
		bitsPerSample uint16
		pcmData       []byte
		haveFmt       bool
	)

	// Walk the chunk list; fmt and data can appear in any order and other
	// chunks (LIST, fact) may sit between them.
	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, NewSourceError("", ErrCodeInvalidFormat, "fmt chunk too short", nil)
			}
			audioFormat = binary.LittleEndian.Uint16(data[body : body+2])
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true
		case "data":
			pcmData = data[body : body+chunkSize]
		}

		// Chunks are word-aligned
		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++
		}
	}

	if !haveFmt || pcmData == nil {
		return nil, NewSourceError("", ErrCodeInvalidFormat, "missing fmt or data chunk", nil)
	}
	if channels == 0 || sampleRate == 0 {
		return nil, NewSourceError("", ErrCodeInvalidFormat, "invalid fmt parameters", nil)
	}

	var samples []float64
	switch {
	case audioFormat == 1 && bitsPerSample == 16:
		samples = decodeS16(pcmData, int(channels))
	case audioFormat == 3 && bitsPerSample == 32:
		samples = decodeF32(pcmData, int(channels))
	default:
		return nil, NewSourceError("", ErrCodeDecode,
			"unsupported WAV encoding (want PCM16 or float32)", nil)
	}

	if len(samples) == 0 {
		return nil, NewSourceError("", ErrCodeDecode, "no audio samples decoded", nil)
	}

	return &DecodedAudio{
		Samples:    samples,
		SampleRate: int(sampleRate),
		Channels:   int(channels),
	}, nil
}

func decodeS16(data []byte, channels int) []float64 {
	frameBytes := 2 * channels
	numFrames := len(data) / frameBytes
	samples := make([]float64, 0, numFrames)

	for frame := 0; frame < numFrames; frame++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			offset := frame*frameBytes + ch*2
			raw := int16(binary.LittleEndian.Uint16(data[offset : offset+2]))
			sum += float64(raw) / 32768.0
		}
		samples = append(samples, sum/float64(channels))
	}
	return samples
}

func decodeF32(data []byte, channels int) []float64 {
	frameBytes := 4 * channels
	numFrames := len(data) / frameBytes
	samples := make([]float64, 0, numFrames)

	for frame := 0; frame < numFrames; frame++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			offset := frame*frameBytes + ch*4
			bits := binary.LittleEndian.Uint32(data[offset : offset+4])
			sum += float64(math.Float32frombits(bits))
		}
		samples = append(samples, sum/float64(channels))
	}
	return samples
}
