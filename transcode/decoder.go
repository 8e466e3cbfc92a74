package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-features/logging"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// Format is a supported container/codec
type Format string

const (
	FormatWAV Format = "wav"
	FormatMP3 Format = "mp3"
	FormatOGG Format = "ogg"
)

var (
	// ErrDecodeFailure is returned when an input cannot be decoded
	ErrDecodeFailure = errors.New("audio decode failure")
	// ErrUnsupportedFormat is returned for file types without a decoder
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// DecodeFailureError wraps the underlying codec error with the input it came from
type DecodeFailureError struct {
	Source string
	Format Format
	Err    error
}

func (e *DecodeFailureError) Error() string {
	return fmt.Sprintf("%s: %s (%s): %v", ErrDecodeFailure, e.Source, e.Format, e.Err)
}

func (e *DecodeFailureError) Unwrap() []error { return []error{ErrDecodeFailure, e.Err} }

// AudioData represents decoded audio mixed down to one channel
type AudioData struct {
	PCM        []float64     `json:"-"` // Mono samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`  // Channel count of the source before mixdown
	BitDepth   int           `json:"bit_depth"` // Source bit depth, 0 for float codecs
	Duration   time.Duration `json:"duration"`
	Format     Format        `json:"format"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	MaxDuration time.Duration `json:"max_duration"` // Truncate longer inputs; 0 means no limit
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{MaxDuration: 0}
}

// Decoder decodes WAV, MP3 and Ogg Vorbis in process
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// FormatFromPath picks the decoder from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV, nil
	case ".mp3":
		return FormatMP3, nil
	case ".ogg", ".oga":
		return FormatOGG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// SupportedFormats lists the decodable formats
func SupportedFormats() []Format {
	return []Format{FormatWAV, FormatMP3, FormatOGG}
}

// DecodeFile decodes an audio file and returns mono PCM data
func (d *Decoder) DecodeFile(filename string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeFile",
		"filename":  filename,
	})

	format, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	data, err := d.decode(f, format, filename)
	if err != nil {
		logger.Error(err, "Failed to decode audio file")
		return nil, err
	}

	logger.Debug("Audio file decoded", logging.Fields{
		"format":      string(data.Format),
		"sample_rate": data.SampleRate,
		"channels":    data.Channels,
		"bit_depth":   data.BitDepth,
		"duration":    data.Duration.String(),
	})
	return data, nil
}

// DecodeBytes decodes an in-memory encoded stream
func (d *Decoder) DecodeBytes(data []byte, format Format) (*AudioData, error) {
	if len(data) == 0 {
		return nil, &DecodeFailureError{Source: "bytes", Format: format, Err: errors.New("empty audio data")}
	}
	return d.decode(bytes.NewReader(data), format, "bytes")
}

func (d *Decoder) decode(r io.ReadSeeker, format Format, source string) (*AudioData, error) {
	var (
		data *AudioData
		err  error
	)
	switch format {
	case FormatWAV:
		data, err = decodeWAV(r)
	case FormatMP3:
		data, err = decodeMP3(r)
	case FormatOGG:
		data, err = decodeOGG(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &DecodeFailureError{Source: source, Format: format, Err: err}
	}

	data.Format = format
	d.truncate(data)
	data.Duration = time.Duration(len(data.PCM)) * time.Second / time.Duration(data.SampleRate)
	return data, nil
}

func (d *Decoder) truncate(data *AudioData) {
	if d.config.MaxDuration <= 0 {
		return
	}
	limit := int(d.config.MaxDuration.Seconds() * float64(data.SampleRate))
	if limit < len(data.PCM) {
		data.PCM = data.PCM[:limit]
	}
}

func decodeWAV(r io.ReadSeeker) (*AudioData, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, errors.New("WAV file has no usable format chunk")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("unsupported WAV bit depth %d", bitDepth)
	}

	samples := make([]float64, len(buf.Data))
	if bitDepth == 8 {
		// 8-bit WAV is unsigned
		for i, v := range buf.Data {
			samples[i] = float64(v-128) / 128.0
		}
	} else {
		scale := float64(int64(1) << (bitDepth - 1))
		for i, v := range buf.Data {
			samples[i] = float64(v) / scale
		}
	}

	return &AudioData{
		PCM:        MixDown(samples, buf.Format.NumChannels),
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		BitDepth:   bitDepth,
	}, nil
}

func decodeMP3(r io.Reader) (*AudioData, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to read MP3 frames: %w", err)
	}

	// go-mp3 produces 16-bit little-endian stereo
	const channels = 2
	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		samples[i] = float64(v) / 32768.0
	}

	return &AudioData{
		PCM:        MixDown(samples, channels),
		SampleRate: dec.SampleRate(),
		Channels:   channels,
		BitDepth:   16,
	}, nil
}

func decodeOGG(r io.Reader) (*AudioData, error) {
	raw, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, errors.New("Ogg stream has no usable format")
	}

	samples := make([]float64, len(raw))
	for i, v := range raw {
		samples[i] = float64(v)
	}

	return &AudioData{
		PCM:        MixDown(samples, format.Channels),
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
	}, nil
}

// MixDown averages interleaved frames into one channel. A trailing partial frame is dropped.
func MixDown(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}

	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
