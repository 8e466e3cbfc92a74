package extraction

import (
	"fmt"
	"time"
)

// SampleBuffer is one decoded audio signal, already mixed down to a single channel.
// Samples are normalized to [-1, 1]. A SampleBuffer is not modified after creation.
type SampleBuffer struct {
	Samples      []float64 `json:"-"`
	ChannelCount int       `json:"channel_count"`
	SampleRate   float64   `json:"sample_rate"`
	BitDepth     int       `json:"bit_depth"`
}

// NewSampleBuffer validates and wraps mono samples
func NewSampleBuffer(samples []float64, channelCount int, sampleRate float64, bitDepth int) (*SampleBuffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %v", sampleRate)
	}
	if channelCount <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channelCount)
	}
	return &SampleBuffer{
		Samples:      samples,
		ChannelCount: channelCount,
		SampleRate:   sampleRate,
		BitDepth:     bitDepth,
	}, nil
}

// Len is the number of samples
func (b *SampleBuffer) Len() int {
	return len(b.Samples)
}

// Duration of the signal
func (b *SampleBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / b.SampleRate * float64(time.Second))
}
