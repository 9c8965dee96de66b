// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewADTSHeader(t *testing.T) {
	tests := []struct {
		name          string
		profile       byte
		sampleRateIdx byte
		channelConfig byte
		payloadSize   int
	}{
		{"case1", 1, 4, 2, 200},
		{"case1", 2, 3, 4, 5345},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewADTSHeader(tt.profile, tt.sampleRateIdx, tt.channelConfig, tt.payloadSize)
			assert.Equal(t, tt.profile, got.Profile())
			assert.Equal(t, tt.sampleRateIdx, got.SamplingIndex())
			assert.Equal(t, tt.channelConfig, got.ChannelConfig())
			assert.Equal(t, tt.payloadSize, got.PayloadSize())
		})
	}
}

func TestADTSHeader_ToAsc(t *testing.T) {
	tests := []struct {
		name          string
		profile       byte
		sampleRateIdx byte
		channelConfig byte
		payloadSize   int
	}{
		{"case1", 1, 4, 2, 200},
		{"case1", 2, 3, 4, 5345},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewADTSHeader(tt.profile, tt.sampleRateIdx, tt.channelConfig, tt.payloadSize)
			config := got.ToAsc()
			var asc AudioSpecificConfig
			require.NoError(t, asc.Decode(config))

			assert.Equal(t, tt.profile, uint8(asc.ObjectType-1))
			assert.Equal(t, tt.sampleRateIdx, asc.SamplingIndex)
			assert.Equal(t, tt.channelConfig, asc.ChannelConfig)
		})
	}
}

func TestADTSHeader_SetPayloadSize(t *testing.T) {
	h := NewADTSHeader(ProfileLow, SampleRate44100, ChannelStereo, 0)
	assert.Equal(t, ADTSHeader{0xff, 0xf1, 0x50, 0x80, 0x00, 0xff, 0xfc}, h)

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"small", 1, false},
		{"low bits", 0x7ff, false},
		{"max", MaxADTSFrameLength - ADTSHeaderSize, false},
		{"too large", MaxADTSFrameLength - ADTSHeaderSize + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewADTSHeader(ProfileLow, SampleRate48000, ChannelStereo, 10)
			err := h.SetPayloadSize(tt.size)
			if tt.wantErr {
				assert.Equal(t, ErrADTSFrameTooLarge, err)
				assert.Equal(t, 10, h.PayloadSize())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size, h.PayloadSize())
			assert.Equal(t, uint8(ProfileLow), h.Profile())
			assert.Equal(t, uint8(SampleRate48000), h.SamplingIndex())
			assert.Equal(t, uint8(ChannelStereo), h.ChannelConfig())
			// buffer fullness 0x7ff, one raw data block
			assert.Equal(t, uint8(0x1f), h[5]&0x1f)
			assert.Equal(t, uint8(0xfc), h[6])
		})
	}
}

func TestParseADTSHeader(t *testing.T) {
	h := NewADTSHeader(ProfileLow, SampleRate44100, ChannelStereo, 300)
	got, err := ParseADTSHeader(append(h[:], 0x21))
	require.NoError(t, err)
	assert.Equal(t, h, got)

	_, err = ParseADTSHeader([]byte{0xff, 0xf1, 0x50})
	assert.Error(t, err)
	_, err = ParseADTSHeader([]byte{0x47, 0xfc, 0x00, 0x00, 0xb0, 0x90, 0x80})
	assert.Error(t, err)
}
