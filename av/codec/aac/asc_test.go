// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aac

import (
	"errors"
	"testing"

	"github.com/cnotch/latmdemux/utils/bits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioSpecificConfig_DecodeString(t *testing.T) {
	tests := []struct {
		name       string
		config     string
		wantErr    bool
		objectType ObjectType
		sampleRate int
		channels   uint8
		sbr        int
	}{
		{"case1", "121056E500", false, 2, 44100, 2, 0},
		{"case2", "1190", false, 2, 48000, 2, -1},
		{"explicit sbr", "2B920800", false, 2, 22050, 2, 1},
		{"truncated", "12", true, 2, 0, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var asc AudioSpecificConfig
			if err := asc.DecodeString(tt.config); (err != nil) != tt.wantErr {
				t.Errorf("AudioSpecificConfig.DecodeString() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Equal(t, tt.objectType, asc.ObjectType)
			assert.Equal(t, tt.sampleRate, asc.SampleRate)
			assert.Equal(t, tt.channels, asc.Channels)
			assert.Equal(t, tt.sbr, asc.Sbr)
		})
	}
}

func TestGetObjectType_Escape(t *testing.T) {
	w := bits.NewWriter(2)
	w.WriteBits(31, 5)
	w.WriteBits(0x02, 6)
	assert.Equal(t, ObjectType(33), getObjectType(bits.NewReader(w.Bytes())))
}

func TestAudioSpecificConfig_UnsupportedFamilies(t *testing.T) {
	tests := []struct {
		name   string
		ot     ObjectType
		family Family
	}{
		{"celp", AOT_CELP, FamilyCELP},
		{"hvxc", AOT_HVXC, FamilyHVXC},
		{"tts", AOT_TTSI, FamilyTTS},
		{"structured", AOT_WAVESYNTH, FamilyStructured},
		{"er celp", AOT_ER_CELP, FamilyERCELP},
		{"er hvxc", AOT_ER_HVXC, FamilyERHVXC},
		{"parametric", AOT_ER_PARAM, FamilyParametric},
		{"ssc", AOT_SSC, FamilySSC},
		{"mpeg-1/2", AOT_L2, FamilyMPEG12},
		{"dst", AOT_DST, FamilyDST},
		{"reserved", 18, FamilyReserved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := bits.NewWriter(4)
			putObjectType(w, tt.ot)
			w.WriteBits(4, 4) // 44100
			w.WriteBits(2, 4)
			w.WriteBits(0, 16)

			var asc AudioSpecificConfig
			_, err := asc.Parse(bits.NewReader(w.Bytes()), -1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupported))
			var oterr *UnsupportedObjectTypeError
			require.True(t, errors.As(err, &oterr))
			assert.Equal(t, tt.ot, oterr.ObjectType)
			assert.Equal(t, tt.family, tt.ot.Family())
		})
	}
}

func TestAudioSpecificConfig_ParseGA(t *testing.T) {
	w := bits.NewWriter(8)
	w.WriteBits(AOT_AAC_SCALABLE, 5)
	w.WriteBits(0xf, 4)
	w.WriteBits(37800, 24)
	w.WriteBits(1, 4)
	w.WriteBit(1)           // frameLengthFlag
	w.WriteBit(1)           // dependsOnCoreCoder
	w.WriteBits(0x1abc, 14) // coreCoderDelay
	w.WriteBit(0)           // extensionFlag
	w.WriteBits(5, 3)       // layerNr
	w.WriteBits(0x3, 2)     // trailing bits, not part of the config
	data := w.Bytes()

	var asc AudioSpecificConfig
	n, err := asc.Parse(bits.NewReader(data), -1)
	require.NoError(t, err)
	assert.Equal(t, 5+4+24+4+1+1+14+1+3, n)
	assert.Equal(t, ObjectType(AOT_AAC_SCALABLE), asc.ObjectType)
	assert.Equal(t, 37800, asc.SampleRate)
	assert.Equal(t, uint8(1), asc.Channels)
	assert.True(t, asc.GA.FrameLengthFlag)
	assert.Equal(t, uint16(0x1abc), asc.GA.CoreCoderDelay)
	assert.Equal(t, uint8(5), asc.GA.LayerNr)
	assert.Equal(t, SamplesPerShortFrame, asc.SamplesPerFrame())
}

func TestAudioSpecificConfig_ParseErrorResilient(t *testing.T) {
	build := func(epConfig uint64, ext3 bool) []byte {
		w := bits.NewWriter(4)
		w.WriteBits(AOT_ER_AAC_LD, 5)
		w.WriteBits(3, 4)
		w.WriteBits(2, 4)
		w.WriteBit(0) // frameLengthFlag
		w.WriteBit(0) // dependsOnCoreCoder
		w.WriteBit(1) // extensionFlag
		w.WriteBit(1) // aacSectionDataResilienceFlag
		w.WriteBit(0) // aacScalefactorDataResilienceFlag
		w.WriteBit(1) // aacSpectralDataResilienceFlag
		w.WriteBool(ext3)
		w.WriteBits(epConfig, 2)
		return w.Bytes()
	}

	t.Run("epConfig 0", func(t *testing.T) {
		var asc AudioSpecificConfig
		n, err := asc.Parse(bits.NewReader(build(0, false)), -1)
		require.NoError(t, err)
		assert.Equal(t, 22, n)
		assert.True(t, asc.GA.SectionDataResilience)
		assert.False(t, asc.GA.ScalefactorDataResilience)
		assert.True(t, asc.GA.SpectralDataResilience)
	})
	for _, ep := range []uint64{2, 3} {
		var asc AudioSpecificConfig
		_, err := asc.Parse(bits.NewReader(build(ep, false)), -1)
		assert.True(t, errors.Is(err, ErrUnsupported), "epConfig %d", ep)
	}
	t.Run("extensionFlag3", func(t *testing.T) {
		var asc AudioSpecificConfig
		_, err := asc.Parse(bits.NewReader(build(0, true)), -1)
		assert.True(t, errors.Is(err, ErrUnsupported))
	})
}

func TestAudioSpecificConfig_ParsePCE(t *testing.T) {
	w := bits.NewWriter(16)
	w.WriteBits(AOT_AAC_LC, 5)
	w.WriteBits(3, 4)
	w.WriteBits(0, 4) // channelConfig 0: pce follows
	w.WriteBits(0, 3) // GA flags
	// program_config_element
	w.WriteBits(1, 4) // element_instance_tag
	w.WriteBits(1, 2) // object_type
	w.WriteBits(3, 4) // sampling_frequency_index
	w.WriteBits(2, 4) // front
	w.WriteBits(0, 4) // side
	w.WriteBits(1, 4) // back
	w.WriteBits(1, 2) // lfe
	w.WriteBits(0, 3) // assoc
	w.WriteBits(0, 4) // cc
	w.WriteBits(0, 3) // no mixdowns
	w.WriteBits(0, 5) // front 0: sce
	w.WriteBits(1, 1) // front 1: cpe
	w.WriteBits(0, 4)
	w.WriteBits(1, 1) // back 0: cpe
	w.WriteBits(1, 4)
	w.WriteBits(0, 4) // lfe 0
	w.ByteAlign()
	w.WriteBits(2, 8) // comment_field_bytes
	w.WriteBytes([]byte("hi"))

	var asc AudioSpecificConfig
	n, err := asc.Parse(bits.NewReader(w.Bytes()), -1)
	require.NoError(t, err)
	assert.Equal(t, w.Offset(), n)
	require.NotNil(t, asc.GA.PCE)
	assert.Len(t, asc.GA.PCE.Front, 2)
	assert.True(t, asc.GA.PCE.Front[1].IsCPE)
	assert.Equal(t, []byte("hi"), asc.GA.PCE.Comment)
	assert.Equal(t, uint8(6), asc.Channels)
}

func TestAudioSpecificConfig_SyncExtensionNeedsBudget(t *testing.T) {
	var withBudget, withoutBudget AudioSpecificConfig
	data := []byte{0x12, 0x10, 0x56, 0xe5, 0x98}

	_, err := withBudget.Parse(bits.NewReader(data), len(data)*8)
	require.NoError(t, err)
	assert.Equal(t, 1, withBudget.Sbr)
	assert.Equal(t, 3, int(withBudget.ExtSamplingIndex))

	n, err := withoutBudget.Parse(bits.NewReader(data), -1)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, -1, withoutBudget.Sbr)
}

func TestAudioSpecificConfig_Encode(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"lc", "1190"},
		{"explicit sbr", "2b920800"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var asc AudioSpecificConfig
			require.NoError(t, asc.DecodeString(tt.config))
			got, err := asc.EncodeToString()
			require.NoError(t, err)
			assert.Equal(t, tt.config, got)
		})
	}
}

func TestAudioSpecificConfig_ToAdtsHeader(t *testing.T) {
	var asc AudioSpecificConfig
	require.NoError(t, asc.DecodeString("1190"))
	h, err := asc.ToAdtsHeader(100)
	require.NoError(t, err)
	assert.Equal(t, uint8(ProfileLow), h.Profile())
	assert.Equal(t, uint8(SampleRate48000), h.SamplingIndex())
	assert.Equal(t, uint8(ChannelStereo), h.ChannelConfig())
	assert.Equal(t, 107, h.FrameLength())
}
