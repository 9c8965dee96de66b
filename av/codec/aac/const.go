// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aac

import (
	"fmt"
	"sort"
)

const (
	// SamplesPerFrame 每帧采样数
	SamplesPerFrame = 1024
	// SamplesPerShortFrame 每帧采样数（frameLengthFlag = 1）
	SamplesPerShortFrame = 960
)

// Auido Object Type
const (
	AOT_NULL            = iota     ///< Support?                Name
	AOT_AAC_MAIN                   ///< Y                       Main
	AOT_AAC_LC                     ///< Y                       Low Complexity
	AOT_AAC_SSR                    ///< N (code in SoC repo)    Scalable Sample Rate
	AOT_AAC_LTP                    ///< Y                       Long Term Prediction
	AOT_SBR                        ///< Y                       Spectral Band Replication HE-AAC
	AOT_AAC_SCALABLE               ///< N                       Scalable
	AOT_TWINVQ                     ///< N                       Twin Vector Quantizer
	AOT_CELP                       ///< N                       Code Excited Linear Prediction
	AOT_HVXC                       ///< N                       Harmonic Vector eXcitation Coding
	AOT_TTSI            = 2 + iota ///< N(code = 12)            Text-To-Speech Interface
	AOT_MAINSYNTH                  ///< N                       Main Synthesis
	AOT_WAVESYNTH                  ///< N                       Wavetable Synthesis
	AOT_MIDI                       ///< N                       General MIDI
	AOT_SAFX                       ///< N                       Algorithmic Synthesis and Audio Effects
	AOT_ER_AAC_LC                  ///< N                       Error Resilient Low Complexity
	AOT_ER_AAC_LTP      = 3 + iota ///< N(code = 19)            Error Resilient Long Term Prediction
	AOT_ER_AAC_SCALABLE            ///< N                       Error Resilient Scalable
	AOT_ER_TWINVQ                  ///< N                       Error Resilient Twin Vector Quantizer
	AOT_ER_BSAC                    ///< N                       Error Resilient Bit-Sliced Arithmetic Coding
	AOT_ER_AAC_LD                  ///< N                       Error Resilient Low Delay
	AOT_ER_CELP                    ///< N                       Error Resilient Code Excited Linear Prediction
	AOT_ER_HVXC                    ///< N                       Error Resilient Harmonic Vector eXcitation Coding
	AOT_ER_HILN                    ///< N                       Error Resilient Harmonic and Individual Lines plus Noise
	AOT_ER_PARAM                   ///< N                       Error Resilient Parametric
	AOT_SSC                        ///< N                       SinuSoidal Coding
	AOT_PS                         ///< N                       Parametric Stereo
	AOT_SURROUND                   ///< N                       MPEG Surround
	AOT_ESCAPE                     ///< Y                       Escape Value
	AOT_L1                         ///< Y                       Layer 1
	AOT_L2                         ///< Y                       Layer 2
	AOT_L3                         ///< Y                       Layer 3
	AOT_DST                        ///< N                       Direct Stream Transfer
	AOT_ALS                        ///< Y                       Audio LosslesS
	AOT_SLS                        ///< N                       Scalable LosslesS
	AOT_SLS_NON_CORE               ///< N                       Scalable LosslesS (non core)
	AOT_ER_AAC_ELD                 ///< N                       Error Resilient Enhanced Low Delay
	AOT_SMR_SIMPLE                 ///< N                       Symbolic Music Representation Simple
	AOT_SMR_MAIN                   ///< N                       Symbolic Music Representation Main
	AOT_USAC_NOSBR                 ///< N                       Unified Speech and Audio Coding (no SBR)
	AOT_SAOC                       ///< N                       Spatial Audio Object Coding
	AOT_LD_SURROUND                ///< N                       Low Delay MPEG Surround
	AOT_USAC                       ///< N                       Unified Speech and Audio Coding
)

// ObjectType is an audio object type code in the range 0-63.
type ObjectType uint8

// Family groups object types by the decoder specific config they carry.
type Family int

// Object type families
const (
	FamilyReserved      Family = iota // reserved or unassigned codes
	FamilyGeneralAudio                // GASpecificConfig: AAC Main/LC/SSR/LTP/Scalable/TwinVQ and ER variants
	FamilySBR                         // explicit SBR/PS signaling wrapper
	FamilyCELP                        // CelpSpecificConfig
	FamilyHVXC                        // HvxcSpecificConfig
	FamilyTTS                         // TTSSpecificConfig
	FamilyStructured                  // StructuredAudioSpecificConfig
	FamilyERCELP                      // ErrorResilientCelpSpecificConfig
	FamilyERHVXC                      // ErrorResilientHvxcSpecificConfig
	FamilyParametric                  // ParametricSpecificConfig
	FamilySSC                         // SSCSpecificConfig
	FamilyMPEG12                      // MPEG_1_2_SpecificConfig
	FamilyDST                         // DSTSpecificConfig
)

var familyNames = [...]string{
	FamilyReserved:     "reserved",
	FamilyGeneralAudio: "general audio",
	FamilySBR:          "sbr",
	FamilyCELP:         "celp",
	FamilyHVXC:         "hvxc",
	FamilyTTS:          "tts",
	FamilyStructured:   "structured audio",
	FamilyERCELP:       "er celp",
	FamilyERHVXC:       "er hvxc",
	FamilyParametric:   "parametric",
	FamilySSC:          "ssc",
	FamilyMPEG12:       "mpeg-1/2",
	FamilyDST:          "dst",
}

// String returns the family name.
func (f Family) String() string {
	if f >= 0 && int(f) < len(familyNames) {
		return familyNames[f]
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// Family returns the family the object type belongs to.
func (ot ObjectType) Family() Family {
	switch ot {
	case AOT_AAC_MAIN, AOT_AAC_LC, AOT_AAC_SSR, AOT_AAC_LTP, AOT_AAC_SCALABLE, AOT_TWINVQ,
		AOT_ER_AAC_LC, AOT_ER_AAC_LTP, AOT_ER_AAC_SCALABLE, AOT_ER_TWINVQ, AOT_ER_BSAC, AOT_ER_AAC_LD:
		return FamilyGeneralAudio
	case AOT_SBR, AOT_PS:
		return FamilySBR
	case AOT_CELP:
		return FamilyCELP
	case AOT_HVXC:
		return FamilyHVXC
	case AOT_TTSI:
		return FamilyTTS
	case AOT_MAINSYNTH, AOT_WAVESYNTH, AOT_MIDI, AOT_SAFX:
		return FamilyStructured
	case AOT_ER_CELP:
		return FamilyERCELP
	case AOT_ER_HVXC:
		return FamilyERHVXC
	case AOT_ER_HILN, AOT_ER_PARAM:
		return FamilyParametric
	case AOT_SSC:
		return FamilySSC
	case AOT_L1, AOT_L2, AOT_L3:
		return FamilyMPEG12
	case AOT_DST:
		return FamilyDST
	default:
		return FamilyReserved
	}
}

// ErrorResilient reports whether the object type carries an epConfig field.
func (ot ObjectType) ErrorResilient() bool {
	return ot >= AOT_ER_AAC_LC && ot <= AOT_ER_PARAM && ot != 18
}

// Profile returns the two-bit ADTS profile for the object type.
func (ot ObjectType) Profile() uint8 {
	if ot == AOT_NULL {
		return ProfileLow
	}
	return uint8(ot-1) & 0x3
}

func (ot ObjectType) String() string {
	if name, ok := objectTypeNames[ot]; ok {
		return name
	}
	return fmt.Sprintf("AOT(%d)", uint8(ot))
}

var objectTypeNames = map[ObjectType]string{
	AOT_NULL:            "NULL",
	AOT_AAC_MAIN:        "AAC Main",
	AOT_AAC_LC:          "AAC LC",
	AOT_AAC_SSR:         "AAC SSR",
	AOT_AAC_LTP:         "AAC LTP",
	AOT_SBR:             "SBR",
	AOT_AAC_SCALABLE:    "AAC Scalable",
	AOT_TWINVQ:          "TwinVQ",
	AOT_CELP:            "CELP",
	AOT_HVXC:            "HVXC",
	AOT_TTSI:            "TTSI",
	AOT_MAINSYNTH:       "Main Synthesis",
	AOT_WAVESYNTH:       "Wavetable Synthesis",
	AOT_MIDI:            "General MIDI",
	AOT_SAFX:            "SAFX",
	AOT_ER_AAC_LC:       "ER AAC LC",
	AOT_ER_AAC_LTP:      "ER AAC LTP",
	AOT_ER_AAC_SCALABLE: "ER AAC Scalable",
	AOT_ER_TWINVQ:       "ER TwinVQ",
	AOT_ER_BSAC:         "ER BSAC",
	AOT_ER_AAC_LD:       "ER AAC LD",
	AOT_ER_CELP:         "ER CELP",
	AOT_ER_HVXC:         "ER HVXC",
	AOT_ER_HILN:         "ER HILN",
	AOT_ER_PARAM:        "ER Parametric",
	AOT_SSC:             "SSC",
	AOT_PS:              "PS",
	AOT_SURROUND:        "MPEG Surround",
	AOT_L1:              "Layer-1",
	AOT_L2:              "Layer-2",
	AOT_L3:              "Layer-3",
	AOT_DST:             "DST",
	AOT_ALS:             "ALS",
}

// AAC Profile 表示使用哪个级别的 AAC。
// 如 01 Low Complexity(LC) – AAC LC
const (
	ProfileMain = AOT_AAC_MAIN - 1
	ProfileLow  = AOT_AAC_LC - 1
	ProfileSSR  = AOT_AAC_SSR - 1
	ProfileLTP  = AOT_AAC_LTP - 1
	ProfileHE   = AOT_SBR - 1
	ProfileLD   = AOT_ER_AAC_LD - 1
	ProfileHE2  = AOT_PS - 1
	ProfileELD  = AOT_ER_AAC_ELD - 1
)

// AAC 采样频率
const (
	SampleRate96000 = iota // 0
	SampleRate88200        // 1
	SampleRate64000        // 2
	SampleRate48000        // 3
	SampleRate44100        // 4
	SampleRate32000        // 5
	SampleRate24000        // 6
	SampleRate22050        // 7
	SampleRate16000        // 8
	SampleRate12000        // 9
	SampleRate11025        // 10
	SampleRate8000         // 11
	SampleRate7350         // 12
)

// SampleRate 获取采用频率具体值，保留索引返回 0
func SampleRate(index int) int {
	if index < 0 || index >= len(SampleRates) {
		return 0
	}
	return SampleRates[index]
}

// SamplingIndex .
func SamplingIndex(rate int) int {
	i := sort.Search(len(SampleRates), func(i int) bool { return SampleRates[i] <= rate })
	if i < len(SampleRates) && SampleRates[i] == rate {
		return i
	}
	return -1
}

// SampleRates 采用频率集合
var SampleRates = [16]int{
	96000, 88200, 64000, 48000,
	44100, 32000, 24000, 22050,
	16000, 12000, 11025, 8000,
	7350}

// ACC ChannelConfig 声道配置
// 0x00 - defined in audioDecderSpecificConfig
// 0x01 单声道（center front speaker）
// 0x02 双声道（left, right front speakers）
// 0x03 三声道（center, left, right front speakers）
// 0x04 四声道（center, left, right front speakers, rear surround speakers）
// 0x05 五声道（center, left, right front speakers, left surround, right surround rear speakers）
// 0x06 5.1声道（center, left, right front speakers, left surround, right surround rear speakers, front low frequency effects speaker)
// 0x07 7.1声道（center, left, right center front speakers, left, right outside front speakers, left surround, right surround rear speakers, front low frequency effects speaker)
// 0x08-0x0F - reserved
const (
	ChannelSpecific     = iota // 0
	ChannelMono                // 1
	ChannelStereo              // 2
	ChannelThree               // 3
	ChannelFour                // 4
	ChannelFive                // 5
	ChannelFivePlusOne         // 6
	ChannelSevenPlusOne        // 7
	ChannelReserved            // 8
)

var aacAudioChannels = [8]uint8{
	0, 1, 2, 3,
	4, 5, 6, 8,
}

// Channels 声道配置对应的声道数，0 表示由 PCE 给出
func Channels(channelConfig uint8) uint8 {
	if int(channelConfig) < len(aacAudioChannels) {
		return aacAudioChannels[channelConfig]
	}
	return 0
}
