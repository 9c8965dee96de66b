// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
//
// Translate from FFmpeg mpeg4audio.h mpeg4audio.c
//
package aac

import (
	"encoding/hex"

	"github.com/cnotch/latmdemux/utils/bits"
)

const (
	syncExtensionSBR = 0x2b7
	syncExtensionPS  = 0x548
)

// GASpecificConfig General Audio 对象类型的解码配置
type GASpecificConfig struct {
	FrameLengthFlag           bool           `json:"frame_length_flag"`
	DependsOnCoreCoder        bool           `json:"depends_on_core_coder"`
	CoreCoderDelay            uint16         `json:"core_coder_delay,omitempty"`
	ExtensionFlag             bool           `json:"extension_flag"`
	PCE                       *ProgramConfig `json:"pce,omitempty"`
	LayerNr                   uint8          `json:"layer_nr,omitempty"`
	NumOfSubFrame             uint8          `json:"num_of_sub_frame,omitempty"`
	LayerLength               uint16         `json:"layer_length,omitempty"`
	SectionDataResilience     bool           `json:"section_data_resilience,omitempty"`
	ScalefactorDataResilience bool           `json:"scalefactor_data_resilience,omitempty"`
	SpectralDataResilience    bool           `json:"spectral_data_resilience,omitempty"`
}

// AudioSpecificConfig .
type AudioSpecificConfig struct {
	ObjectType       ObjectType       `json:"object_type"`
	SamplingIndex    uint8            `json:"sampling_index"`
	SampleRate       int              `json:"sample_rate"`
	ChannelConfig    uint8            `json:"channel_config"`
	Channels         uint8            `json:"channels"`
	Sbr              int              `json:"sbr"` ///< -1 implicit, 1 presence
	Ps               int              `json:"ps"`  ///< -1 implicit, 1 presence
	ExtObjectType    ObjectType       `json:"ext_object_type"`
	ExtSamplingIndex uint8            `json:"ext_sampling_index"`
	ExtSampleRate    int              `json:"ext_sample_rate"`
	ExtChannelConfig uint8            `json:"ext_channel_config,omitempty"`
	GA               GASpecificConfig `json:"ga"`
	EpConfig         uint8            `json:"ep_config"`
}

// DecodeString 从 hex 字串解码 sps
func (asc *AudioSpecificConfig) DecodeString(config string) error {
	data, err := hex.DecodeString(config)
	if err != nil {
		return err
	}
	return asc.Decode(data)
}

// Decode 从字节序列中解码 sps
func (asc *AudioSpecificConfig) Decode(config []byte) (err error) {
	_, err = asc.Parse(bits.NewReader(config), len(config)<<3)
	return
}

// Parse decodes an AudioSpecificConfig at the reader's position and returns
// the number of bits it consumed.
//
// budget is the declared size of the config in bits, or -1 when the
// enclosing syntax does not declare one. The backward compatible sync
// extension is only looked for inside a declared budget.
func (asc *AudioSpecificConfig) Parse(r *bits.Reader, budget int) (n int, err error) {
	start := r.Offset()
	defer func() { n = r.BitsSince(start) }()
	defer bits.Recover(&err)

	*asc = AudioSpecificConfig{Sbr: -1, Ps: -1}

	asc.ObjectType = getObjectType(r)
	asc.SamplingIndex, asc.SampleRate = getSampleRate(r)
	asc.ChannelConfig = r.ReadUint8(4)
	asc.Channels = Channels(asc.ChannelConfig)

	if asc.ObjectType.Family() == FamilySBR {
		if asc.ObjectType == AOT_PS {
			asc.Ps = 1
		}
		asc.ExtObjectType = AOT_SBR
		asc.Sbr = 1
		asc.ExtSamplingIndex, asc.ExtSampleRate = getSampleRate(r)
		asc.ObjectType = getObjectType(r)
		if asc.ObjectType == AOT_ER_BSAC {
			asc.ExtChannelConfig = r.ReadUint8(4)
		}
	}

	switch asc.ObjectType.Family() {
	case FamilyGeneralAudio:
		if err = asc.GA.parse(r, asc.ChannelConfig, asc.ObjectType, start); err != nil {
			return
		}
		if asc.GA.PCE != nil {
			asc.Channels = uint8(asc.GA.PCE.Channels())
		}
	case FamilyReserved, FamilySBR, FamilyCELP, FamilyHVXC, FamilyTTS, FamilyStructured,
		FamilyERCELP, FamilyERHVXC, FamilyParametric, FamilySSC, FamilyMPEG12, FamilyDST:
		return 0, &UnsupportedObjectTypeError{ObjectType: asc.ObjectType}
	}

	if asc.ObjectType.ErrorResilient() {
		asc.EpConfig = r.ReadUint8(2)
		// epConfig 3 also carries directMapping, but only after the
		// ErrorProtectionSpecificConfig that 2 and 3 share.
		if asc.EpConfig == 2 || asc.EpConfig == 3 {
			return 0, unsupported("ErrorProtectionSpecificConfig (epConfig=%d)", asc.EpConfig)
		}
	}

	if asc.ExtObjectType != AOT_SBR && budget >= 0 &&
		budget-r.BitsSince(start) >= 16 && r.Peek(11) == syncExtensionSBR {
		r.Skip(11)
		asc.parseSyncExtension(r, start, budget)
	}

	//PS requires SBR
	if asc.Sbr == 0 {
		asc.Ps = 0
	}
	return
}

func (asc *AudioSpecificConfig) parseSyncExtension(r *bits.Reader, start, budget int) {
	asc.ExtObjectType = getObjectType(r)
	switch asc.ExtObjectType {
	case AOT_SBR:
		asc.Sbr = int(r.ReadBit())
		if asc.Sbr == 1 {
			asc.ExtSamplingIndex, asc.ExtSampleRate = getSampleRate(r)
			if budget-r.BitsSince(start) >= 12 && r.Peek(11) == syncExtensionPS {
				r.Skip(11)
				asc.Ps = int(r.ReadBit())
			}
		}
	case AOT_ER_BSAC:
		asc.Sbr = int(r.ReadBit())
		if asc.Sbr == 1 {
			asc.ExtSamplingIndex, asc.ExtSampleRate = getSampleRate(r)
		}
		asc.ExtChannelConfig = r.ReadUint8(4)
	}
}

func (ga *GASpecificConfig) parse(r *bits.Reader, channelConfig uint8, ot ObjectType, alignRef int) error {
	ga.FrameLengthFlag = r.ReadBool()
	if ga.DependsOnCoreCoder = r.ReadBool(); ga.DependsOnCoreCoder {
		ga.CoreCoderDelay = r.ReadUint16(14)
	}
	ga.ExtensionFlag = r.ReadBool()
	if channelConfig == ChannelSpecific {
		ga.PCE = new(ProgramConfig)
		ga.PCE.parse(r, alignRef)
	}
	if ot == AOT_AAC_SCALABLE || ot == AOT_ER_AAC_SCALABLE {
		ga.LayerNr = r.ReadUint8(3)
	}
	if !ga.ExtensionFlag {
		return nil
	}

	if ot == AOT_ER_BSAC {
		ga.NumOfSubFrame = r.ReadUint8(5)
		ga.LayerLength = r.ReadUint16(11)
	}
	switch ot {
	case AOT_ER_AAC_LC, AOT_ER_AAC_LTP, AOT_ER_AAC_SCALABLE, AOT_ER_AAC_LD:
		ga.SectionDataResilience = r.ReadBool()
		ga.ScalefactorDataResilience = r.ReadBool()
		ga.SpectralDataResilience = r.ReadBool()
	}
	if r.ReadBool() {
		return unsupported("GASpecificConfig: extensionFlag3 set")
	}
	return nil
}

// SamplesPerFrame 每个 access unit 的采样数
func (asc *AudioSpecificConfig) SamplesPerFrame() int {
	if asc.GA.FrameLengthFlag {
		return SamplesPerShortFrame
	}
	return SamplesPerFrame
}

// AdtsSamplingIndex returns the 4-bit index an ADTS header can carry for the
// core sample rate.
func (asc *AudioSpecificConfig) AdtsSamplingIndex() (uint8, bool) {
	if asc.SamplingIndex < 0xf && SampleRate(int(asc.SamplingIndex)) > 0 {
		return asc.SamplingIndex, true
	}
	if idx := SamplingIndex(asc.SampleRate); asc.SampleRate > 0 && idx >= 0 {
		return uint8(idx), true
	}
	return 0, false
}

// ToAdtsHeader builds an ADTS header carrying the config's core profile,
// sample rate and channel configuration.
func (asc *AudioSpecificConfig) ToAdtsHeader(payloadSize int) (ADTSHeader, error) {
	sampleRateIdx, ok := asc.AdtsSamplingIndex()
	if !ok {
		return ADTSHeader{}, unsupported("ADTS header: sample rate %d has no index", asc.SampleRate)
	}
	if asc.ChannelConfig == ChannelSpecific || asc.ChannelConfig >= ChannelReserved {
		return ADTSHeader{}, unsupported("ADTS header: channel configuration %d", asc.ChannelConfig)
	}
	if asc.ObjectType > AOT_AAC_LTP {
		return ADTSHeader{}, unsupported("ADTS header: object type %s", asc.ObjectType)
	}
	return NewADTSHeader(asc.ObjectType.Profile(), sampleRateIdx, asc.ChannelConfig, payloadSize), nil
}

// Encode serializes the config. Explicit SBR/PS signaling is written in
// its hierarchical form; a program config element cannot be encoded.
func (asc *AudioSpecificConfig) Encode() ([]byte, error) {
	if asc.ObjectType.Family() != FamilyGeneralAudio {
		return nil, &UnsupportedObjectTypeError{ObjectType: asc.ObjectType}
	}
	if asc.GA.PCE != nil {
		return nil, unsupported("encode program_config_element")
	}

	w := bits.NewWriter(8)
	if asc.Sbr == 1 && asc.ExtObjectType == AOT_SBR {
		if asc.Ps == 1 {
			putObjectType(w, AOT_PS)
		} else {
			putObjectType(w, AOT_SBR)
		}
		putSampleRate(w, asc.SamplingIndex, asc.SampleRate)
		w.WriteBits(uint64(asc.ChannelConfig), 4)
		putSampleRate(w, asc.ExtSamplingIndex, asc.ExtSampleRate)
		putObjectType(w, asc.ObjectType)
	} else {
		putObjectType(w, asc.ObjectType)
		putSampleRate(w, asc.SamplingIndex, asc.SampleRate)
		w.WriteBits(uint64(asc.ChannelConfig), 4)
	}
	if asc.ObjectType == AOT_ER_BSAC && asc.Sbr == 1 && asc.ExtObjectType == AOT_SBR {
		w.WriteBits(uint64(asc.ExtChannelConfig), 4)
	}

	ga := &asc.GA
	w.WriteBool(ga.FrameLengthFlag)
	w.WriteBool(ga.DependsOnCoreCoder)
	if ga.DependsOnCoreCoder {
		w.WriteBits(uint64(ga.CoreCoderDelay), 14)
	}
	w.WriteBool(ga.ExtensionFlag)
	if asc.ObjectType == AOT_AAC_SCALABLE || asc.ObjectType == AOT_ER_AAC_SCALABLE {
		w.WriteBits(uint64(ga.LayerNr), 3)
	}
	if ga.ExtensionFlag {
		if asc.ObjectType == AOT_ER_BSAC {
			w.WriteBits(uint64(ga.NumOfSubFrame), 5)
			w.WriteBits(uint64(ga.LayerLength), 11)
		}
		switch asc.ObjectType {
		case AOT_ER_AAC_LC, AOT_ER_AAC_LTP, AOT_ER_AAC_SCALABLE, AOT_ER_AAC_LD:
			w.WriteBool(ga.SectionDataResilience)
			w.WriteBool(ga.ScalefactorDataResilience)
			w.WriteBool(ga.SpectralDataResilience)
		}
		w.WriteBit(0) // extensionFlag3
	}
	if asc.ObjectType.ErrorResilient() {
		w.WriteBits(uint64(asc.EpConfig), 2)
	}
	w.ByteAlign()
	return w.Bytes(), nil
}

// EncodeToString 编码为 hex 字串，同 SDP 中 config= 的格式
func (asc *AudioSpecificConfig) EncodeToString() (string, error) {
	data, err := asc.Encode()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(data), nil
}

// Encode2BytesASC .
func Encode2BytesASC(objType, samplingIdx, channelConfig byte) []byte {
	var config = make([]byte, 2)
	config[0] = objType<<3 | (samplingIdx>>1)&0x07
	config[1] = samplingIdx<<7 | (channelConfig&0x0f)<<3
	return config
}

func getObjectType(r *bits.Reader) (objType ObjectType) {
	objType = ObjectType(r.ReadUint8(5))

	if AOT_ESCAPE == objType {
		objType = ObjectType(r.ReadUint8(6)) + 32
	}
	return
}

func putObjectType(w *bits.Writer, objType ObjectType) {
	if objType >= AOT_ESCAPE {
		w.WriteBits(AOT_ESCAPE, 5)
		w.WriteBits(uint64(objType-32), 6)
		return
	}
	w.WriteBits(uint64(objType), 5)
}

func getSampleRate(r *bits.Reader) (sampleRateIdx uint8, sampleRate int) {
	sampleRateIdx = r.ReadUint8(4)
	if sampleRateIdx == 0xf {
		sampleRate = r.ReadInt(24)
	} else {
		sampleRate = SampleRate(int(sampleRateIdx))
	}
	return
}

func putSampleRate(w *bits.Writer, sampleRateIdx uint8, sampleRate int) {
	w.WriteBits(uint64(sampleRateIdx), 4)
	if sampleRateIdx == 0xf {
		w.WriteBits(uint64(sampleRate), 24)
	}
}
