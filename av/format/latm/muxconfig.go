// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package latm

import (
	"encoding/hex"
	"fmt"

	"github.com/cnotch/latmdemux/av/codec/aac"
	"github.com/cnotch/latmdemux/utils/bits"
)

// frameLengthType 取值
const (
	FrameLengthVariable = 0 // 变长，长度由 PayloadLengthInfo 中的 0xff 游程给出
	FrameLengthFixed    = 1 // 定长，frameLength+20 字节
	FrameLengthCELP     = 3 // 3,4,5 CELP 定长表
	FrameLengthCELP1of2 = 4
	FrameLengthCELP2of2 = 5
	FrameLengthHVXC     = 6 // 6,7 HVXC 定长表
	FrameLengthHVXC4k   = 7
)

// Stream 一个 (program, layer) 对应的流
type Stream struct {
	Index              int                      `json:"index"`
	Program            int                      `json:"program"`
	Layer              int                      `json:"layer"`
	UseSameConfig      bool                     `json:"use_same_config,omitempty"`
	Config             *aac.AudioSpecificConfig `json:"config"`
	FrameLengthType    uint8                    `json:"frame_length_type"`
	LatmBufferFullness uint8                    `json:"latm_buffer_fullness,omitempty"`
	CoreFrameOffset    uint8                    `json:"core_frame_offset,omitempty"`
	FrameLength        uint16                   `json:"frame_length,omitempty"`
	CELPTableIndex     uint8                    `json:"celp_table_index,omitempty"`
	HVXCTableIndex     uint8                    `json:"hvxc_table_index,omitempty"`
}

// StreamMuxConfig 描述一组 AudioMuxElement 如何复用各个流
type StreamMuxConfig struct {
	AudioMuxVersion           uint8     `json:"audio_mux_version"`
	AudioMuxVersionA          uint8     `json:"audio_mux_version_a"`
	TaraBufferFullness        uint32    `json:"tara_buffer_fullness,omitempty"`
	AllStreamsSameTimeFraming bool      `json:"all_streams_same_time_framing"`
	SubFrames                 int       `json:"sub_frames"` // numSubFrames+1
	Layers                    []int     `json:"layers"`     // 每个 program 的 layer 数
	Streams                   []*Stream `json:"streams"`
	OtherDataPresent          bool      `json:"other_data_present,omitempty"`
	OtherDataLenBits          int       `json:"other_data_len_bits,omitempty"`
	CrcCheckPresent           bool      `json:"crc_check_present,omitempty"`
	CrcCheckSum               uint8     `json:"crc_check_sum,omitempty"`

	streamID [][]int // [program][layer] -> stream index
}

// Programs returns the number of programs.
func (smc *StreamMuxConfig) Programs() int { return len(smc.Layers) }

// StreamID returns the index of the stream carrying layer lay of program prog,
// or -1 when there is no such stream.
func (smc *StreamMuxConfig) StreamID(prog, lay int) int {
	if prog < 0 || prog >= len(smc.streamID) || lay < 0 || lay >= len(smc.streamID[prog]) {
		return -1
	}
	return smc.streamID[prog][lay]
}

// ParseStreamMuxConfig decodes a StreamMuxConfig delivered out of band,
// such as the hex config of an RTP MP4A-LATM payload description.
func ParseStreamMuxConfig(data []byte) (*StreamMuxConfig, error) {
	return parseStreamMuxConfig(bits.NewReader(data))
}

// ParseStreamMuxConfigString decodes a hex encoded StreamMuxConfig.
func ParseStreamMuxConfigString(config string) (*StreamMuxConfig, error) {
	data, err := hex.DecodeString(config)
	if err != nil {
		return nil, err
	}
	return ParseStreamMuxConfig(data)
}

func parseStreamMuxConfig(r *bits.Reader) (smc *StreamMuxConfig, err error) {
	defer func() {
		if err != nil {
			smc = nil
		}
	}()
	defer bits.Recover(&err)

	smc = new(StreamMuxConfig)
	smc.AudioMuxVersion = r.ReadUint8(1)
	if smc.AudioMuxVersion == 1 {
		smc.AudioMuxVersionA = r.ReadUint8(1)
	}
	if smc.AudioMuxVersionA != 0 {
		return nil, unsupported("StreamMuxConfig: audioMuxVersionA=%d", smc.AudioMuxVersionA)
	}
	if smc.AudioMuxVersion == 1 {
		smc.TaraBufferFullness = latmGetValue(r)
	}

	smc.AllStreamsSameTimeFraming = r.ReadBool()
	smc.SubFrames = r.ReadInt(6) + 1
	programs := r.ReadInt(4) + 1
	smc.Layers = make([]int, programs)
	smc.streamID = make([][]int, programs)

	var last *aac.AudioSpecificConfig
	for prog := 0; prog < programs; prog++ {
		layers := r.ReadInt(3) + 1
		smc.Layers[prog] = layers
		smc.streamID[prog] = make([]int, layers)

		for lay := 0; lay < layers; lay++ {
			s := &Stream{Index: len(smc.Streams), Program: prog, Layer: lay}
			if prog != 0 || lay != 0 {
				s.UseSameConfig = r.ReadBool()
			}
			if s.UseSameConfig {
				s.Config = last
			} else {
				s.Config = new(aac.AudioSpecificConfig)
				if err = readAudioSpecificConfig(r, smc.AudioMuxVersion, s.Config); err != nil {
					return nil, fmt.Errorf("latm: StreamMuxConfig: stream %d: %w", s.Index, err)
				}
			}
			last = s.Config

			if err = smc.readFrameLength(r, s); err != nil {
				return
			}
			smc.streamID[prog][lay] = s.Index
			smc.Streams = append(smc.Streams, s)
		}
	}

	if smc.OtherDataPresent = r.ReadBool(); smc.OtherDataPresent {
		if smc.AudioMuxVersion == 1 {
			smc.OtherDataLenBits = int(latmGetValue(r))
		} else {
			if smc.OtherDataLenBits, err = readOtherDataLenBits(r); err != nil {
				return
			}
		}
	}

	if smc.CrcCheckPresent = r.ReadBool(); smc.CrcCheckPresent {
		smc.CrcCheckSum = r.ReadUint8(8)
	}
	return
}

// readAudioSpecificConfig 读取一层的 ASC。版本 1 带长度前缀，多余的位跳过
func readAudioSpecificConfig(r *bits.Reader, version uint8, asc *aac.AudioSpecificConfig) error {
	if version == 0 {
		_, err := asc.Parse(r, -1)
		return err
	}

	ascLen := int(latmGetValue(r))
	n, err := asc.Parse(r, ascLen)
	if err != nil {
		return err
	}
	// 部分编码器声明的长度比实际短，此时没有填充位
	r.Skip(ascLen - n)
	return nil
}

func (smc *StreamMuxConfig) readFrameLength(r *bits.Reader, s *Stream) error {
	s.FrameLengthType = r.ReadUint8(3)
	switch s.FrameLengthType {
	case FrameLengthVariable:
		s.LatmBufferFullness = r.ReadUint8(8)
		if smc.hasCoreFrameOffset(s) {
			s.CoreFrameOffset = r.ReadUint8(6)
		}
	case FrameLengthFixed:
		s.FrameLength = r.ReadUint16(9)
	case FrameLengthCELP, FrameLengthCELP1of2, FrameLengthCELP2of2:
		s.CELPTableIndex = r.ReadUint8(6)
		return unsupported("StreamMuxConfig: stream %d: CELP frame length type %d",
			s.Index, s.FrameLengthType)
	case FrameLengthHVXC, FrameLengthHVXC4k:
		s.HVXCTableIndex = r.ReadUint8(1)
		return unsupported("StreamMuxConfig: stream %d: HVXC frame length type %d",
			s.Index, s.FrameLengthType)
	default:
		return unsupported("StreamMuxConfig: stream %d: reserved frame length type %d",
			s.Index, s.FrameLengthType)
	}
	return nil
}

// hasCoreFrameOffset 可伸缩层叠加在 CELP 核心层之上，且各流帧边界不同步。
// CELP 的 ASC 在 aac.Parse 中即返回 ErrUnsupported，实际流程走不到这里
func (smc *StreamMuxConfig) hasCoreFrameOffset(s *Stream) bool {
	if smc.AllStreamsSameTimeFraming || s.Layer == 0 || len(smc.Streams) == 0 {
		return false
	}
	prev := smc.Streams[len(smc.Streams)-1] // 同一 program 的上一层
	return isScalable(s.Config.ObjectType) && isCELP(prev.Config.ObjectType)
}

func isScalable(ot aac.ObjectType) bool {
	return ot == aac.AOT_AAC_SCALABLE || ot == aac.AOT_ER_AAC_SCALABLE
}

func isCELP(ot aac.ObjectType) bool {
	return ot == aac.AOT_CELP || ot == aac.AOT_ER_CELP
}

// SlotLength returns the payload length in bytes of a fixed length stream,
// and false for variable length streams.
func (s *Stream) SlotLength() (int, bool) {
	if s.FrameLengthType == FrameLengthFixed {
		return int(s.FrameLength) + 20, true
	}
	return 0, false
}
