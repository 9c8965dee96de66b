// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

// AudioMeta 输出音频的元数据
type AudioMeta struct {
	Codec      string `json:"codec"`
	Profile    uint8  `json:"profile"`
	SampleRate int    `json:"samplerate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
	Config     []byte `json:"config,omitempty"` // AudioSpecificConfig
}
