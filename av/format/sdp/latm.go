// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sdp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cnotch/latmdemux/av/format/latm"
	"github.com/cnotch/latmdemux/utils/scan"
	"github.com/pixelbender/go-sdp/sdp"
)

// ErrNoLATM 会话中没有 MP4A-LATM 音频
var ErrNoLATM = errors.New("sdp: no MP4A-LATM audio media")

// LATMMedia MP4A-LATM 音频媒体的描述（RFC 6416）
type LATMMedia struct {
	ClockRate      int                   `json:"clockrate"`
	Channels       int                   `json:"channels"`
	ProfileLevelID int                   `json:"profile-level-id,omitempty"`
	Object         int                   `json:"object,omitempty"`
	CPresent       bool                  `json:"cpresent"` // StreamMuxConfig 在流内
	Config         *latm.StreamMuxConfig `json:"config,omitempty"`
}

// ParseLATM 从 SDP 中提取第一个 MP4A-LATM 音频的参数
func ParseLATM(rawsdp string) (*LATMMedia, error) {
	session, err := sdp.ParseString(rawsdp)
	if err != nil {
		return nil, err
	}

	for _, media := range session.Media {
		if media.Type != "audio" {
			continue
		}
		for _, format := range media.Format {
			if strings.EqualFold(format.Name, "MP4A-LATM") {
				return parseLATMFormat(format)
			}
		}
	}
	return nil, ErrNoLATM
}

func parseLATMFormat(format *sdp.Format) (*LATMMedia, error) {
	m := &LATMMedia{
		ClockRate: 90000,
		Channels:  1,
		CPresent:  true, // 缺省为 1
	}
	if format.ClockRate > 0 {
		m.ClockRate = format.ClockRate
	}
	if format.Channels > 0 {
		m.Channels = format.Channels
	}

	var config string
	for _, p := range format.Params {
		advance, token, continueScan := p, "", true
		for continueScan {
			advance, token, continueScan = scan.Semicolon.Scan(advance)
			name, value, ok := scan.EqualPair.Scan(token)
			if !ok {
				continue
			}
			switch strings.ToLower(name) {
			case "cpresent":
				m.CPresent = value != "0"
			case "config":
				config = value
			case "profile-level-id":
				m.ProfileLevelID, _ = strconv.Atoi(value)
			case "object":
				m.Object, _ = strconv.Atoi(value)
			}
		}
	}

	if config != "" {
		smc, err := latm.ParseStreamMuxConfigString(config)
		if err != nil {
			return nil, fmt.Errorf("sdp: MP4A-LATM config=%s: %w", config, err)
		}
		m.Config = smc
	}
	if !m.CPresent && m.Config == nil {
		return nil, errors.New("sdp: MP4A-LATM with cpresent=0 has no config")
	}
	return m, nil
}
