// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aac

import "github.com/cnotch/latmdemux/utils/bits"

// ChannelElement is one front, side or back element of a program config.
type ChannelElement struct {
	IsCPE     bool  `json:"is_cpe"`
	TagSelect uint8 `json:"tag_select"`
}

// CCElement is one valid coupling channel element of a program config.
type CCElement struct {
	IsIndSW   bool  `json:"is_ind_sw"`
	TagSelect uint8 `json:"tag_select"`
}

// ProgramConfig program_config_element (ISO/IEC 14496-3 Table 4.2)
type ProgramConfig struct {
	ElementInstanceTag uint8 `json:"element_instance_tag"`
	ObjectType         uint8 `json:"object_type"`
	SamplingIndex      uint8 `json:"sampling_index"`

	Front []ChannelElement `json:"front,omitempty"`
	Side  []ChannelElement `json:"side,omitempty"`
	Back  []ChannelElement `json:"back,omitempty"`
	LFE   []uint8          `json:"lfe,omitempty"`
	Assoc []uint8          `json:"assoc,omitempty"`
	CC    []CCElement      `json:"cc,omitempty"`

	MonoMixdownPresent         bool  `json:"mono_mixdown_present"`
	MonoMixdownElementNumber   uint8 `json:"mono_mixdown_element_number"`
	StereoMixdownPresent       bool  `json:"stereo_mixdown_present"`
	StereoMixdownElementNumber uint8 `json:"stereo_mixdown_element_number"`
	MatrixMixdownIdxPresent    bool  `json:"matrix_mixdown_idx_present"`
	MatrixMixdownIdx           uint8 `json:"matrix_mixdown_idx"`
	PseudoSurroundEnable       bool  `json:"pseudo_surround_enable"`

	Comment []byte `json:"comment,omitempty"`
}

// Channels returns the number of output channels the program describes.
func (pce *ProgramConfig) Channels() int {
	n := len(pce.LFE)
	for _, els := range [][]ChannelElement{pce.Front, pce.Side, pce.Back} {
		for _, el := range els {
			n++
			if el.IsCPE {
				n++
			}
		}
	}
	return n
}

// parse reads the element. alignRef is the bit offset the element's
// byte_alignment is measured from, the start of the enclosing
// AudioSpecificConfig.
func (pce *ProgramConfig) parse(r *bits.Reader, alignRef int) {
	pce.ElementInstanceTag = r.ReadUint8(4)
	pce.ObjectType = r.ReadUint8(2)
	pce.SamplingIndex = r.ReadUint8(4)

	numFront := r.ReadInt(4)
	numSide := r.ReadInt(4)
	numBack := r.ReadInt(4)
	numLFE := r.ReadInt(2)
	numAssoc := r.ReadInt(3)
	numCC := r.ReadInt(4)

	if pce.MonoMixdownPresent = r.ReadBool(); pce.MonoMixdownPresent {
		pce.MonoMixdownElementNumber = r.ReadUint8(4)
	}
	if pce.StereoMixdownPresent = r.ReadBool(); pce.StereoMixdownPresent {
		pce.StereoMixdownElementNumber = r.ReadUint8(4)
	}
	if pce.MatrixMixdownIdxPresent = r.ReadBool(); pce.MatrixMixdownIdxPresent {
		pce.MatrixMixdownIdx = r.ReadUint8(2)
		pce.PseudoSurroundEnable = r.ReadBool()
	}

	pce.Front = readChannelElements(r, numFront)
	pce.Side = readChannelElements(r, numSide)
	pce.Back = readChannelElements(r, numBack)

	pce.LFE = readTags(r, numLFE)
	pce.Assoc = readTags(r, numAssoc)

	pce.CC = make([]CCElement, numCC)
	for i := range pce.CC {
		pce.CC[i].IsIndSW = r.ReadBool()
		pce.CC[i].TagSelect = r.ReadUint8(4)
	}

	// byte_alignment()
	if rem := r.BitsSince(alignRef) & 0x7; rem != 0 {
		r.Skip(8 - rem)
	}

	commentBytes := r.ReadInt(8)
	pce.Comment = r.AppendBytes(make([]byte, 0, commentBytes), commentBytes)
}

func readChannelElements(r *bits.Reader, n int) []ChannelElement {
	els := make([]ChannelElement, n)
	for i := range els {
		els[i].IsCPE = r.ReadBool()
		els[i].TagSelect = r.ReadUint8(4)
	}
	return els
}

func readTags(r *bits.Reader, n int) []uint8 {
	tags := make([]uint8, n)
	for i := range tags {
		tags[i] = r.ReadUint8(4)
	}
	return tags
}
