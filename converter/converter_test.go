// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package converter

import (
	"encoding/binary"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cnotch/latmdemux/av/format/adts"
	"github.com/cnotch/latmdemux/av/format/latm"
	"github.com/cnotch/latmdemux/stats"
	"github.com/cnotch/xlog"
	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// producerUnit 省略了前 4 个字节的配置元素，AAC LC 44100Hz 双声道，载荷 01 02 03 04
var producerUnit = []byte{0xb0, 0x90, 0x80, 0x03, 0xfc, 0x04, 0x01, 0x02, 0x03, 0x04}

func repeat(unit []byte, n int) []byte {
	var data []byte
	for i := 0; i < n; i++ {
		data = append(data, unit...)
	}
	return data
}

type testEnv struct {
	t   *testing.T
	dir string
}

func newTestEnv(t *testing.T) *testEnv {
	dir, err := ioutil.TempDir("", "converter")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return &testEnv{t: t, dir: dir}
}

func (e *testEnv) file(name string, data []byte) string {
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, ioutil.WriteFile(path, data, 0644))
	return path
}

func (e *testEnv) options(input []byte, format string) Options {
	return Options{
		Input:      e.file("input."+format, input),
		Output:     filepath.Join(e.dir, "output.aac"),
		Format:     format,
		FixSync:    true,
		SampleRate: 44100,
		Header:     latm.HeaderFixed,
	}
}

func (e *testEnv) frames(path string) [][]byte {
	data, err := ioutil.ReadFile(path)
	require.NoError(e.t, err)
	frames, err := adts.Split(data)
	require.NoError(e.t, err)
	var payloads [][]byte
	for _, f := range frames {
		payloads = append(payloads, f[7:])
	}
	return payloads
}

var want = []byte{0x01, 0x02, 0x03, 0x04}

func TestRun_LATM(t *testing.T) {
	e := newTestEnv(t)
	opts := e.options(repeat(latm.FixSync(producerUnit), 3), FormatLATM)
	opts.Report = filepath.Join(e.dir, "report.json")

	report, err := Run(opts, xlog.L())
	require.NoError(t, err)
	assert.Equal(t, [][]byte{want, want, want}, e.frames(opts.Output))
	assert.False(t, report.SyncFixed)
	assert.Equal(t, 3, report.Elements)
	assert.Equal(t, int64(3), report.Flow.OutFrames)
	assert.Equal(t, int64(3*11), report.Flow.OutBytes)
	assert.Equal(t, int64(3*14), report.Flow.InBytes)
	require.NotNil(t, report.Audio)
	assert.Equal(t, 44100, report.Audio.SampleRate)
	assert.Equal(t, "69.659862ms", report.Duration)

	data, err := ioutil.ReadFile(opts.Report)
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 3, decoded.Elements)
	assert.Equal(t, latm.HeaderFixed, decoded.Header)
	require.NotNil(t, decoded.Config)
	assert.Equal(t, uint8(1), decoded.Config.AudioMuxVersion)
	assert.Empty(t, decoded.Error)
}

func TestRun_FixSync(t *testing.T) {
	e := newTestEnv(t)
	opts := e.options(repeat(producerUnit, 2), FormatLATM)

	report, err := Run(opts, nil)
	require.NoError(t, err)
	assert.True(t, report.SyncFixed)
	assert.Equal(t, [][]byte{want, want}, e.frames(opts.Output))

	opts.FixSync = false
	report, err = Run(opts, nil)
	require.Error(t, err)
	assert.True(t, latm.IsUnsupported(err), "err = %v", err)
	assert.NotEmpty(t, report.Error)
	assert.Empty(t, e.frames(opts.Output))
}

func TestRun_Truncated(t *testing.T) {
	e := newTestEnv(t)
	unit := latm.FixSync(producerUnit)
	input := append(repeat(unit, 2), unit[:len(unit)-2]...)
	opts := e.options(input, FormatLATM)

	report, err := Run(opts, nil)
	require.Error(t, err)
	assert.True(t, latm.IsTruncated(err), "err = %v", err)
	// 出错前的帧已写出
	assert.Equal(t, [][]byte{want, want}, e.frames(opts.Output))
	assert.Equal(t, 2, report.Elements)
}

func TestRun_LOAS(t *testing.T) {
	e := newTestEnv(t)
	unit := latm.FixSync(producerUnit)
	loas := append([]byte{0x56, 0xe0 | byte(len(unit)>>8), byte(len(unit))}, unit...)
	opts := e.options(repeat(loas, 2), FormatLOAS)

	report, err := Run(opts, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{want, want}, e.frames(opts.Output))
	assert.Equal(t, int64(2*len(loas)), report.Flow.InBytes)
}

const latmSDP = "v=0\r\n" +
	"o=- 0 0 IN IP4 127.0.0.1\r\n" +
	"s=latm\r\n" +
	"c=IN IP4 0.0.0.0\r\n" +
	"t=0 0\r\n" +
	"m=audio 0 RTP/AVP 96\r\n" +
	"a=rtpmap:96 MP4A-LATM/44100/2\r\n" +
	"a=fmtp:96 profile-level-id=15;object=2;cpresent=0;config=400024203fc0\r\n"

func interleaved(t *testing.T, channel byte, seq uint16, marker bool, payload []byte) []byte {
	p := rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			Marker:         marker,
			PayloadType:    96,
			SequenceNumber: seq,
			Timestamp:      uint32(seq) * 1024,
			SSRC:           0x1234,
		},
		Payload: payload,
	}
	data, err := p.Marshal()
	require.NoError(t, err)
	prefix := []byte{'$', channel, 0, 0}
	binary.BigEndian.PutUint16(prefix[2:], uint16(len(data)))
	return append(prefix, data...)
}

func TestRun_RTP(t *testing.T) {
	e := newTestEnv(t)
	var input []byte
	input = append(input, interleaved(t, 2, 1, true, []byte{0x02, 0xa1, 0xa2})...)
	input = append(input, interleaved(t, 3, 0, false, []byte{0x80, 0xc8})...) // rtcp
	input = append(input, interleaved(t, 0, 9, false, []byte{0x01, 0xff})...)   // 其他通道
	input = append(input, interleaved(t, 2, 2, false, []byte{0x03, 0xb1})...)
	input = append(input, interleaved(t, 2, 3, true, []byte{0xb2, 0xb3})...)

	opts := e.options(input, FormatRTP)
	opts.SDP = e.file("stream.sdp", []byte(latmSDP))
	opts.RtpChannel = 2

	report, err := Run(opts, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0xa1, 0xa2}, {0xb1, 0xb2, 0xb3}}, e.frames(opts.Output))
	require.NotNil(t, report.Media)
	assert.False(t, report.Media.CPresent)
	assert.Equal(t, 2, report.Elements)
}

func TestRun_Errors(t *testing.T) {
	e := newTestEnv(t)

	opts := e.options(nil, FormatLATM)
	opts.Input = filepath.Join(e.dir, "missing")
	_, err := Run(opts, nil)
	assert.Error(t, err)

	opts = e.options(nil, FormatLATM)
	opts.MuxConfig = "zz"
	_, err = Run(opts, nil)
	assert.Error(t, err)

	opts = e.options(nil, FormatLATM)
	opts.SampleRate = 32000
	_, err = Run(opts, nil)
	assert.Error(t, err)

	opts = e.options(nil, FormatRTP)
	opts.SDP = e.file("video.sdp", []byte("v=0\r\no=- 0 0 IN IP4 127.0.0.1\r\ns=-\r\nc=IN IP4 0.0.0.0\r\nt=0 0\r\nm=video 0 RTP/AVP 97\r\na=rtpmap:97 H264/90000\r\n"))
	_, err = Run(opts, nil)
	assert.Error(t, err)
}

func TestRun_Progress(t *testing.T) {
	e := newTestEnv(t)
	opts := e.options(repeat(latm.FixSync(producerUnit), 2), FormatLATM)
	opts.Progress = time.Millisecond

	_, err := Run(opts, nil)
	require.NoError(t, err)
	assert.Len(t, e.frames(opts.Output), 2)
}

func TestProgress_Line(t *testing.T) {
	flow := stats.NewFlow()
	p := &progress{total: 200, flow: flow, logger: xlog.L()}
	flow.AddIn(50)
	flow.AddOut(10)
	assert.Equal(t, "progress 25.0%: 50/200 bytes in, 1 frames out (+1)", p.line(flow.GetSample()))

	p.run()
	flow.AddIn(150)
	flow.AddOut(10)
	flow.AddOut(10)
	assert.Equal(t, "progress 100.0%: 200/200 bytes in, 3 frames out (+2)", p.line(flow.GetSample()))
}
