// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package utils

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a.latm", "a_conv.aac"},
		{"/data/stream/radio.loas", "radio_conv.aac"},
		{"noext", "noext_conv.aac"},
		{"dir/x.y.z", "x.y_conv.aac"},
		{"", "out_conv.aac"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputName(tt.input, "_conv.aac"))
		})
	}
}

func TestEncodeJSONFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "latmdemux")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "report.json")
	require.NoError(t, EncodeJSONFile(path, map[string]int{"frames": 3}))
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"frames":3}`, string(data))
}

func TestEncodeJSONFile_Error(t *testing.T) {
	dir, err := ioutil.TempDir("", "latmdemux")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "report.json")
	assert.Error(t, EncodeJSONFile(path, func() {}))
	assert.Error(t, EncodeJSONFile(filepath.Join(dir, "missing", "report.json"), 1))

	files, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}
