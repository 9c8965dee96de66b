// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package utils

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
)

// EncodeJSONFile 以缩进格式把 obj 写入 path。
// 先写同目录下的临时文件再改名，失败时不会留下半个文件
func EncodeJSONFile(path string, obj interface{}) (err error) {
	body, err := json.MarshalIndent(obj, "", "\t")
	if err != nil {
		return err
	}

	f, err := ioutil.TempFile(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(append(body, '\n')); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(f.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
