// Copyright (c) 2019,CAOHONGJU All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aac

import (
	"errors"
	"fmt"
)

// ErrUnsupported 码流结构合法但本包不解码
var ErrUnsupported = errors.New("aac: unsupported format")

// UnsupportedObjectTypeError is returned when an AudioSpecificConfig selects an
// object type outside the General Audio family.
type UnsupportedObjectTypeError struct {
	ObjectType ObjectType
}

func (e *UnsupportedObjectTypeError) Error() string {
	return fmt.Sprintf("aac: unsupported object type %d (%s, %s family)",
		uint8(e.ObjectType), e.ObjectType, e.ObjectType.Family())
}

// Unwrap makes errors.Is(err, ErrUnsupported) hold.
func (e *UnsupportedObjectTypeError) Unwrap() error { return ErrUnsupported }

func unsupported(format string, args ...interface{}) error {
	return fmt.Errorf("aac: "+format+": %w", append(args, ErrUnsupported)...)
}
