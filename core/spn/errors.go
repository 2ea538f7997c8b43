// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

package spn

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidKeyLength is matched by every KeySizeError.
	ErrInvalidKeyLength = errors.New("spn: invalid key length")

	// ErrInvalidBlockLength is matched by every BlockSizeError.
	ErrInvalidBlockLength = errors.New("spn: invalid block length")
)

// KeySizeError is returned when a key is not 16, 24 or 32 bytes long.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "spn: invalid key size " + strconv.Itoa(int(k))
}

// Is reports whether target is ErrInvalidKeyLength.
func (k KeySizeError) Is(target error) bool {
	return target == ErrInvalidKeyLength
}

// BlockSizeError is returned when a block is not exactly BlockSize bytes.
type BlockSizeError int

func (b BlockSizeError) Error() string {
	return "spn: invalid block size " + strconv.Itoa(int(b))
}

// Is reports whether target is ErrInvalidBlockLength.
func (b BlockSizeError) Is(target error) bool {
	return target == ErrInvalidBlockLength
}
