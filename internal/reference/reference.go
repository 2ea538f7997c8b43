// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

// Package reference checks the spn engine against an independent AES
// implementation.
package reference

import (
	"bytes"
	"fmt"

	"gitlab.com/yawning/bsaes.git"

	"github.com/katzenpost/spn/core/spn"
)

// Encrypt encrypts one block with bsaes.
func Encrypt(key, block []byte) ([]byte, error) {
	if len(block) != spn.BlockSize {
		return nil, spn.BlockSizeError(len(block))
	}
	// bsaes falls back to crypto/aes when AES-NI is usable.
	blk, err := bsaes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("reference: %v", err)
	}
	dst := make([]byte, spn.BlockSize)
	blk.Encrypt(dst, block)
	return dst, nil
}

// Report is the outcome of Verify.
type Report struct {
	// Expected is the reference ciphertext.
	Expected []byte

	// Actual is the engine's ciphertext in Rijndael mode.
	Actual []byte

	// RoundTrip is true if the engine decrypts Actual back to the input.
	RoundTrip bool
}

// Match reports whether the engine agreed with the reference and
// decrypted its own output.
func (r *Report) Match() bool {
	return bytes.Equal(r.Expected, r.Actual) && r.RoundTrip
}

// Verify encrypts block under key with both the engine, using the
// Rijndael key schedule, and bsaes.
func Verify(key, block []byte) (*Report, error) {
	c, err := spn.NewCipher(key, spn.WithSchedule(spn.ScheduleRijndael))
	if err != nil {
		return nil, err
	}
	expected, err := Encrypt(key, block)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Expected: expected,
		Actual:   make([]byte, spn.BlockSize),
	}
	c.Encrypt(r.Actual, block)

	pt := make([]byte, spn.BlockSize)
	c.Decrypt(pt, r.Actual)
	r.RoundTrip = bytes.Equal(pt, block)
	return r, nil
}
