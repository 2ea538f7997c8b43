// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

// Package spn implements an AES-style substitution/permutation network
// block cipher operating on one 16 byte block at a time.
//
// The round structure is that of AES. The key schedule is selectable: the
// default ScheduleSimplified derives round keys by byte increments and is
// meant for demonstrating the round layers, while ScheduleRijndael is the
// standard expansion and yields real AES.
package spn

import "crypto/cipher"

var _ cipher.Block = (*Cipher)(nil)

type options struct {
	kind ScheduleKind
}

// Option configures NewCipher.
type Option func(*options)

// WithSchedule selects the key schedule variant.
func WithSchedule(kind ScheduleKind) Option {
	return func(o *options) {
		o.kind = kind
	}
}

// Cipher is a keyed instance of the block cipher. It holds no mutable
// state and may be shared between goroutines.
type Cipher struct {
	ks *KeySchedule
}

// NewCipher expands key and returns a Cipher.
func NewCipher(key []byte, opts ...Option) (*Cipher, error) {
	o := &options{kind: ScheduleSimplified}
	for _, opt := range opts {
		opt(o)
	}
	ks, err := ExpandKeyKind(key, o.kind)
	if err != nil {
		return nil, err
	}
	return &Cipher{ks: ks}, nil
}

// BlockSize returns BlockSize.
func (c *Cipher) BlockSize() int {
	return BlockSize
}

// Rounds returns Nr.
func (c *Cipher) Rounds() int {
	return c.ks.Rounds()
}

// Schedule returns the cipher's key schedule.
func (c *Cipher) Schedule() *KeySchedule {
	return c.ks
}

// Encrypt encrypts the first block of src into dst. Like crypto/aes it
// panics if either buffer is shorter than a block.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("spn: input not full block")
	}
	if len(dst) < BlockSize {
		panic("spn: output not full block")
	}
	var s State
	copy(s[:], src)
	c.encrypt(&s, nil)
	copy(dst, s[:])
}

// Decrypt decrypts the first block of src into dst.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("spn: input not full block")
	}
	if len(dst) < BlockSize {
		panic("spn: output not full block")
	}
	var s State
	copy(s[:], src)
	c.decrypt(&s, nil)
	copy(dst, s[:])
}

// observer is called after every layer with the round whose key material
// the layer belongs to.
type observer func(round int, op Op, s *State)

func (c *Cipher) encrypt(s *State, obs observer) {
	nr := c.ks.Rounds()
	step := func(round int, op Op) {
		if obs != nil {
			obs(round, op, s)
		}
	}

	s.AddRoundKey(&c.ks.keys[0])
	step(0, OpAddRoundKey)

	for i := 1; i < nr; i++ {
		s.SubBytes()
		step(i, OpSubBytes)
		s.ShiftRows()
		step(i, OpShiftRows)
		s.MixColumns()
		step(i, OpMixColumns)
		s.AddRoundKey(&c.ks.keys[i])
		step(i, OpAddRoundKey)
	}

	s.SubBytes()
	step(nr, OpSubBytes)
	s.ShiftRows()
	step(nr, OpShiftRows)
	s.AddRoundKey(&c.ks.keys[nr])
	step(nr, OpAddRoundKey)
}

func (c *Cipher) decrypt(s *State, obs observer) {
	nr := c.ks.Rounds()
	step := func(round int, op Op) {
		if obs != nil {
			obs(round, op, s)
		}
	}

	s.AddRoundKey(&c.ks.keys[nr])
	step(nr, OpAddRoundKey)
	s.InvShiftRows()
	step(nr, OpInvShiftRows)
	s.InvSubBytes()
	step(nr, OpInvSubBytes)

	for i := nr - 1; i >= 1; i-- {
		s.AddRoundKey(&c.ks.keys[i])
		step(i, OpAddRoundKey)
		s.InvMixColumns()
		step(i, OpInvMixColumns)
		s.InvShiftRows()
		step(i, OpInvShiftRows)
		s.InvSubBytes()
		step(i, OpInvSubBytes)
	}

	s.AddRoundKey(&c.ks.keys[0])
	step(0, OpAddRoundKey)
}

// EncryptBlock encrypts one 16 byte block under key using the simplified
// schedule.
func EncryptBlock(plaintext, key []byte) ([]byte, error) {
	c, err := NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(plaintext) != BlockSize {
		return nil, BlockSizeError(len(plaintext))
	}
	dst := make([]byte, BlockSize)
	c.Encrypt(dst, plaintext)
	return dst, nil
}

// DecryptBlock is the inverse of EncryptBlock.
func DecryptBlock(ciphertext, key []byte) ([]byte, error) {
	c, err := NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) != BlockSize {
		return nil, BlockSizeError(len(ciphertext))
	}
	dst := make([]byte, BlockSize)
	c.Decrypt(dst, ciphertext)
	return dst, nil
}
