// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

package spn

import (
	"fmt"
	"strings"
)

const (
	// BlockSize is the cipher block size in bytes.
	BlockSize = 16

	// rows and cols are the state matrix dimensions.
	rows = 4
	cols = 4
)

// State is one block laid out as a 4x4 column-major byte matrix: the byte
// at row r, column c is State[4*c+r].
type State [BlockSize]byte

// RoundKey is a block-sized round key with the same layout as State.
type RoundKey [BlockSize]byte

func index(row, col int) int {
	return rows*col + row
}

// NewState copies b into a new State. b must be exactly BlockSize bytes.
func NewState(b []byte) (*State, error) {
	if len(b) != BlockSize {
		return nil, BlockSizeError(len(b))
	}
	s := new(State)
	copy(s[:], b)
	return s, nil
}

// At returns the byte at (row, col).
func (s *State) At(row, col int) byte {
	return s[index(row, col)]
}

// Set stores v at (row, col).
func (s *State) Set(row, col int, v byte) {
	s[index(row, col)] = v
}

// Row returns row r, left to right.
func (s *State) Row(r int) [cols]byte {
	var out [cols]byte
	for c := 0; c < cols; c++ {
		out[c] = s[index(r, c)]
	}
	return out
}

// Column returns column c, top to bottom.
func (s *State) Column(c int) [rows]byte {
	var out [rows]byte
	copy(out[:], s[index(0, c):index(0, c)+rows])
	return out
}

// Bytes returns the linear 16 byte form of the state.
func (s *State) Bytes() []byte {
	out := make([]byte, BlockSize)
	copy(out, s[:])
	return out
}

// String renders the matrix as four lines of hex, one per row.
func (s *State) String() string {
	var b strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		row := s.Row(r)
		fmt.Fprintf(&b, "%02x %02x %02x %02x", row[0], row[1], row[2], row[3])
	}
	return b.String()
}

// String renders the round key the same way as a State.
func (k *RoundKey) String() string {
	s := State(*k)
	return s.String()
}
