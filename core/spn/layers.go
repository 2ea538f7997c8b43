// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

package spn

import "github.com/katzenpost/spn/core/spn/gf"

var (
	mixMatrix = [rows][rows]byte{
		{0x02, 0x03, 0x01, 0x01},
		{0x01, 0x02, 0x03, 0x01},
		{0x01, 0x01, 0x02, 0x03},
		{0x03, 0x01, 0x01, 0x02},
	}

	invMixMatrix = [rows][rows]byte{
		{0x0e, 0x0b, 0x0d, 0x09},
		{0x09, 0x0e, 0x0b, 0x0d},
		{0x0d, 0x09, 0x0e, 0x0b},
		{0x0b, 0x0d, 0x09, 0x0e},
	}
)

// SubBytes replaces every byte with its substitution table entry.
func (s *State) SubBytes() {
	s.substitute(&sbox)
}

// InvSubBytes undoes SubBytes.
func (s *State) InvSubBytes() {
	s.substitute(&invSbox)
}

func (s *State) substitute(box *[256]byte) {
	for i, b := range s {
		s[i] = box[b]
	}
}

// ShiftRows rotates row r left by r positions.
func (s *State) ShiftRows() {
	for r := 1; r < rows; r++ {
		row := s.Row(r)
		for c := 0; c < cols; c++ {
			s[index(r, c)] = row[(c+r)%cols]
		}
	}
}

// InvShiftRows rotates row r right by r positions.
func (s *State) InvShiftRows() {
	for r := 1; r < rows; r++ {
		row := s.Row(r)
		for c := 0; c < cols; c++ {
			s[index(r, c)] = row[(c-r+cols)%cols]
		}
	}
}

// MixColumns multiplies each column by the fixed MDS matrix over GF(2^8).
func (s *State) MixColumns() {
	s.mix(&mixMatrix)
}

// InvMixColumns multiplies each column by the inverse MDS matrix.
func (s *State) InvMixColumns() {
	s.mix(&invMixMatrix)
}

func (s *State) mix(m *[rows][rows]byte) {
	for c := 0; c < cols; c++ {
		col := s.Column(c)
		for r := 0; r < rows; r++ {
			var v byte
			for k := 0; k < rows; k++ {
				v ^= gf.Mul(m[r][k], col[k])
			}
			s[index(r, c)] = v
		}
	}
}

// AddRoundKey XORs k into the state. It is its own inverse.
func (s *State) AddRoundKey(k *RoundKey) {
	for i := range s {
		s[i] ^= k[i]
	}
}
