// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

// Package gf implements arithmetic in GF(2^8) reduced by the Rijndael
// polynomial x^8 + x^4 + x^3 + x + 1.
package gf

const (
	// Polynomial is the full reduction polynomial including the x^8 term.
	Polynomial = 0x11b

	// reduce is Polynomial without the x^8 term, applied on carry.
	reduce = 0x1b
)

// Add returns a + b, which in a binary field is XOR.
func Add(a, b byte) byte {
	return a ^ b
}

// Mul returns a * b using shift-and-add ("peasant") multiplication.
func Mul(a, b byte) byte {
	var p byte
	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			p ^= a
		}
		carry := a & 0x80
		a <<= 1
		if carry != 0 {
			a ^= reduce
		}
		b >>= 1
	}
	return p
}

// Inverse returns the multiplicative inverse of a. Zero has no inverse
// and maps to zero, which is the convention the S-box construction uses.
func Inverse(a byte) byte {
	// a^254 == a^-1 since the multiplicative group has order 255.
	r := byte(1)
	x := a
	for e := 254; e > 0; e >>= 1 {
		if e&1 != 0 {
			r = Mul(r, x)
		}
		x = Mul(x, x)
	}
	if a == 0 {
		return 0
	}
	return r
}
