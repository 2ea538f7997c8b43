// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

package spn

import (
	"fmt"
	"strings"

	"github.com/katzenpost/spn/core/spn/gf"
)

// ScheduleKind selects how round keys are derived from the master key.
// The two kinds produce different ciphers and are never mixed.
type ScheduleKind int

const (
	// ScheduleSimplified is the teaching schedule: round key 0 is the first
	// 16 bytes of the master key, and round key i adds i to every byte of
	// round key i-1 (mod 256). It is not interoperable with AES.
	ScheduleSimplified ScheduleKind = iota

	// ScheduleRijndael is the FIPS-197 key expansion. With it the engine
	// is AES-128/192/256.
	ScheduleRijndael
)

func (k ScheduleKind) String() string {
	switch k {
	case ScheduleSimplified:
		return "simplified"
	case ScheduleRijndael:
		return "rijndael"
	default:
		return fmt.Sprintf("ScheduleKind(%d)", int(k))
	}
}

// ParseScheduleKind maps "simplified" or "rijndael" (any case) to a kind.
func ParseScheduleKind(s string) (ScheduleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simplified", "":
		return ScheduleSimplified, nil
	case "rijndael", "aes", "fips197":
		return ScheduleRijndael, nil
	default:
		return 0, fmt.Errorf("spn: unknown key schedule '%v'", s)
	}
}

// Params is the cipher configuration implied by a key length.
type Params struct {
	// KeyLength is the master key length in bytes.
	KeyLength int

	// Rounds is Nr, the number of full rounds.
	Rounds int
}

// ParamsForKeyLength returns the configuration for an n byte key.
func ParamsForKeyLength(n int) (Params, error) {
	switch n {
	case 16:
		return Params{KeyLength: n, Rounds: 10}, nil
	case 24:
		return Params{KeyLength: n, Rounds: 12}, nil
	case 32:
		return Params{KeyLength: n, Rounds: 14}, nil
	default:
		return Params{}, KeySizeError(n)
	}
}

// KeySchedule is the ordered list of Nr+1 round keys derived from one
// master key. It is never modified after ExpandKey returns it.
type KeySchedule struct {
	kind   ScheduleKind
	params Params
	keys   []RoundKey
}

// ExpandKey derives the simplified schedule for key.
func ExpandKey(key []byte) (*KeySchedule, error) {
	return ExpandKeyKind(key, ScheduleSimplified)
}

// ExpandKeyKind derives the schedule of the given kind for key.
func ExpandKeyKind(key []byte, kind ScheduleKind) (*KeySchedule, error) {
	params, err := ParamsForKeyLength(len(key))
	if err != nil {
		return nil, err
	}

	ks := &KeySchedule{
		kind:   kind,
		params: params,
	}
	switch kind {
	case ScheduleSimplified:
		ks.keys = expandSimplified(key, params.Rounds)
	case ScheduleRijndael:
		ks.keys = expandRijndael(key, params.Rounds)
	default:
		return nil, fmt.Errorf("spn: unknown key schedule %v", kind)
	}
	return ks, nil
}

// Kind returns the schedule variant.
func (ks *KeySchedule) Kind() ScheduleKind {
	return ks.kind
}

// Params returns the key length and round count.
func (ks *KeySchedule) Params() Params {
	return ks.params
}

// Rounds returns Nr.
func (ks *KeySchedule) Rounds() int {
	return ks.params.Rounds
}

// Len returns the number of round keys, always Rounds()+1.
func (ks *KeySchedule) Len() int {
	return len(ks.keys)
}

// RoundKey returns a copy of round key i. It panics if i is out of range.
func (ks *KeySchedule) RoundKey(i int) RoundKey {
	return ks.keys[i]
}

// RoundKeys returns a copy of every round key in order.
func (ks *KeySchedule) RoundKeys() []RoundKey {
	out := make([]RoundKey, len(ks.keys))
	copy(out, ks.keys)
	return out
}

func expandSimplified(key []byte, nr int) []RoundKey {
	keys := make([]RoundKey, nr+1)
	copy(keys[0][:], key[:BlockSize])
	for i := 1; i <= nr; i++ {
		for j := range keys[i] {
			keys[i][j] = keys[i-1][j] + byte(i)
		}
	}
	return keys
}

func expandRijndael(key []byte, nr int) []RoundKey {
	nk := len(key) / 4
	total := cols * (nr + 1)

	w := make([][4]byte, total)
	for i := 0; i < nk; i++ {
		copy(w[i][:], key[4*i:])
	}

	rcon := byte(0x01)
	for i := nk; i < total; i++ {
		t := w[i-1]
		switch {
		case i%nk == 0:
			t = [4]byte{sbox[t[1]], sbox[t[2]], sbox[t[3]], sbox[t[0]]}
			t[0] ^= rcon
			rcon = gf.Mul(rcon, 0x02)
		case nk > 6 && i%nk == 4:
			t = [4]byte{sbox[t[0]], sbox[t[1]], sbox[t[2]], sbox[t[3]]}
		}
		for j := range t {
			w[i][j] = w[i-nk][j] ^ t[j]
		}
	}

	// Word c of a round key is column c of the state.
	keys := make([]RoundKey, nr+1)
	for r := range keys {
		for c := 0; c < cols; c++ {
			copy(keys[r][index(0, c):], w[cols*r+c][:])
		}
	}
	return keys
}
