// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

package spn

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err, "bad test vector %q", s)
	return b
}

func keyOfLength(n int) []byte {
	k := make([]byte, n)
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

func TestParamsForKeyLength(t *testing.T) {
	for _, tc := range []struct {
		keyLen int
		rounds int
	}{
		{16, 10},
		{24, 12},
		{32, 14},
	} {
		p, err := ParamsForKeyLength(tc.keyLen)
		require.NoError(t, err)
		assert.Equal(t, Params{KeyLength: tc.keyLen, Rounds: tc.rounds}, p)

		for _, kind := range []ScheduleKind{ScheduleSimplified, ScheduleRijndael} {
			ks, err := ExpandKeyKind(keyOfLength(tc.keyLen), kind)
			require.NoError(t, err)
			assert.Equal(t, tc.rounds, ks.Rounds())
			assert.Equal(t, tc.rounds+1, ks.Len())
			assert.Len(t, ks.RoundKeys(), tc.rounds+1)
			assert.Equal(t, kind, ks.Kind())
		}
	}

	for _, n := range []int{0, 1, 15, 17, 20, 31, 33, 64} {
		_, err := ParamsForKeyLength(n)
		assert.ErrorIs(t, err, ErrInvalidKeyLength, "length %d", n)
		_, err = ExpandKey(make([]byte, n))
		assert.ErrorIs(t, err, ErrInvalidKeyLength, "length %d", n)
		assert.Equal(t, KeySizeError(n), err)
	}
}

func TestSimplifiedSchedule(t *testing.T) {
	assert := assert.New(t)

	key := mustHex(t, "2b7e151628aed2a6abf7158809cf4f3c")
	ks, err := ExpandKey(key)
	require.NoError(t, err)
	require.Equal(t, 11, ks.Len())

	rk0 := ks.RoundKey(0)
	assert.Equal(key, rk0[:], "round key 0 is the master key")
	assert.Equal(byte(0x2b), (*State)(&rk0).At(0, 0))
	assert.Equal(byte(0x7e), (*State)(&rk0).At(1, 0))
	assert.Equal(byte(0x28), (*State)(&rk0).At(0, 1))

	rk1 := ks.RoundKey(1)
	assert.Equal(mustHex(t, "2c7f161729afd3a7acf816890ad0503d"), rk1[:])

	// Round key i is the master key plus 1+2+...+i.
	for i := 0; i < ks.Len(); i++ {
		rk := ks.RoundKey(i)
		for j := range rk {
			assert.Equal(key[j]+byte(i*(i+1)/2), rk[j], "round %d byte %d", i, j)
		}
	}
}

func TestSimplifiedScheduleTruncatesLongKeys(t *testing.T) {
	for _, n := range []int{24, 32} {
		key := keyOfLength(n)
		ks, err := ExpandKey(key)
		require.NoError(t, err)
		rk0 := ks.RoundKey(0)
		assert.Equal(t, key[:BlockSize], rk0[:])
	}
}

func TestRijndaelScheduleVectors(t *testing.T) {
	// FIPS-197 appendix A.
	vectors := []struct {
		key   string
		last  string
		round int
	}{
		{
			key:   "2b7e151628aed2a6abf7158809cf4f3c",
			last:  "d014f9a8c9ee2589e13f0cc8b6630ca6",
			round: 10,
		},
		{
			key:   "8e73b0f7da0e6452c810f32b809079e562f8ead2522c6b7b",
			last:  "e98ba06f448c773c8ecc720401002202",
			round: 12,
		},
		{
			key:   "603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4",
			last:  "fe4890d1e6188d0b046df344706c631e",
			round: 14,
		},
	}
	for _, v := range vectors {
		ks, err := ExpandKeyKind(mustHex(t, v.key), ScheduleRijndael)
		require.NoError(t, err)
		require.Equal(t, v.round, ks.Rounds())

		rk0 := ks.RoundKey(0)
		assert.Equal(t, mustHex(t, v.key)[:BlockSize], rk0[:])
		last := ks.RoundKey(v.round)
		assert.Equal(t, mustHex(t, v.last), last[:], "key %s", v.key)
	}
}

func TestScheduleIsImmutable(t *testing.T) {
	key := keyOfLength(16)
	ks, err := ExpandKey(key)
	require.NoError(t, err)

	rks := ks.RoundKeys()
	rks[3][0] ^= 0xff
	rk := ks.RoundKey(3)
	rk[1] ^= 0xff
	key[0] ^= 0xff

	fresh, err := ExpandKey(keyOfLength(16))
	require.NoError(t, err)
	assert.Equal(t, fresh.RoundKeys(), ks.RoundKeys())
}

func TestParseScheduleKind(t *testing.T) {
	for in, want := range map[string]ScheduleKind{
		"":           ScheduleSimplified,
		"simplified": ScheduleSimplified,
		"Rijndael":   ScheduleRijndael,
		" aes ":      ScheduleRijndael,
	} {
		got, err := ParseScheduleKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseScheduleKind("des")
	assert.Error(t, err)

	assert.Equal(t, "simplified", ScheduleSimplified.String())
	assert.Equal(t, "rijndael", ScheduleRijndael.String())
	assert.Equal(t, "ScheduleKind(7)", ScheduleKind(7).String())
}
