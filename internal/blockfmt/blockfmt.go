// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

// Package blockfmt converts keys and blocks between their textual forms
// and the raw bytes the cipher engine operates on.
package blockfmt

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/katzenpost/spn/core/spn"
)

// Encoding is a textual block representation.
type Encoding int

const (
	Hex Encoding = iota
	Base64
)

func (e Encoding) String() string {
	switch e {
	case Hex:
		return "hex"
	case Base64:
		return "base64"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// ParseEncoding maps "hex" or "base64" to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "hex", "":
		return Hex, nil
	case "base64":
		return Base64, nil
	default:
		return 0, fmt.Errorf("blockfmt: unknown encoding '%v'", s)
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.ToLower(stripSpace(s)), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("blockfmt: malformed hex: %v", err)
	}
	return b, nil
}

// ParseKey decodes a 32, 48 or 64 character hex key. Whitespace and a
// leading 0x are ignored.
func ParseKey(s string) ([]byte, error) {
	key, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	if _, err := spn.ParamsForKeyLength(len(key)); err != nil {
		return nil, fmt.Errorf("blockfmt: %w", err)
	}
	return key, nil
}

// ParseBlock decodes exactly one block.
func ParseBlock(s string, enc Encoding) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	switch enc {
	case Hex:
		b, err = decodeHex(s)
	case Base64:
		b, err = base64.StdEncoding.DecodeString(stripSpace(s))
		if err != nil {
			err = fmt.Errorf("blockfmt: malformed base64: %v", err)
		}
	default:
		err = fmt.Errorf("blockfmt: unknown encoding %v", enc)
	}
	if err != nil {
		return nil, err
	}
	if len(b) != spn.BlockSize {
		return nil, fmt.Errorf("blockfmt: %w", spn.BlockSizeError(len(b)))
	}
	return b, nil
}

// TextBlock returns the bytes of s, which must be exactly one block long.
// Padding and truncation are the caller's business.
func TextBlock(s string) ([]byte, error) {
	if len(s) != spn.BlockSize {
		return nil, fmt.Errorf("blockfmt: text is %d bytes: %w", len(s), spn.BlockSizeError(len(s)))
	}
	return []byte(s), nil
}

// FormatBlock encodes b.
func FormatBlock(b []byte, enc Encoding) string {
	if enc == Base64 {
		return base64.StdEncoding.EncodeToString(b)
	}
	return hex.EncodeToString(b)
}

// DecodeText interprets b as UTF-8, replacing ill-formed sequences with
// U+FFFD instead of failing.
func DecodeText(b []byte) string {
	s, _, err := transform.String(runes.ReplaceIllFormed(), string(b))
	if err != nil {
		// ReplaceIllFormed never fails on complete input.
		return strings.ToValidUTF8(string(b), "�")
	}
	return s
}
