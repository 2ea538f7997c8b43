// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

package blockfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katzenpost/spn/core/spn"
)

func testSchedule(t *testing.T, kind spn.ScheduleKind) *spn.KeySchedule {
	key, err := ParseKey("2b7e151628aed2a6abf7158809cf4f3c")
	require.NoError(t, err)
	ks, err := spn.ExpandKeyKind(key, kind)
	require.NoError(t, err)
	return ks
}

func TestDocument(t *testing.T) {
	doc := Document(testSchedule(t, spn.ScheduleRijndael))
	assert.Equal(t, "rijndael", doc.Schedule)
	assert.Equal(t, 16, doc.KeyLength)
	assert.Equal(t, 10, doc.Rounds)
	require.Len(t, doc.RoundKeys, 11)
	assert.Equal(t, "2b7e151628aed2a6abf7158809cf4f3c", doc.RoundKeys[0])
	assert.Equal(t, "d014f9a8c9ee2589e13f0cc8b6630ca6", doc.RoundKeys[10])
}

func TestExportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportSchedule(&buf, testSchedule(t, spn.ScheduleSimplified), Text))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "# simplified schedule, 16 byte key, 10 rounds", lines[0])
	assert.Equal(t, "round  0: 2b7e151628aed2a6abf7158809cf4f3c", lines[1])
	assert.Equal(t, "round  1: 2c7f161729afd3a7acf816890ad0503d", lines[2])
}

func TestExportRoundTrip(t *testing.T) {
	ks := testSchedule(t, spn.ScheduleSimplified)
	for _, f := range []ExportFormat{TOML, CBOR} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, ExportSchedule(&buf, ks, f))

			doc, err := DecodeSchedule(buf.Bytes(), f)
			require.NoError(t, err)
			assert.Equal(t, Document(ks), doc)
		})
	}

	_, err := DecodeSchedule([]byte("x"), Text)
	assert.Error(t, err)
	assert.Error(t, ExportSchedule(&bytes.Buffer{}, ks, ExportFormat(9)))
}

func TestCBORIsDeterministic(t *testing.T) {
	ks := testSchedule(t, spn.ScheduleRijndael)
	var a, b bytes.Buffer
	require.NoError(t, ExportSchedule(&a, ks, CBOR))
	require.NoError(t, ExportSchedule(&b, ks, CBOR))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("TOML")
	require.NoError(t, err)
	assert.Equal(t, TOML, f)
	_, err = ParseExportFormat("yaml")
	assert.Error(t, err)
}
