// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katzenpost/spn/core/spn"
	"github.com/katzenpost/spn/internal/blockfmt"
)

const testKey = "2b7e151628aed2a6abf7158809cf4f3c"

func run(t *testing.T, args ...string) (string, string, error) {
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestEncryptDecryptText(t *testing.T) {
	out, _, err := run(t, "encrypt", "--key", testKey, "--text", "Hello AES World!")
	require.NoError(t, err)
	ctHex := strings.TrimSpace(out)
	require.Len(t, ctHex, 2*spn.BlockSize)

	key, err := hex.DecodeString(testKey)
	require.NoError(t, err)
	expected, err := spn.EncryptBlock([]byte("Hello AES World!"), key)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(expected), ctHex)

	out, _, err = run(t, "decrypt", "--key", testKey, "--block", ctHex, "--as-text")
	require.NoError(t, err)
	assert.Equal(t, "Hello AES World!\n", out)

	out, _, err = run(t, "decrypt", "--key", testKey, "--block", ctHex)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString([]byte("Hello AES World!"))+"\n", out)
}

func TestEncryptRijndaelSchedule(t *testing.T) {
	out, _, err := run(t, "encrypt", "--schedule", "rijndael",
		"--key", "000102030405060708090a0b0c0d0e0f",
		"--block", "00112233445566778899aabbccddeeff")
	require.NoError(t, err)
	assert.Equal(t, "69c4e0d86a7b0430d8cdb78070b4c55a\n", out)
}

func TestConfigFileEncoding(t *testing.T) {
	f := filepath.Join(t.TempDir(), "spnctl.toml")
	body := "[Logging]\nLevel = \"DEBUG\"\n\n[Cipher]\nEncoding = \"base64\"\n"
	require.NoError(t, os.WriteFile(f, []byte(body), 0600))

	out, stderr, err := run(t, "-f", f, "encrypt", "--key", testKey, "--text", "Hello AES World!")
	require.NoError(t, err)
	ct, err := base64.StdEncoding.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Len(t, ct, spn.BlockSize)
	assert.Contains(t, stderr, "simplified schedule, 16 byte key, 10 rounds")

	_, _, err = run(t, "-f", filepath.Join(t.TempDir(), "missing.toml"), "encrypt", "--key", testKey, "--text", "Hello AES World!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestExpand(t *testing.T) {
	out, _, err := run(t, "expand", "--key", testKey)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "round  0: "+testKey, lines[1])

	f := filepath.Join(t.TempDir(), "ks.cbor")
	_, stderr, err := run(t, "expand", "--schedule", "rijndael", "--key", testKey, "--format", "cbor", "-o", f)
	require.NoError(t, err)
	assert.Contains(t, stderr, "exported 11 round keys as cbor")

	b, err := os.ReadFile(f)
	require.NoError(t, err)
	doc, err := blockfmt.DecodeSchedule(b, blockfmt.CBOR)
	require.NoError(t, err)
	assert.Equal(t, "rijndael", doc.Schedule)
	assert.Equal(t, "d014f9a8c9ee2589e13f0cc8b6630ca6", doc.RoundKeys[10])

	_, _, err = run(t, "expand", "--key", testKey, "--format", "yaml")
	assert.Error(t, err)
}

func TestTrace(t *testing.T) {
	out, _, err := run(t, "trace", "--key", testKey, "--text", "Hello AES World!")
	require.NoError(t, err)
	assert.Contains(t, out, "round  0  Input")
	assert.Contains(t, out, "round  9  MixColumns")
	assert.NotContains(t, out, "round 10  MixColumns")

	enc, _, err := run(t, "encrypt", "--key", testKey, "--text", "Hello AES World!")
	require.NoError(t, err)
	assert.Contains(t, out, "output: "+strings.TrimSpace(enc))

	out, _, err = run(t, "trace", "--decrypt", "--key", testKey, "--block", strings.TrimSpace(enc))
	require.NoError(t, err)
	assert.Contains(t, out, "InvMixColumns")
	assert.Contains(t, out, "output: "+hex.EncodeToString([]byte("Hello AES World!")))
}

func TestVerify(t *testing.T) {
	out, _, err := run(t, "verify", "--key", testKey, "--text", "Hello AES World!")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
	assert.NotContains(t, out, "MISMATCH")
}

func TestInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"short key", []string{"encrypt", "--key", "2b7e", "--text", "Hello AES World!"}, spn.ErrInvalidKeyLength},
		{"long text", []string{"encrypt", "--key", testKey, "--text", "Hello AES World!!"}, spn.ErrInvalidBlockLength},
		{"short block", []string{"decrypt", "--key", testKey, "--block", "0011"}, spn.ErrInvalidBlockLength},
		{"both inputs", []string{"encrypt", "--key", testKey, "--text", "Hello AES World!", "--block", "00"}, nil},
		{"no input", []string{"trace", "--key", testKey}, nil},
		{"missing key", []string{"encrypt", "--text", "Hello AES World!"}, nil},
		{"bad schedule", []string{"encrypt", "--schedule", "des", "--key", testKey, "--text", "Hello AES World!"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}
