// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

package blockfmt

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"

	"github.com/katzenpost/spn/core/spn"
)

// ExportFormat is a key schedule serialization.
type ExportFormat int

const (
	Text ExportFormat = iota
	TOML
	CBOR
)

func (f ExportFormat) String() string {
	switch f {
	case Text:
		return "text"
	case TOML:
		return "toml"
	case CBOR:
		return "cbor"
	default:
		return fmt.Sprintf("ExportFormat(%d)", int(f))
	}
}

// ParseExportFormat maps "text", "toml" or "cbor" to an ExportFormat.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return Text, nil
	case "toml":
		return TOML, nil
	case "cbor":
		return CBOR, nil
	default:
		return 0, fmt.Errorf("blockfmt: unknown export format '%v'", s)
	}
}

// ScheduleDocument is the serialized form of a key schedule. Round keys
// are hex in linear (column-major) byte order.
type ScheduleDocument struct {
	Schedule  string   `toml:"schedule" cbor:"1,keyasint"`
	KeyLength int      `toml:"key_length" cbor:"2,keyasint"`
	Rounds    int      `toml:"rounds" cbor:"3,keyasint"`
	RoundKeys []string `toml:"round_keys" cbor:"4,keyasint"`
}

// Document converts ks to its serializable form.
func Document(ks *spn.KeySchedule) *ScheduleDocument {
	p := ks.Params()
	doc := &ScheduleDocument{
		Schedule:  ks.Kind().String(),
		KeyLength: p.KeyLength,
		Rounds:    p.Rounds,
		RoundKeys: make([]string, 0, ks.Len()),
	}
	for _, rk := range ks.RoundKeys() {
		doc.RoundKeys = append(doc.RoundKeys, hex.EncodeToString(rk[:]))
	}
	return doc
}

var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// ExportSchedule writes ks to w in format f.
func ExportSchedule(w io.Writer, ks *spn.KeySchedule, f ExportFormat) error {
	doc := Document(ks)
	switch f {
	case Text:
		if _, err := fmt.Fprintf(w, "# %s schedule, %d byte key, %d rounds\n", doc.Schedule, doc.KeyLength, doc.Rounds); err != nil {
			return err
		}
		for i, rk := range doc.RoundKeys {
			if _, err := fmt.Fprintf(w, "round %2d: %s\n", i, rk); err != nil {
				return err
			}
		}
		return nil
	case TOML:
		return toml.NewEncoder(w).Encode(doc)
	case CBOR:
		b, err := cborEncMode.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("blockfmt: unknown export format %v", f)
	}
}

// DecodeSchedule parses a TOML or CBOR document written by ExportSchedule.
func DecodeSchedule(b []byte, f ExportFormat) (*ScheduleDocument, error) {
	doc := new(ScheduleDocument)
	switch f {
	case TOML:
		if _, err := toml.Decode(string(b), doc); err != nil {
			return nil, err
		}
	case CBOR:
		if err := cbor.Unmarshal(b, doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("blockfmt: cannot decode %v", f)
	}
	return doc, nil
}
