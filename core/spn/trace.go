// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

package spn

import "fmt"

// Op identifies a round layer in a Trace.
type Op int

const (
	OpInput Op = iota
	OpSubBytes
	OpShiftRows
	OpMixColumns
	OpAddRoundKey
	OpInvSubBytes
	OpInvShiftRows
	OpInvMixColumns
)

var opNames = [...]string{
	OpInput:         "Input",
	OpSubBytes:      "SubBytes",
	OpShiftRows:     "ShiftRows",
	OpMixColumns:    "MixColumns",
	OpAddRoundKey:   "AddRoundKey",
	OpInvSubBytes:   "InvSubBytes",
	OpInvShiftRows:  "InvShiftRows",
	OpInvMixColumns: "InvMixColumns",
}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Step is the state right after one layer was applied.
type Step struct {
	Round int
	Op    Op
	State State
}

// Trace records every intermediate state of one block operation. The
// first step is always OpInput.
type Trace struct {
	Decrypt bool
	Rounds  int
	Steps   []Step
}

// Output returns the final state, which is the operation's result.
func (t *Trace) Output() State {
	return t.Steps[len(t.Steps)-1].State
}

// EncryptTrace encrypts src and records each layer.
func (c *Cipher) EncryptTrace(src []byte) (*Trace, error) {
	return c.trace(src, false)
}

// DecryptTrace decrypts src and records each layer.
func (c *Cipher) DecryptTrace(src []byte) (*Trace, error) {
	return c.trace(src, true)
}

func (c *Cipher) trace(src []byte, decrypt bool) (*Trace, error) {
	s, err := NewState(src)
	if err != nil {
		return nil, err
	}

	nr := c.ks.Rounds()
	t := &Trace{
		Decrypt: decrypt,
		Rounds:  nr,
		// Input, the initial key addition and 4 layers per round, one fewer in the last.
		Steps: make([]Step, 0, 1+4*nr),
	}
	record := func(round int, op Op, s *State) {
		t.Steps = append(t.Steps, Step{Round: round, Op: op, State: *s})
	}

	if decrypt {
		record(nr, OpInput, s)
		c.decrypt(s, record)
	} else {
		record(0, OpInput, s)
		c.encrypt(s, record)
	}
	return t, nil
}
