// SPDX-FileCopyrightText: Copyright (C) 2025  Katzenpost Developers
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"
	"gopkg.in/op/go-logging.v1"

	"github.com/katzenpost/spn/common"
	"github.com/katzenpost/spn/config"
	"github.com/katzenpost/spn/core/log"
	"github.com/katzenpost/spn/core/spn"
	"github.com/katzenpost/spn/internal/blockfmt"
	"github.com/katzenpost/spn/internal/reference"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	matrixStyle = lipgloss.NewStyle().PaddingLeft(2)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Flags holds the global command line flags.
type Flags struct {
	ConfigFile string
	Schedule   string
	Encoding   string
	LogLevel   string
}

// app is the state shared by every subcommand once the config is loaded.
type app struct {
	cfg        *config.Config
	logBackend *log.Backend
	log        *logging.Logger
	encoding   blockfmt.Encoding
}

func (a *app) setup(flags *Flags, stderr io.Writer) error {
	var err error
	if flags.ConfigFile != "" {
		a.cfg, err = config.LoadFile(flags.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config file '%v': %v", flags.ConfigFile, err)
		}
	} else {
		a.cfg = config.Default()
	}

	if flags.Schedule != "" {
		a.cfg.Cipher.Schedule = flags.Schedule
	}
	if flags.Encoding != "" {
		a.cfg.Cipher.Encoding = flags.Encoding
	}
	if flags.LogLevel != "" {
		a.cfg.Logging.Level = flags.LogLevel
	}
	if err := a.cfg.FixupAndValidate(); err != nil {
		return fmt.Errorf("invalid argument: %v", err)
	}

	if a.cfg.Logging.File == "" && !a.cfg.Logging.Disable {
		a.logBackend, err = log.NewWithWriter(stderr, a.cfg.Logging.Level)
	} else {
		a.logBackend, err = log.New(a.cfg.Logging.File, a.cfg.Logging.Level, a.cfg.Logging.Disable)
	}
	if err != nil {
		return err
	}
	a.log = a.logBackend.GetLogger("spnctl")

	a.encoding, err = blockfmt.ParseEncoding(a.cfg.Cipher.Encoding)
	return err
}

func (a *app) cipher(keyHex string) (*spn.Cipher, error) {
	key, err := blockfmt.ParseKey(keyHex)
	if err != nil {
		return nil, err
	}
	kind := a.cfg.Cipher.ScheduleKind()
	c, err := spn.NewCipher(key, spn.WithSchedule(kind))
	if err != nil {
		return nil, err
	}
	a.log.Debugf("keyed %v schedule, %d byte key, %d rounds", kind, len(key), c.Rounds())
	return c, nil
}

// input resolves the mutually exclusive --block and --text flags.
func (a *app) input(block, text string) ([]byte, error) {
	switch {
	case block != "" && text != "":
		return nil, errors.New("exactly one of --block or --text must be given")
	case text != "":
		return blockfmt.TextBlock(text)
	case block != "":
		return blockfmt.ParseBlock(block, a.encoding)
	default:
		return nil, errors.New("exactly one of --block or --text must be given")
	}
}

func newRootCommand() *cobra.Command {
	var flags Flags
	a := new(app)

	cmd := &cobra.Command{
		Use:   "spnctl",
		Short: "AES-style block cipher engine",
		Long: `spnctl drives the SPN block cipher engine one 16 byte block at a time.

Keys are hex (32, 48 or 64 characters, selecting 10, 12 or 14 rounds).
Blocks are hex or base64 as configured, or exactly 16 bytes of text.

Two key schedules are available. "simplified" derives each round key by
adding the round number to every byte of the previous one. "rijndael" is
the standard AES key expansion, and makes the engine interoperable with AES.`,
		Example: `  # Encrypt a text block with the simplified schedule
  spnctl encrypt --key 2b7e151628aed2a6abf7158809cf4f3c --text "Hello AES World!"

  # Decrypt and show the result as text
  spnctl decrypt --key 2b7e151628aed2a6abf7158809cf4f3c --block <hex> --as-text

  # Show every intermediate state
  spnctl trace --key 2b7e151628aed2a6abf7158809cf4f3c --text "Hello AES World!"

  # Export the AES-256 key schedule as CBOR
  spnctl expand --schedule rijndael --key <64 hex chars> --format cbor -o ks.cbor`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(&flags, cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logBackend != nil {
				return a.logBackend.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "f", "",
		"path to an optional configuration file (TOML format)")
	cmd.PersistentFlags().StringVar(&flags.Schedule, "schedule", "",
		"key schedule: simplified or rijndael (overrides the config file)")
	cmd.PersistentFlags().StringVar(&flags.Encoding, "encoding", "",
		"block encoding: hex or base64 (overrides the config file)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "",
		"log level: ERROR, WARNING, NOTICE, INFO or DEBUG")

	cmd.AddCommand(
		newEncryptCommand(a),
		newDecryptCommand(a),
		newExpandCommand(a),
		newTraceCommand(a),
		newVerifyCommand(a),
	)
	return cmd
}

func newEncryptCommand(a *app) *cobra.Command {
	var key, block, text string
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt one block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cipher(key)
			if err != nil {
				return err
			}
			pt, err := a.input(block, text)
			if err != nil {
				return err
			}
			ct := make([]byte, spn.BlockSize)
			c.Encrypt(ct, pt)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), blockfmt.FormatBlock(ct, a.encoding))
			return err
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "hex encoded key (required)")
	cmd.Flags().StringVarP(&block, "block", "b", "", "plaintext block")
	cmd.Flags().StringVarP(&text, "text", "t", "", "plaintext as exactly 16 bytes of text")
	cmd.MarkFlagRequired("key")
	return cmd
}

func newDecryptCommand(a *app) *cobra.Command {
	var key, block string
	var asText bool
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt one block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cipher(key)
			if err != nil {
				return err
			}
			ct, err := blockfmt.ParseBlock(block, a.encoding)
			if err != nil {
				return err
			}
			pt := make([]byte, spn.BlockSize)
			c.Decrypt(pt, ct)

			out := blockfmt.FormatBlock(pt, a.encoding)
			if asText {
				out = blockfmt.DecodeText(pt)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "hex encoded key (required)")
	cmd.Flags().StringVarP(&block, "block", "b", "", "ciphertext block (required)")
	cmd.Flags().BoolVar(&asText, "as-text", false, "print the plaintext as UTF-8 text")
	cmd.MarkFlagRequired("key")
	cmd.MarkFlagRequired("block")
	return cmd
}

func newExpandCommand(a *app) *cobra.Command {
	var key, format, output string
	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Print the round key schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cipher(key)
			if err != nil {
				return err
			}
			if format == "" {
				format = a.cfg.Cipher.ExportFormat
			}
			f, err := blockfmt.ParseExportFormat(format)
			if err != nil {
				return fmt.Errorf("invalid argument: %v", err)
			}

			w := cmd.OutOrStdout()
			if output != "" {
				out, err := os.Create(output)
				if err != nil {
					return err
				}
				defer out.Close()
				w = out
			}
			if err := blockfmt.ExportSchedule(w, c.Schedule(), f); err != nil {
				a.log.Errorf("failed to export schedule: %v", err)
				return err
			}
			a.log.Noticef("exported %d round keys as %v", c.Schedule().Len(), f)
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "hex encoded key (required)")
	cmd.Flags().StringVar(&format, "format", "", "output format: text, toml or cbor")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write to (default: stdout)")
	cmd.MarkFlagRequired("key")
	return cmd
}

func newTraceCommand(a *app) *cobra.Command {
	var key, block, text string
	var decrypt bool
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the state after every round layer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cipher(key)
			if err != nil {
				return err
			}
			in, err := a.input(block, text)
			if err != nil {
				return err
			}

			var tr *spn.Trace
			if decrypt {
				tr, err = c.DecryptTrace(in)
			} else {
				tr, err = c.EncryptTrace(in)
			}
			if err != nil {
				return err
			}

			w := colorprofile.NewWriter(cmd.OutOrStdout(), os.Environ())
			return renderTrace(w, tr, a.encoding)
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "hex encoded key (required)")
	cmd.Flags().StringVarP(&block, "block", "b", "", "input block")
	cmd.Flags().StringVarP(&text, "text", "t", "", "input as exactly 16 bytes of text")
	cmd.Flags().BoolVarP(&decrypt, "decrypt", "d", false, "trace decryption instead of encryption")
	cmd.MarkFlagRequired("key")
	return cmd
}

func renderTrace(w io.Writer, tr *spn.Trace, enc blockfmt.Encoding) error {
	for _, step := range tr.Steps {
		header := fmt.Sprintf("round %2d  %s", step.Round, step.Op)
		if _, err := fmt.Fprintln(w, headerStyle.Render(header)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, matrixStyle.Render(step.State.String())); err != nil {
			return err
		}
	}
	out := tr.Output()
	_, err := fmt.Fprintf(w, "output: %s\n", blockfmt.FormatBlock(out[:], enc))
	return err
}

func newVerifyCommand(a *app) *cobra.Command {
	var key, block, text string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare the engine in rijndael mode against a reference AES",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := blockfmt.ParseKey(key)
			if err != nil {
				return err
			}
			in, err := a.input(block, text)
			if err != nil {
				return err
			}
			r, err := reference.Verify(k, in)
			if err != nil {
				return err
			}

			w := colorprofile.NewWriter(cmd.OutOrStdout(), os.Environ())
			fmt.Fprintf(w, "reference: %s\n", blockfmt.FormatBlock(r.Expected, a.encoding))
			fmt.Fprintf(w, "engine:    %s\n", blockfmt.FormatBlock(r.Actual, a.encoding))
			if !r.Match() {
				fmt.Fprintln(w, failStyle.Render("MISMATCH"))
				a.log.Errorf("engine disagrees with reference AES (round trip: %v)", r.RoundTrip)
				return errors.New("engine output does not match reference AES")
			}
			fmt.Fprintln(w, okStyle.Render("OK"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "hex encoded key (required)")
	cmd.Flags().StringVarP(&block, "block", "b", "", "plaintext block")
	cmd.Flags().StringVarP(&text, "text", "t", "", "plaintext as exactly 16 bytes of text")
	cmd.MarkFlagRequired("key")
	return cmd
}

func main() {
	common.ExecuteWithFang(newRootCommand())
}
