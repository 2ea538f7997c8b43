// config.go - spnctl configuration.
// Copyright (C) 2017  Yawning Angel.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config provides the spnctl configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/katzenpost/spn/core/spn"
)

const (
	defaultLogLevel     = "NOTICE"
	defaultSchedule     = "simplified"
	defaultEncoding     = "hex"
	defaultExportFormat = "text"
)

var defaultLogging = Logging{
	Disable: false,
	File:    "",
	Level:   defaultLogLevel,
}

// Logging is the spnctl logging configuration.
type Logging struct {
	// Disable disables logging entirely.
	Disable bool

	// File specifies the log file, if omitted stdout will be used.
	File string

	// Level specifies the log level.
	Level string
}

func (lCfg *Logging) validate() error {
	lvl := strings.ToUpper(lCfg.Level)
	switch lvl {
	case "ERROR", "WARNING", "NOTICE", "INFO", "DEBUG":
	case "":
		lvl = defaultLogLevel
	default:
		return fmt.Errorf("config: Logging: Level '%v' is invalid", lCfg.Level)
	}
	lCfg.Level = lvl // Force uppercase.
	return nil
}

// Cipher is the block cipher configuration.
type Cipher struct {
	// Schedule selects the key schedule, "simplified" or "rijndael".
	Schedule string

	// Encoding is how blocks are read and written, "hex" or "base64".
	// Keys are always hex.
	Encoding string

	// ExportFormat is the key schedule output format of the expand
	// command, "text", "toml" or "cbor".
	ExportFormat string
}

func (cCfg *Cipher) applyDefaults() {
	if cCfg.Schedule == "" {
		cCfg.Schedule = defaultSchedule
	}
	if cCfg.Encoding == "" {
		cCfg.Encoding = defaultEncoding
	}
	if cCfg.ExportFormat == "" {
		cCfg.ExportFormat = defaultExportFormat
	}
}

func (cCfg *Cipher) validate() error {
	kind, err := spn.ParseScheduleKind(cCfg.Schedule)
	if err != nil {
		return fmt.Errorf("config: Cipher: %v", err)
	}
	cCfg.Schedule = kind.String()

	cCfg.Encoding = strings.ToLower(cCfg.Encoding)
	switch cCfg.Encoding {
	case "hex", "base64":
	default:
		return fmt.Errorf("config: Cipher: Encoding '%v' is invalid", cCfg.Encoding)
	}

	cCfg.ExportFormat = strings.ToLower(cCfg.ExportFormat)
	switch cCfg.ExportFormat {
	case "text", "toml", "cbor":
	default:
		return fmt.Errorf("config: Cipher: ExportFormat '%v' is invalid", cCfg.ExportFormat)
	}
	return nil
}

// ScheduleKind returns the parsed key schedule. Only valid after
// FixupAndValidate.
func (cCfg *Cipher) ScheduleKind() spn.ScheduleKind {
	kind, err := spn.ParseScheduleKind(cCfg.Schedule)
	if err != nil {
		panic("BUG: config: ScheduleKind() on unvalidated config: " + err.Error())
	}
	return kind
}

// Config is the top level spnctl configuration.
type Config struct {
	Logging *Logging
	Cipher  *Cipher
}

// FixupAndValidate applies defaults to config entries and validates the
// configuration sections.
func (cfg *Config) FixupAndValidate() error {
	if cfg.Logging == nil {
		l := defaultLogging
		cfg.Logging = &l
	}
	if cfg.Cipher == nil {
		cfg.Cipher = &Cipher{}
	}
	cfg.Cipher.applyDefaults()

	if err := cfg.Logging.validate(); err != nil {
		return err
	}
	return cfg.Cipher.validate()
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := new(Config)
	if err := cfg.FixupAndValidate(); err != nil {
		panic("BUG: config: defaults are invalid: " + err.Error())
	}
	return cfg
}

// Load parses and validates the provided buffer b as a config file body and
// returns the Config.
func Load(b []byte) (*Config, error) {
	if b == nil {
		return nil, errors.New("config: no configuration provided")
	}

	cfg := new(Config)
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("config: Undecoded keys in config file: %v", undecoded)
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses and validates the provided file and returns the
// Config.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return Load(b)
}
