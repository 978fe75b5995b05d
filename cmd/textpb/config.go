// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/bufbuild/textpb"
)

// config holds the settings shared by every subcommand.
type config struct {
	MaxDepth int
	Indent   string
	Compact  bool
	Jobs     int
	LogLevel zerolog.Level
}

func defaultConfig() config {
	return config{
		Jobs:     runtime.GOMAXPROCS(0),
		LogLevel: zerolog.WarnLevel,
	}
}

// textpb.toml key mapping to config.
type fileConfig struct {
	MaxDepth int    `toml:"max_depth"`
	Indent   string `toml:"indent"`
	Compact  bool   `toml:"compact"`
	Jobs     int    `toml:"jobs"`
	LogLevel string `toml:"log_level"`
}

// loadConfig reads a TOML config file and overlays the keys it defines on
// the defaults. An empty path yields the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q in %s", undecoded[0].String(), path)
	}

	if meta.IsDefined("max_depth") {
		if raw.MaxDepth < 0 {
			return config{}, fmt.Errorf("load config: max_depth must not be negative, got %d", raw.MaxDepth)
		}
		cfg.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("indent") {
		if strings.TrimLeft(raw.Indent, " \t") != "" {
			return config{}, fmt.Errorf("load config: indent must be blank, got %q", raw.Indent)
		}
		cfg.Indent = raw.Indent
	}
	if meta.IsDefined("compact") {
		cfg.Compact = raw.Compact
	}
	if meta.IsDefined("jobs") {
		if raw.Jobs <= 0 {
			return config{}, fmt.Errorf("load config: jobs must be positive, got %d", raw.Jobs)
		}
		cfg.Jobs = raw.Jobs
	}
	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return config{}, fmt.Errorf("load config: %w", err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// options returns the library options for the named input.
func (c config) options(filename string) textpb.Options {
	return textpb.Options{
		Filename: filename,
		MaxDepth: c.MaxDepth,
		Indent:   c.Indent,
		Compact:  c.Compact,
	}
}
