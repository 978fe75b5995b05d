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
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/maruel/subcommands"

	"github.com/bufbuild/textpb/alloc"
	"github.com/bufbuild/textpb/message"
	"github.com/bufbuild/textpb/reporter"
	"github.com/bufbuild/textpb/source"
)

var cmdCheck = &subcommands.Command{
	UsageLine: "check -descriptor_set <set> -message <type> [-json] [-config <toml>] <files...>",
	ShortDesc: "parses text-format files and reports problems.",
	LongDesc: `Parses each file as a message of the given type and prints one line per
file: either the error that stopped the parse, or the completeness of the
message, listing any required fields that are unset.

With -json, one JSON object is printed per file instead.

The exit code is 1 if any file failed to parse. Incomplete messages are not
failures.`,
	CommandRun: func() subcommands.CommandRun {
		r := &checkRun{}
		r.registerBaseFlags()
		r.Flags.BoolVar(&r.json, "json", false, "Print a JSON object per file.")
		return r
	},
}

type checkRun struct {
	baseRun

	json bool
}

// checkReport is the outcome of checking one file.
type checkReport struct {
	File         string   `json:"file"`
	Code         int      `json:"code"`
	Status       string   `json:"status"`
	Text         string   `json:"text,omitempty"`
	Completeness string   `json:"completeness,omitempty"`
	Missing      []string `json:"missing,omitempty"`
}

func (r *checkRun) Run(a subcommands.Application, args []string, _ subcommands.Env) int {
	s, err := r.start(a, args)
	if err != nil {
		return r.usage(a, err)
	}

	reports := make([]checkReport, len(args))
	// Read failures are reported per file, so workers never fail.
	_ = s.each(args, func(i int, path string, arena *alloc.Arena) error {
		reports[i] = check(s, path, arena)
		return nil
	})

	code := exitOK
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, report := range reports {
		if report.Code != int(reporter.OK) {
			code = exitFailed
		}
		if r.json {
			if err := enc.Encode(report); err != nil {
				fmt.Fprintf(a.GetErr(), "%s: %s\n", a.GetName(), err)
				return exitBadFile
			}
			continue
		}
		buf.WriteString(report.String())
		buf.WriteByte('\n')
	}
	a.GetOut().Write(buf.Bytes())
	return code
}

func check(s *session, path string, arena *alloc.Arena) checkReport {
	report := checkReport{File: path}

	var res reporter.Result
	f, err := os.Open(path)
	if err != nil {
		res = reporter.Failure(reporter.Error(source.UnknownPos(path), reporter.IOError, err))
	} else {
		var m *message.Message
		m, res = s.config.options(path).FromFile(s.md, f, arena)
		f.Close()
		if m != nil {
			message.Free(arena, m)
		}
	}

	report.Code = int(res.Code)
	report.Status = res.Code.String()
	if !res.OK() {
		report.Text = res.Text
		s.log.Debug().Str("file", path).Stringer("code", res.Code).Msg("check failed")
		return report
	}
	report.Completeness = res.Completeness.String()
	report.Missing = res.Missing
	return report
}

// String renders the report as one line of text.
func (r checkReport) String() string {
	if r.Text != "" {
		return r.Text
	}
	if len(r.Missing) == 0 {
		return fmt.Sprintf("%s: %s", r.File, r.Completeness)
	}
	return fmt.Sprintf("%s: %s, missing %s", r.File, r.Completeness, strings.Join(r.Missing, ", "))
}
