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
	"io"
	"os"
	"strings"

	"github.com/maruel/subcommands"

	"github.com/bufbuild/textpb"
	"github.com/bufbuild/textpb/alloc"
	"github.com/bufbuild/textpb/message"
	"github.com/bufbuild/textpb/reporter"
	"github.com/bufbuild/textpb/source"
)

var cmdFmt = &subcommands.Command{
	UsageLine: "fmt -descriptor_set <set> -message <type> [-w] [-config <toml>] <files...>",
	ShortDesc: "rewrites text-format files in canonical form.",
	LongDesc: `Parses each file as a message of the given type and prints it back in
declaration order. Output goes to stdout in the order the files were given,
unless -w is set, in which case files are rewritten in place.

A file that fails to parse is reported on stderr with its location and is
left untouched.`,
	CommandRun: func() subcommands.CommandRun {
		r := &fmtRun{}
		r.registerBaseFlags()
		r.Flags.BoolVar(&r.write, "w", false, "Write the result to the source file instead of stdout.")
		return r
	},
}

type fmtRun struct {
	baseRun

	write bool
}

func (r *fmtRun) Run(a subcommands.Application, args []string, _ subcommands.Env) int {
	s, err := r.start(a, args)
	if err != nil {
		return r.usage(a, err)
	}

	outputs := make([]string, len(args))
	failures := make([]string, len(args))
	err = s.each(args, func(i int, path string, arena *alloc.Arena) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out, failure := r.format(s, path, data, arena)
		if failure != "" {
			failures[i] = failure
			s.log.Debug().Str("file", path).Msg("not formatted")
			return nil
		}
		if !r.write {
			outputs[i] = out
			return nil
		}
		if out == string(data) {
			return nil
		}
		s.log.Info().Str("file", path).Msg("rewriting")
		return os.WriteFile(path, []byte(out), 0o644)
	})
	if err != nil {
		fmt.Fprintf(a.GetErr(), "%s: %s\n", a.GetName(), err)
		return exitBadFile
	}

	code := exitOK
	for _, failure := range failures {
		if failure != "" {
			io.WriteString(a.GetErr(), failure)
			code = exitFailed
		}
	}
	var buf bytes.Buffer
	for _, out := range outputs {
		buf.WriteString(out)
	}
	a.GetOut().Write(buf.Bytes())
	return code
}

// format renders one file. On failure it returns a rendered diagnostic
// instead.
func (r *fmtRun) format(s *session, path string, data []byte, arena *alloc.Arena) (string, string) {
	opts := s.config.options(path)
	m, res := opts.FromString(s.md, string(data), arena)
	if !res.OK() {
		return "", reporter.Render(source.NewFile(path, data), res.Err)
	}
	defer message.Free(arena, m)

	text, res := opts.ToString(m, arena)
	if !res.OK() {
		return "", res.Text + "\n"
	}
	out := strings.Clone(text)
	textpb.FreeString(arena, text)
	if opts.Compact && out != "" {
		out += "\n"
	}
	return out, ""
}
