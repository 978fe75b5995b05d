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


// Command textpb formats and checks protobuf text-format files against a
// compiled schema.
//
// The schema is read from a binary FileDescriptorSet, as produced by
// "protoc --descriptor_set_out" or "buf build -o":
//
//	textpb check -descriptor_set set.binpb -message pkg.Type a.txtpb b.txtpb
//	textpb fmt -descriptor_set set.binpb -message pkg.Type -w a.txtpb
package main

import (
	"os"

	"github.com/maruel/subcommands"
)

func newApplication() *subcommands.DefaultApplication {
	return &subcommands.DefaultApplication{
		Name:  "textpb",
		Title: "Formats and checks protobuf text-format files.",
		// Keep in alphabetical order of their name.
		Commands: []*subcommands.Command{
			cmdCheck,
			cmdFmt,
			subcommands.CmdHelp,
		},
	}
}

func main() {
	os.Exit(subcommands.Run(newApplication(), nil))
}
