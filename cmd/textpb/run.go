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
	"errors"
	"fmt"
	"os"

	"github.com/maruel/subcommands"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/bufbuild/textpb/alloc"
	"github.com/bufbuild/textpb/walk"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	exitBadFile = 3
)

// baseRun holds the flags shared by every subcommand.
type baseRun struct {
	subcommands.CommandRunBase

	descriptorSet string
	message       string
	configPath    string
}

func (r *baseRun) registerBaseFlags() {
	r.Flags.StringVar(&r.descriptorSet, "descriptor_set", "", "Path to a binary FileDescriptorSet holding the schema. Required.")
	r.Flags.StringVar(&r.message, "message", "", "Fully-qualified name of the message type of every input. Required.")
	r.Flags.StringVar(&r.configPath, "config", "", "Path to a TOML config file.")
}

// session is everything a subcommand needs once its flags are validated.
type session struct {
	config config
	log    zerolog.Logger
	md     *walk.Message
}

func (r *baseRun) start(a subcommands.Application, args []string) (*session, error) {
	switch {
	case r.descriptorSet == "":
		return nil, errors.New("-descriptor_set is required")
	case r.message == "":
		return nil, errors.New("-message is required")
	case len(args) == 0:
		return nil, errors.New("no input files")
	}

	cfg, err := loadConfig(r.configPath)
	if err != nil {
		return nil, err
	}
	md, err := loadMessage(r.descriptorSet, protoreflect.FullName(r.message))
	if err != nil {
		return nil, err
	}
	s := &session{
		config: cfg,
		log:    newLogger(a.GetErr(), cfg.LogLevel),
		md:     md,
	}
	s.log.Debug().Str("message", r.message).Int("files", len(args)).Int("jobs", cfg.Jobs).Msg("starting")
	return s, nil
}

// usage reports a usage error.
func (r *baseRun) usage(a subcommands.Application, err error) int {
	fmt.Fprintf(a.GetErr(), "%s: %s\n", a.GetName(), err)
	return exitUsage
}

// loadMessage reads a binary descriptor set and returns the named message.
func loadMessage(path string, name protoreflect.FullName) (*walk.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read descriptor set: %w", err)
	}
	var fdset descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &fdset); err != nil {
		return nil, fmt.Errorf("invalid descriptor set %s: %w", path, err)
	}
	files, err := protodesc.NewFiles(&fdset)
	if err != nil {
		return nil, fmt.Errorf("invalid descriptor set %s: %w", path, err)
	}

	var fds []protoreflect.FileDescriptor
	files.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		fds = append(fds, fd)
		return true
	})
	schema, err := walk.FromFiles(fds)
	if err != nil {
		return nil, err
	}
	md := schema.Message(name)
	if md == nil {
		return nil, fmt.Errorf("no message %s in %s", name, path)
	}
	return md, nil
}

// each calls fn for every file, at most config.Jobs at a time. Every call
// gets its own arena, which is reset when fn returns.
func (s *session) each(files []string, fn func(i int, path string, a *alloc.Arena) error) error {
	var g errgroup.Group
	g.SetLimit(s.config.Jobs)
	for i, path := range files {
		g.Go(func() error {
			var arena alloc.Arena
			defer arena.Reset()
			return fn(i, path, &arena)
		})
	}
	return g.Wait()
}
