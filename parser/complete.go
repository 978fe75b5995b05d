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

package parser

import (
	"strconv"

	"github.com/bufbuild/textpb/message"
	"github.com/bufbuild/textpb/reporter"
	"github.com/bufbuild/textpb/walk"
)

// Completeness reports whether every required field in the tree rooted at m
// is set. When it is not, the paths of the unset fields are returned, such
// as "engine.blades[2].pitch".
//
// If m's descriptors do not track required fields the answer is
// [reporter.Unsupported].
func Completeness(m *message.Message) (reporter.Completeness, []string) {
	if !m.Descriptor().TracksRequired() {
		return reporter.Unsupported, nil
	}
	var missing []string
	collectMissing(m, "", &missing)
	if len(missing) > 0 {
		return reporter.Incomplete, missing
	}
	return reporter.Complete, nil
}

func collectMissing(m *message.Message, prefix string, missing *[]string) {
	md := m.Descriptor()
	check := func(f *walk.Field) {
		path := prefix + f.TextName()
		if f.IsRequired() && !m.Has(f) {
			*missing = append(*missing, path)
			return
		}
		if f.Kind() != walk.MessageKind || !m.Has(f) {
			return
		}
		if !f.IsRepeated() {
			v, _ := m.Get(f)
			collectMissing(v.Message(), path+".", missing)
			return
		}
		for i, v := range m.List(f) {
			collectMissing(v.Message(), path+"["+strconv.Itoa(i)+"].", missing)
		}
	}

	for _, f := range md.Fields() {
		check(f)
	}
	for _, f := range md.Extensions() {
		check(f)
	}
}
