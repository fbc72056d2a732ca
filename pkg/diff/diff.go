// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package diff

import (
	"context"
	"fmt"
	"time"

	"github.com/walteh/diffmorpher/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind is the type of an edit operation
type Kind int

const (
	Delete Kind = iota // Remove runes at the cursor (source frame)
	Insert             // Insert literal runes at the cursor
	Equal              // Runes unchanged in both frames
)

// String returns the upper case name used in traces.
func (k Kind) String() string {
	switch k {
	case Delete:
		return "DELETE"
	case Insert:
		return "INSERT"
	case Equal:
		return "EQUAL"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ✏️ Op is a single edit operation.
//
// For Delete and Equal, Text holds the source runes covered by the operation; for Insert it holds
// the inserted runes.
type Op struct {
	Kind Kind
	Text text.Buffer
}

// Len returns the number of runes the operation covers.
func (o Op) Len() int {
	return len(o.Text)
}

func (o Op) String() string {
	return fmt.Sprintf("%s(%q)", o.Kind, string(o.Text))
}

// 📜 Script is an ordered edit script transforming a source buffer into a target buffer
type Script []Op

// Source concatenates the old-side text of every operation.
func (s Script) Source() text.Buffer {
	out := make(text.Buffer, 0, s.Len1())
	for _, op := range s {
		if op.Kind != Insert {
			out = append(out, op.Text...)
		}
	}
	return out
}

// Target concatenates the new-side text of every operation.
func (s Script) Target() text.Buffer {
	out := make(text.Buffer, 0, s.Len2())
	for _, op := range s {
		if op.Kind != Delete {
			out = append(out, op.Text...)
		}
	}
	return out
}

// Len1 returns the source length covered by the script.
func (s Script) Len1() int {
	n := 0
	for _, op := range s {
		if op.Kind != Insert {
			n += op.Len()
		}
	}
	return n
}

// Len2 returns the target length covered by the script.
func (s Script) Len2() int {
	n := 0
	for _, op := range s {
		if op.Kind != Delete {
			n += op.Len()
		}
	}
	return n
}

// Normalize merges adjacent operations of the same kind, drops empty operations and orders every
// run of changes between two equalities as one Delete followed by one Insert.
func (s Script) Normalize() Script {
	out := make(Script, 0, len(s))
	var del, ins text.Buffer

	flush := func() {
		if len(del) > 0 {
			out = append(out, Op{Kind: Delete, Text: del})
		}
		if len(ins) > 0 {
			out = append(out, Op{Kind: Insert, Text: ins})
		}
		del, ins = nil, nil
	}

	for _, op := range s {
		if op.Len() == 0 {
			continue
		}
		switch op.Kind {
		case Delete:
			del = append(del, op.Text...)
		case Insert:
			ins = append(ins, op.Text...)
		case Equal:
			flush()
			if n := len(out); n > 0 && out[n-1].Kind == Equal {
				merged := make(text.Buffer, 0, out[n-1].Len()+op.Len())
				merged = append(merged, out[n-1].Text...)
				out[n-1].Text = append(merged, op.Text...)
				continue
			}
			out = append(out, Op{Kind: Equal, Text: op.Text})
		}
	}
	flush()

	return out
}

// 🔌 Differencer computes edit scripts
type Differencer interface {
	// Diff returns a normalized script transforming source into target.
	Diff(ctx context.Context, source, target text.Buffer) Script
}

// Engine names accepted by New.
const (
	EngineMyers = "myers"
	EngineDMP   = "dmp"
)

// Options configures a Differencer.
type Options struct {
	// Timeout bounds the search for a single diff. Zero disables the deadline.
	Timeout time.Duration
}

// 🏭 New returns the Differencer registered under engine
func New(engine string, opts Options) (Differencer, error) {
	switch engine {
	case EngineMyers, "":
		return &Myers{Timeout: opts.Timeout}, nil
	case EngineDMP:
		return &DMP{Timeout: opts.Timeout}, nil
	default:
		return nil, errors.Errorf("unknown diff engine %q", engine)
	}
}
