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

// Package patch groups edit scripts into positioned records and replays them onto a buffer.
package patch

import (
	"fmt"

	"github.com/walteh/diffmorpher/pkg/diff"
)

// DefaultMargin is the number of context runes kept around each change cluster.
const DefaultMargin = 4

// 📦 Record is a positioned group of edit operations.
//
// Start1 is the offset the record is replayed at. It is expressed in the frame of the working
// buffer after every preceding record has been applied, so records replay in order without any
// offset correction. Start2 is the offset of the same group in the target buffer.
type Record struct {
	Ops     diff.Script
	Start1  int
	Start2  int
	Length1 int
	Length2 int
}

func (r *Record) add(op diff.Op) {
	r.Ops = append(r.Ops, op)
	if op.Kind != diff.Insert {
		r.Length1 += op.Len()
	}
	if op.Kind != diff.Delete {
		r.Length2 += op.Len()
	}
}

// String renders the record header the way it is traced.
func (r Record) String() string {
	return fmt.Sprintf("@%d patch %d chars into %d chars", r.Start1, r.Length1, r.Length2)
}

// 🏗️ Builder groups scripts into records
type Builder struct {
	// Margin is the number of Equal runes kept as context on either side of a change cluster.
	// Clusters separated by at most 2*Margin equal runes share a record. Zero yields one record
	// per contiguous run of changes.
	Margin int
}

// NewBuilder returns a Builder using DefaultMargin.
func NewBuilder() Builder {
	return Builder{Margin: DefaultMargin}
}

// Build returns the records for script in ascending, non-overlapping Start1 order.
// A script without changes yields no records.
func (b Builder) Build(script diff.Script) []Record {
	margin := max(b.Margin, 0)

	var records []Record
	var cur *Record
	pos := 0 // position of the next op once preceding records are applied

	for i, op := range script {
		if op.Kind == diff.Equal {
			if cur != nil {
				if op.Len() <= 2*margin && i < len(script)-1 {
					cur.add(op)
				} else {
					if n := min(margin, op.Len()); n > 0 {
						cur.add(diff.Op{Kind: diff.Equal, Text: op.Text[:n]})
					}
					records = append(records, *cur)
					cur = nil
				}
			}
			pos += op.Len()
			continue
		}

		if cur == nil {
			cur = &Record{}
			lead := 0
			if i > 0 && script[i-1].Kind == diff.Equal {
				prev := script[i-1].Text
				lead = min(margin, len(prev))
				if lead > 0 {
					cur.add(diff.Op{Kind: diff.Equal, Text: prev[len(prev)-lead:]})
				}
			}
			cur.Start1 = pos - lead
			cur.Start2 = pos - lead
		}

		cur.add(op)
		if op.Kind == diff.Insert {
			pos += op.Len()
		}
	}

	if cur != nil {
		records = append(records, *cur)
	}

	return records
}

// CountOps returns the number of operations across records.
func CountOps(records []Record) int {
	n := 0
	for _, r := range records {
		n += len(r.Ops)
	}
	return n
}
