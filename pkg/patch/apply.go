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

package patch

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/diffmorpher/pkg/diff"
	"github.com/walteh/diffmorpher/pkg/text"
)

// 🩹 Apply replays records in the order given onto a copy of working.
//
// The cursor starts at each record's Start1. Delete removes runes at the cursor, Insert inserts at
// the cursor and moves past the inserted runes, Equal only moves the cursor. Cursors beyond the
// buffer are clamped to its end; callers detect the damage by checking the result length.
// Every record and operation is traced at debug level.
func Apply(ctx context.Context, records []Record, working text.Buffer) text.Buffer {
	logger := zerolog.Ctx(ctx)
	out := working.Clone()

	for _, rec := range records {
		cursor := rec.Start1
		logger.Debug().
			Int("start1", rec.Start1).
			Int("length1", rec.Length1).
			Int("length2", rec.Length2).
			Msg(rec.String())

		for _, op := range rec.Ops {
			n := op.Len()
			switch op.Kind {
			case diff.Delete:
				out = deleteAt(out, cursor, n)
				logger.Debug().
					Str("kind", op.Kind.String()).
					Int("pos", cursor).
					Int("len", n).
					Msgf("deleted %d chars @%d", n, cursor)
			case diff.Insert:
				out = insertAt(out, cursor, op.Text)
				logger.Debug().
					Str("kind", op.Kind.String()).
					Int("pos", cursor).
					Int("len", n).
					Str("preview", text.Preview(op.Text.String(), text.PreviewWidth)).
					Msgf("inserted %d chars @%d", n, cursor)
				cursor += n
			case diff.Equal:
				logger.Debug().
					Str("kind", op.Kind.String()).
					Int("pos", cursor).
					Int("len", n).
					Msgf("skipped %d chars", n)
				cursor += n
			}
		}
	}

	return out
}

func clamp(pos, n int) int {
	return min(max(pos, 0), n)
}

func deleteAt(buf text.Buffer, pos, n int) text.Buffer {
	start := clamp(pos, len(buf))
	end := clamp(start+n, len(buf))
	return append(buf[:start], buf[end:]...)
}

func insertAt(buf text.Buffer, pos int, ins text.Buffer) text.Buffer {
	pos = clamp(pos, len(buf))
	out := make(text.Buffer, 0, len(buf)+len(ins))
	out = append(out, buf[:pos]...)
	out = append(out, ins...)
	return append(out, buf[pos:]...)
}
