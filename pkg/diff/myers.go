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
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/diffmorpher/pkg/text"
)

// minCostLimit is the smallest edit distance a single bisection may explore before the
// TOO_EXPENSIVE cutoff applies.
const minCostLimit = 4096

// 🧮 Myers is the native differencer.
//
// It strips common prefixes and suffixes, short-circuits containment, and otherwise bisects the
// problem on the middle snake of Myers' O(ND) algorithm, recursing into both halves. Work is
// bounded by Timeout and CostLimit: a bisection that exceeds either gives up on the region and
// emits it as a full delete followed by a full insert.
type Myers struct {
	// Timeout bounds the whole diff. Zero disables the deadline.
	Timeout time.Duration
	// CostLimit bounds the number of d-iterations of a single bisection. Zero derives the limit
	// from the input size.
	CostLimit int
}

var _ Differencer = (*Myers)(nil)

// Diff implements Differencer.
func (m *Myers) Diff(ctx context.Context, source, target text.Buffer) Script {
	var deadline time.Time
	if m.Timeout > 0 {
		deadline = time.Now().Add(m.Timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}

	s := &search{
		ctx:       ctx,
		deadline:  deadline,
		costLimit: m.CostLimit,
	}
	if s.costLimit <= 0 {
		s.costLimit = defaultCostLimit(len(source) + len(target))
	}

	script := s.diff(source, target).Normalize()

	if s.cutoffs > 0 {
		zerolog.Ctx(ctx).Debug().
			Int("cutoffs", s.cutoffs).
			Int("cost_limit", s.costLimit).
			Msg("diff search bounded, result may not be minimal")
	}

	return script
}

// defaultCostLimit approximates the square root of n, bounded below by minCostLimit.
func defaultCostLimit(n int) int {
	limit := 1
	for i := n; i != 0; i >>= 2 {
		limit <<= 1
	}
	return max(minCostLimit, limit)
}

// search holds the state shared by the recursive steps of a single Diff call.
type search struct {
	ctx       context.Context
	deadline  time.Time
	costLimit int
	cutoffs   int
}

// expired reports whether the search must stop looking for a middle snake.
func (s *search) expired(d int) bool {
	if d >= s.costLimit {
		return true
	}
	// Clock and context checks are comparatively slow, only look every 16 iterations.
	if d%16 != 0 {
		return false
	}
	if s.ctx.Err() != nil {
		return true
	}
	return !s.deadline.IsZero() && time.Now().After(s.deadline)
}

func (s *search) diff(a, b text.Buffer) Script {
	p := commonPrefix(a, b)
	prefix := a[:p]
	a, b = a[p:], b[p:]

	q := commonSuffix(a, b)
	suffix := a[len(a)-q:]
	a, b = a[:len(a)-q], b[:len(b)-q]

	var out Script
	if p > 0 {
		out = append(out, Op{Kind: Equal, Text: prefix})
	}
	if len(a) > 0 || len(b) > 0 {
		out = append(out, s.compute(a, b)...)
	}
	if q > 0 {
		out = append(out, Op{Kind: Equal, Text: suffix})
	}
	return out
}

// compute diffs two buffers that share neither a prefix nor a suffix.
func (s *search) compute(a, b text.Buffer) Script {
	if len(a) == 0 {
		return Script{{Kind: Insert, Text: b}}
	}
	if len(b) == 0 {
		return Script{{Kind: Delete, Text: a}}
	}

	long, short, kind := a, b, Delete
	if len(b) > len(a) {
		long, short, kind = b, a, Insert
	}

	// The shorter buffer is contained in the longer one.
	if i := indexRunes(long, short); i >= 0 {
		return Script{
			{Kind: kind, Text: long[:i]},
			{Kind: Equal, Text: short},
			{Kind: kind, Text: long[i+len(short):]},
		}
	}

	// A single rune that is not contained can't be part of an equality.
	if len(short) == 1 {
		return Script{
			{Kind: Delete, Text: a},
			{Kind: Insert, Text: b},
		}
	}

	return s.bisect(a, b)
}

// bisect finds the middle snake of an optimal path through the edit graph of a and b and splits
// the problem at its start. Forward paths are tracked in v1 and reverse paths, mirrored onto the
// bottom right corner, in v2. Both store the furthest reaching x coordinate per diagonal k.
func (s *search) bisect(a, b text.Buffer) Script {
	n, m := len(a), len(b)
	maxD := (n + m + 1) / 2
	vOffset := maxD
	vLength := 2*maxD + 2

	v1 := make([]int, vLength)
	v2 := make([]int, vLength)
	for i := range v1 {
		v1[i] = -1
		v2[i] = -1
	}
	v1[vOffset+1] = 0
	v2[vOffset+1] = 0

	delta := n - m
	// With an odd delta the forward path is the one to detect the overlap.
	front := delta%2 != 0

	// Trim the k ranges once a path runs off the grid.
	k1start, k1end := 0, 0
	k2start, k2end := 0, 0

	for d := 0; d < maxD; d++ {
		if s.expired(d) {
			s.cutoffs++
			break
		}

		for k1 := -d + k1start; k1 <= d-k1end; k1 += 2 {
			k1Offset := vOffset + k1
			var x1 int
			if k1 == -d || (k1 != d && v1[k1Offset-1] < v1[k1Offset+1]) {
				x1 = v1[k1Offset+1]
			} else {
				x1 = v1[k1Offset-1] + 1
			}
			y1 := x1 - k1
			for x1 < n && y1 < m && a[x1] == b[y1] {
				x1++
				y1++
			}
			v1[k1Offset] = x1

			switch {
			case x1 > n:
				k1end += 2
			case y1 > m:
				k1start += 2
			case front:
				k2Offset := vOffset + delta - k1
				if k2Offset >= 0 && k2Offset < vLength && v2[k2Offset] != -1 {
					if x2 := n - v2[k2Offset]; x1 >= x2 {
						return s.split(a, b, x1, y1)
					}
				}
			}
		}

		for k2 := -d + k2start; k2 <= d-k2end; k2 += 2 {
			k2Offset := vOffset + k2
			var x2 int
			if k2 == -d || (k2 != d && v2[k2Offset-1] < v2[k2Offset+1]) {
				x2 = v2[k2Offset+1]
			} else {
				x2 = v2[k2Offset-1] + 1
			}
			y2 := x2 - k2
			for x2 < n && y2 < m && a[n-x2-1] == b[m-y2-1] {
				x2++
				y2++
			}
			v2[k2Offset] = x2

			switch {
			case x2 > n:
				k2end += 2
			case y2 > m:
				k2start += 2
			case !front:
				k1Offset := vOffset + delta - k2
				if k1Offset >= 0 && k1Offset < vLength && v1[k1Offset] != -1 {
					x1 := v1[k1Offset]
					y1 := vOffset + x1 - k1Offset
					if x1 >= n-x2 {
						return s.split(a, b, x1, y1)
					}
				}
			}
		}
	}

	// Too expensive, or no commonality at all.
	return Script{
		{Kind: Delete, Text: a},
		{Kind: Insert, Text: b},
	}
}

func (s *search) split(a, b text.Buffer, x, y int) Script {
	out := s.diff(a[:x], b[:y])
	return append(out, s.diff(a[x:], b[y:])...)
}

func commonPrefix(a, b text.Buffer) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffix(a, b text.Buffer) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-n-1] == b[len(b)-n-1] {
		n++
	}
	return n
}

// indexRunes returns the rune index of the first occurrence of needle in haystack, or -1.
func indexRunes(haystack, needle text.Buffer) int {
	h, nd := string(haystack), string(needle)
	i := strings.Index(h, nd)
	if i < 0 {
		return -1
	}
	j := utf8.RuneCountInString(h[:i])
	// Runes outside the valid range all encode as U+FFFD, so confirm the match rune by rune.
	if j+len(needle) > len(haystack) || !slices.Equal(haystack[j:j+len(needle)], needle) {
		return -1
	}
	return j
}
