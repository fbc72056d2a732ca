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

// Package text holds the code point buffers the diff and patch engines operate on.
package text

import (
	"bytes"
	"unicode/utf8"
)

// BinarySniffLen is the number of leading bytes inspected for NUL bytes.
const BinarySniffLen = 8000

// 📄 Buffer is a sequence of Unicode code points
type Buffer []rune

// 🔄 Decode decodes UTF-8 content into a Buffer. Invalid sequences become utf8.RuneError.
func Decode(data []byte) Buffer {
	return Buffer(bytes.Runes(data))
}

// FromString returns the code points of s.
func FromString(s string) Buffer {
	return Buffer([]rune(s))
}

// 💾 Encode returns the UTF-8 encoding of the buffer
func (b Buffer) Encode() []byte {
	out := make([]byte, 0, len(b))
	for _, r := range b {
		out = utf8.AppendRune(out, r)
	}
	return out
}

func (b Buffer) String() string {
	return string(b)
}

// Len returns the number of code points.
func (b Buffer) Len() int {
	return len(b)
}

// Clone returns a copy that does not share storage with b.
func (b Buffer) Clone() Buffer {
	if b == nil {
		return nil
	}
	out := make(Buffer, len(b))
	copy(out, b)
	return out
}

// 🔍 IsBinary reports whether the first BinarySniffLen bytes of data contain a NUL byte
func IsBinary(data []byte) bool {
	if len(data) > BinarySniffLen {
		data = data[:BinarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// ⬜ Blank replaces every code point except line endings with fill
func Blank(b Buffer, fill rune) Buffer {
	out := make(Buffer, len(b))
	for i, r := range b {
		switch r {
		case '\r', '\n':
			out[i] = r
		default:
			out[i] = fill
		}
	}
	return out
}
