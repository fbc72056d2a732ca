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

package text

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncode(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantLen int
		want    string
	}{
		{
			name:    "ascii",
			input:   []byte("hello"),
			wantLen: 5,
			want:    "hello",
		},
		{
			name:    "multibyte_code_points",
			input:   []byte("grüße 日本"),
			wantLen: 8,
			want:    "grüße 日本",
		},
		{
			name:    "astral_plane",
			input:   []byte("a😀b"),
			wantLen: 3,
			want:    "a😀b",
		},
		{
			name:    "invalid_utf8_becomes_replacement",
			input:   []byte{'a', 0xff, 'b'},
			wantLen: 3,
			want:    "a�b",
		},
		{
			name:    "empty",
			input:   nil,
			wantLen: 0,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Decode(tt.input)
			assert.Equal(t, tt.wantLen, buf.Len(), "code point count should match")
			assert.Equal(t, tt.want, string(buf.Encode()), "round trip should match")
		})
	}
}

func TestIsBinary(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  bool
	}{
		{name: "text", input: []byte("plain text\n"), want: false},
		{name: "empty", input: nil, want: false},
		{name: "nul_at_start", input: []byte{0, 'a'}, want: true},
		{name: "nul_inside_window", input: append(bytes.Repeat([]byte("a"), BinarySniffLen-1), 0), want: true},
		{name: "nul_after_window", input: append(bytes.Repeat([]byte("a"), BinarySniffLen), 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBinary(tt.input))
		})
	}
}

func TestBlank(t *testing.T) {
	got := Blank(FromString("ab\r\ncd\nü"), '_')
	assert.Equal(t, "__\r\n__\n_", got.String(), "line endings should survive blanking")

	src := FromString("xyz")
	_ = Blank(src, ' ')
	assert.Equal(t, "xyz", src.String(), "input should not be modified")
}

func TestClone(t *testing.T) {
	src := FromString("abc")
	cp := src.Clone()
	require.Equal(t, src, cp)
	cp[0] = 'z'
	assert.Equal(t, "abc", src.String(), "clone should not share storage")
	assert.Nil(t, Buffer(nil).Clone())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 10))
	assert.Equal(t, `a\nb`, Preview("a\nb", 10), "newlines should be escaped")
	assert.Equal(t, "a...", Preview("abcdef", 4))
	assert.Equal(t, "日...", Preview("日本語", 5), "wide runes count two columns")
}
