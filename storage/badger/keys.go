// Copyright 2025 Poiesic Systems
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


package badger

import (
	"encoding/binary"
)

const (
	itemPrefix       = "item:"
	itemOrderPrefix  = "itmord:"
	itemParentPrefix = "itmpar:"
	itemDepPrefix    = "itmdep:"
	itemSeq          = "itmseq"
)

// makeItemKey generates a key for an item by ID.
func makeItemKey(id string) []byte {
	return []byte(itemPrefix + id)
}

// makeOrderKey generates a key for the insertion-order index.
// Format: prefix:seq
func makeOrderKey(seq uint64) []byte {
	buf := make([]byte, len(itemOrderPrefix)+8)
	offset := copy(buf, itemOrderPrefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeEdgeKey generates a composite key for an edge index.
// Format: prefix:len(from):from:seq
// The length prefix keeps one ID from matching as the prefix of another.
func makeEdgeKey(prefix, from string, seq uint64) []byte {
	partial := makePartialEdgeKey(prefix, from)
	buf := make([]byte, len(partial)+8)
	offset := copy(buf, partial)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makePartialEdgeKey generates a partial key for scanning every edge leaving from.
// Format: prefix:len(from):from
func makePartialEdgeKey(prefix, from string) []byte {
	buf := make([]byte, len(prefix)+2+len(from))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint16(buf[offset:], uint16(len(from)))
	offset += 2
	copy(buf[offset:], from)
	return buf
}
