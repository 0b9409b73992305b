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


package openai

import (
	"regexp"
	"strings"
)

var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// repairJSON fixes the formatting slips small models make most often:
// a key missing its opening quote (`, reasoning":`) and a trailing comma
// before a closing brace or bracket.
func repairJSON(s string) string {
	return trailingComma.ReplaceAllString(quoteBareKeys(s), "$1")
}

func quoteBareKeys(s string) string {
	in := []rune(s)
	var out strings.Builder
	out.Grow(len(s) + 16)

	for i := 0; i < len(in); {
		ch := in[i]
		out.WriteRune(ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(in) && (in[i] == ' ' || in[i] == '\n' || in[i] == '\t' || in[i] == '\r') {
			out.WriteRune(in[i])
			i++
		}
		if i >= len(in) || !isLetter(in[i]) {
			continue
		}

		start := i
		for i < len(in) && (isLetter(in[i]) || in[i] == '_') {
			i++
		}
		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			out.WriteRune('"')
		}
		out.WriteString(string(in[start:i]))
	}
	return out.String()
}
