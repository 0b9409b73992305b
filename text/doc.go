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


// Package text normalizes raw strings into clean token streams.
//
// Normalization folds diacritics, lowercases, and reduces everything that is
// not a word character to single spaces. Tokenization then splits the result,
// drops stop words and drops tokens shorter than a configured minimum.
//
// All functions are pure and safe for concurrent use.
package text
