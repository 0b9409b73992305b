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


// Package vector implements similarity search over item embeddings.
//
// The index itself is an adapter behind the Index interface. Adapters are
// free to return their matches as a plain slice, a wrapped ResultSet or an
// iterator; Normalize flattens every supported shape before use so the rest
// of the pipeline only ever sees []Match.
package vector
