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


// Package ai defines the external AI services the placement pipeline
// depends on: text embeddings and the placement classifier.
//
// Core packages depend only on the interfaces declared here. Concrete
// implementations live in sub-packages:
//
//   - ai/openai: OpenAI-compatible services via langchaingo
//   - ai/mock: deterministic test doubles
//
// The package also provides two Embedder decorators. CachingEmbedder keeps
// recently computed vectors in a bounded cache keyed by content fingerprint.
// DisabledEmbedder is the explicit "embeddings off" mode; it fails every call
// with ErrEmbeddingsDisabled so callers degrade to lexical behavior.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "Fix login bug")
//	decision, err := provider.Classifier().Classify(ctx, req)
package ai
