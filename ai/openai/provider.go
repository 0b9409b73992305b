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
	"log/slog"

	"github.com/exhibit-org/actionbias-sub003/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
type Provider struct {
	config     *ai.Config
	embedder   ai.Embedder
	cache      *ai.CachingEmbedder
	classifier *Classifier
	logger     *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use. When embeddings are
// disabled the provider hands out ai.DisabledEmbedder; otherwise the
// embedder is wrapped in a cache unless EmbeddingCacheSize is zero.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		config: config,
		logger: slog.Default().With("component", "openai-provider"),
	}

	if config.EmbeddingsEnabled {
		embedder, err := newEmbedder(config)
		if err != nil {
			return nil, err
		}
		p.embedder = embedder
		if config.EmbeddingCacheSize > 0 {
			cache, err := ai.NewCachingEmbedder(embedder, config.EmbeddingCacheSize)
			if err != nil {
				return nil, err
			}
			p.cache = cache
			p.embedder = cache
		}
	} else {
		p.logger.Info("embeddings disabled")
		p.embedder = ai.DisabledEmbedder{}
	}

	classifier, err := newClassifier(config)
	if err != nil {
		return nil, err
	}
	p.classifier = classifier
	return p, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Classifier returns the placement oracle.
func (p *Provider) Classifier() ai.Classifier {
	return p.classifier
}

// Close releases resources held by the provider.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	if p.cache != nil {
		p.cache.Close()
	}
	return nil
}
