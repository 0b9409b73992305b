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


package search

import (
	"log/slog"

	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/vector"
)

// SearchMonitor observes each stage of a search. Callbacks are made from
// the goroutine that called the search, one at a time.
type SearchMonitor interface {
	Start(query string)
	IdentifierLookup(id string, found bool)
	AfterVectorSearch(matches []vector.Match)
	AfterKeywordSearch(hits []KeywordHit)
	HybridHit(id string, vectorScore, keywordScore float64)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                     {}
func (n *noopMonitor) IdentifierLookup(_ string, _ bool)  {}
func (n *noopMonitor) AfterVectorSearch(_ []vector.Match) {}
func (n *noopMonitor) AfterKeywordSearch(_ []KeywordHit)  {}
func (n *noopMonitor) HybridHit(_ string, _, _ float64)   {}
func (n *noopMonitor) Finish(_ []core.SearchResult)       {}

// LoggingMonitor reports every search stage to a logger at debug level.
type LoggingMonitor struct {
	Logger *slog.Logger
}

var _ SearchMonitor = (*LoggingMonitor)(nil)

// NewLoggingMonitor creates a monitor writing to logger.
func NewLoggingMonitor(logger *slog.Logger) *LoggingMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingMonitor{Logger: logger.With("component", "search-monitor")}
}

func (m *LoggingMonitor) Start(query string) {
	m.Logger.Debug("search started", "query", query)
}

func (m *LoggingMonitor) IdentifierLookup(id string, found bool) {
	m.Logger.Debug("identifier lookup", "id", id, "found", found)
}

func (m *LoggingMonitor) AfterVectorSearch(matches []vector.Match) {
	m.Logger.Debug("vector leg finished", "matches", len(matches))
}

func (m *LoggingMonitor) AfterKeywordSearch(hits []KeywordHit) {
	m.Logger.Debug("keyword leg finished", "hits", len(hits))
}

func (m *LoggingMonitor) HybridHit(id string, vectorScore, keywordScore float64) {
	m.Logger.Debug("hybrid hit", "id", id, "vector", vectorScore, "keyword", keywordScore)
}

func (m *LoggingMonitor) Finish(results []core.SearchResult) {
	m.Logger.Debug("search finished", "results", len(results))
}
