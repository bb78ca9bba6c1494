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


package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/docsieve/docsieve/core"
	"github.com/docsieve/docsieve/search"
)

// printMonitor writes per-stage search details, used with --verbose.
type printMonitor struct {
	out io.Writer
}

var _ search.SearchMonitor = (*printMonitor)(nil)

func (m *printMonitor) Start(query string) {
	fmt.Fprintf(m.out, "query: %q\n", query)
}

func (m *printMonitor) AfterQueryEmbedding(dimension int) {
	fmt.Fprintf(m.out, "query embedded, dimension %d\n", dimension)
}

func (m *printMonitor) AfterSemanticSearch(results []*core.SearchResult) {
	fmt.Fprintf(m.out, "semantic path: %d hits\n", len(results))
}

func (m *printMonitor) AfterKeywordExtraction(keywords []string) {
	fmt.Fprintf(m.out, "query keywords: [%s]\n", strings.Join(keywords, ", "))
}

func (m *printMonitor) AfterKeywordSearch(matches []*core.KeywordMatch) {
	fmt.Fprintf(m.out, "keyword path: %d matches\n", len(matches))
}

func (m *printMonitor) Finish(summary *search.Summary) {
	fmt.Fprintf(m.out, "done: %d semantic, %d keyword, %d unique\n",
		summary.SemanticCount, summary.KeywordCount, summary.TotalUnique)
}
