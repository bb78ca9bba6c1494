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


// Package search provides semantic and keyword search over indexed chunks.
//
// The Searcher type runs two independent retrieval paths:
//   - Semantic search using vector embeddings and cosine similarity
//   - Keyword search using pattern-based term extraction and set overlap
//
// HybridSearch runs both in parallel and returns both result sets; a failure
// on one path degrades to the other rather than failing the search.
package search
