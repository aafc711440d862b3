// Copyright 2026 VIP Research Exchange
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


// Package relevance ranks catalog entries against free-text queries.
//
// Scoring is purely lexical: an entry accumulates weighted signals for exact
// query-phrase matches and per-token occurrence counts across its title,
// snippet, full text, tags and section context. All matching is literal
// substring matching, so queries containing pattern metacharacters score
// like any other text. Zero-scoring entries are excluded, and ties keep
// catalog order.
//
// The weights are empirically chosen constants carried in a Weights value
// rather than literals, so they can be tuned without touching the scoring
// logic.
package relevance
