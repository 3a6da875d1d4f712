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

// Package search ranks fraud articles against free-text queries.
//
// The Searcher holds an immutable Index built from one corpus load: the
// records, their vectors from a fitted vectorize.Encoder, their keyword sets
// and the phrase vectors used for suggestions. A search encodes the query,
// ranks every row by cosine similarity in a linear scan, takes the top row as
// the best match and then lists related articles: the rows nearest to the
// best match that share at least two keywords with it.
//
// Reloading the same corpus content reuses the current index; any content
// change rebuilds it, so vectors are never served for stale records.
package search
