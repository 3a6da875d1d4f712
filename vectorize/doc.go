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

// Package vectorize turns text into fixed-length float vectors.
//
// A Vectorizer is fitted once per corpus load and yields an Encoder that is
// then shared read-only by every query. Two strategies are provided:
//
//   - TFIDF: a sparse bag-of-words model fitted on the corpus texts. It needs
//     no external service and is fully deterministic.
//   - Dense: sentence embeddings from an ai.Embedder. Corpus encoding runs in
//     batches on a worker pool, retries failed batches and can persist
//     vectors in a storage.VectorCache so an unchanged corpus is not
//     re-embedded on restart.
//
// Every vector returned by an Encoder is L2-normalized, so cosine similarity
// reduces to a dot product. Empty text never fails; it encodes to the zero
// vector.
package vectorize
