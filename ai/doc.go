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

// Package ai provides abstractions for the model services used by fraudintel.
//
// Two capabilities are modelled:
//
//   - Embedder: maps text to dense vectors for semantic search
//   - Generator: produces explanations, insights, answers and summaries
//
// AIProvider bundles both behind one lifecycle.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs (OpenAI, Ollama's /v1, vLLM, LocalAI)
//   - ai/ollama: the native Ollama API
//   - ai/mock: deterministic test doubles
//
// Public constructors in the implementation packages return interface types.
// Mock constructors return concrete types so tests can inspect call counts
// and inject behavior.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "check washing")
//	text, err := provider.Generator().Generate(ctx, "Explain check washing in simple terms.")
package ai
