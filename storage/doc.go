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

// Package storage defines the persistence abstraction used by fraudintel.
//
// The only persisted state is the embedding vector cache: corpus records
// themselves are loaded fresh from their source on every start. Caching
// vectors by content lets a restarted process skip re-embedding an unchanged
// corpus.
//
// # Usage
//
//	cache, err := badger.NewVectorCache("/var/lib/fraudintel/cache")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
// Use in tests with in-memory storage:
//
//	cache, err := badger.NewMemoryVectorCache()
//
// # Thread Safety
//
// VectorCache implementations must be safe for concurrent use; the dense
// encoder writes from several worker goroutines.
package storage
