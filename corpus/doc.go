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

// Package corpus loads the fraud article collection into normalized records.
//
// A Source yields RawArticle rows exactly as stored: a local CSV or XLSX file,
// a CSV object in Supabase-style object storage, or a Postgres table. Load
// turns those rows into core.ArticleRecord values once, substituting defaults
// for missing or malformed fields, assigning every record a category, and
// fingerprinting the result so callers can tell whether the content changed
// since the previous load.
package corpus
