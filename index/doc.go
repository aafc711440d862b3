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


// Package index builds the in-memory catalog of research entries.
//
// A Builder consumes a RecordSource, which yields structured entry records
// without exposing where they came from (a scraped page, a JSON feed, an
// inbound request). Each build pass produces a complete, immutable Catalog;
// a Holder republishes catalog generations atomically so readers never
// observe a partially populated catalog.
//
// Records that cannot be indexed (no citation text) are logged and skipped;
// a malformed record never aborts the build, and a source with zero records
// yields an empty catalog rather than an error.
package index
