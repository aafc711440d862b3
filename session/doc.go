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


// Package session holds ordered conversation turns.
//
// A Session is the in-memory, append-only turn list for one conversation.
// While a model call is in flight a pending placeholder turn may sit at the
// tail; it is resolved into a real assistant turn or removed, and is never
// part of persisted history.
//
// The persistent side lives in session/badger: per-identity history blobs
// trimmed to the most recent turns and restored only within a freshness
// window, so a visitor returning the next day starts clean.
package session
