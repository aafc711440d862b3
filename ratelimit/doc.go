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


// Package ratelimit admits or rejects requests per identity within a
// rolling window.
//
// Each identity moves through a small state machine: fresh (no record),
// within-window while its count is below the limit, exhausted once the
// limit is reached, and back to within-window with a zeroed count when the
// window expires. Evaluation and record mutation happen atomically, so two
// concurrent requests from one identity can never both claim the last slot.
//
// Records live in process memory keyed by identity. Running multiple
// instances would give each its own quota; a shared store would be needed
// to enforce one global limit.
package ratelimit
