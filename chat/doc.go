// Copyright 2026 VIP Research Exchange
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package chat orchestrates one grounded question-answer exchange. A
// Service validates the inbound request, gates it on a verified
// organization identity, charges the rate limiter, assembles grounding
// context from the catalog and conversation history, calls the completion
// provider, and records the exchange in the session store.
package chat
