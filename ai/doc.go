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


// Package ai defines the completion interface the chat orchestrator calls
// and its configuration.
//
// The Config carries an ordered list of candidate model identifiers. Order
// encodes the operator's cost and capability preference: implementations
// must try candidates exactly in the configured order, advancing on any
// per-call failure, and fail only when every candidate has failed.
//
// The production implementation lives in ai/anthropic; ai/mock provides a
// test double.
package ai
