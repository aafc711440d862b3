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


package session

import "errors"

var (
	// ErrTurnNotFound indicates the referenced turn is not in the session.
	ErrTurnNotFound = errors.New("turn not found")

	// ErrNotPending indicates an attempt to resolve a turn that is not a
	// pending placeholder.
	ErrNotPending = errors.New("turn is not pending")

	// ErrIdentityRequired indicates a persistence call without an identity.
	ErrIdentityRequired = errors.New("identity required")
)
