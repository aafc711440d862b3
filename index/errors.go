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


package index

import "errors"

var (
	// ErrSourceRequired is returned when a record source is not provided.
	ErrSourceRequired = errors.New("record source required")

	// ErrMissingCitation indicates a record without citation text.
	// Records failing this way are skipped during a build, never fatal.
	ErrMissingCitation = errors.New("record has no citation text")
)
