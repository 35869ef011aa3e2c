/*
 * Copyright 2026 Nodehist Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package history

import (
	"errors"
	"fmt"
)

// ErrInvalidRange rejects a bounded-window request whose lower bound exceeds
// its upper bound.
var ErrInvalidRange = errors.New("invalid timestamp range")

// DecodeError reports a stored record whose bytes are not valid JSON. It
// aborts the query for that node's store; sibling stores are unaffected.
type DecodeError struct {
	Node      string
	Timestamp uint64
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding record %d for node %s: %v", e.Timestamp, e.Node, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
