/*
 * Copyright 2021 ByteDance Inc.
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

package dce

import (
	"fmt"

	"github.com/cloudwego/dce/ir"
)

// MalformedError is returned when the input function violates the IR rules.
type MalformedError = ir.MalformedError

// InvariantError is raised with panic when the pass itself or its caller
// breaks an internal contract, such as querying a stale liveness map.
type InvariantError struct {
	Op     string
	Reason string
}

func (self InvariantError) Error() string {
	return fmt.Sprintf("dce: invariant violated in %s: %s", self.Op, self.Reason)
}

func einvariant(op string, format string, args ...interface{}) InvariantError {
	return InvariantError{
		Op:     op,
		Reason: fmt.Sprintf(format, args...),
	}
}
