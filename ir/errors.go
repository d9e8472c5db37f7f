/*
 * Copyright 2024 CloudWeGo Authors
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

package ir

import (
	"fmt"
)

// MalformedError occures when a function violates the structural rules of the
// IR, such as a dangling operand or a successor outside the function.
type MalformedError struct {
	Func   string
	At     Pos
	Reason string
}

func (self *MalformedError) Error() string {
	return fmt.Sprintf("malformed IR in %s at %s: %s", self.Func, self.At, self.Reason)
}

func (self *Func) emalformed(at Pos, format string, args ...interface{}) *MalformedError {
	return &MalformedError{
		Func:   self.Name,
		At:     at,
		Reason: fmt.Sprintf(format, args...),
	}
}
