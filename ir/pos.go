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

const (
	_P_func = -1
)

// Pos locates an instruction by block and index within the block. A Pos with
// a negative block refers to the function as a whole.
type Pos struct {
	B Block
	I int
}

func pos(bb Block, i int) Pos {
	return Pos{bb, i}
}

func (self Pos) String() string {
	if self.B == _P_func {
		return "func"
	} else if self.I < 0 {
		return self.B.String()
	} else {
		return fmt.Sprintf("%s.ins[%d]", self.B, self.I)
	}
}
