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

type ValueKind uint8

const (
	_ ValueKind = iota
	InstrValue
	ArgValue
	ConstValue
)

func (self ValueKind) String() string {
	switch self {
	case InstrValue:
		return "instr"
	case ArgValue:
		return "arg"
	case ConstValue:
		return "const"
	default:
		return "none"
	}
}

// Value is an identity-compared operand. Instruction values refer to the
// instruction that defines them, argument values to a function parameter and
// constant values carry their literal.
type Value struct {
	fn uint32
	k  ValueKind
	i  int64
}

// None is the absent value, used as the condition of unconditional terminators.
var None Value

func (self Value) Kind() ValueKind {
	return self.k
}

func (self Value) IsNone() bool {
	return self.k == 0
}

// Tracked reports whether liveness needs to account for the value, that is,
// whether it is an instruction result or a function argument.
func (self Value) Tracked() bool {
	return self.k == InstrValue || self.k == ArgValue
}

// Instr returns the defining instruction of an instruction value.
func (self Value) Instr() (Instr, bool) {
	if self.k != InstrValue {
		return 0, false
	} else {
		return Instr(self.i), true
	}
}

// Arg returns the parameter index of an argument value.
func (self Value) Arg() (int, bool) {
	if self.k != ArgValue {
		return 0, false
	} else {
		return int(self.i), true
	}
}

// Literal returns the literal of a constant value.
func (self Value) Literal() (int64, bool) {
	if self.k != ConstValue {
		return 0, false
	} else {
		return self.i, true
	}
}

// Less orders values by kind and index, which is the order used when printing.
func (self Value) Less(other Value) bool {
	return self.k < other.k || (self.k == other.k && self.i < other.i)
}

func (self Value) String() string {
	switch self.k {
	case InstrValue:
		return fmt.Sprintf("%%%d", self.i)
	case ArgValue:
		return fmt.Sprintf("%%arg%d", self.i)
	case ConstValue:
		return fmt.Sprintf("%d", self.i)
	default:
		return "<none>"
	}
}
