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
	"sort"
	"strings"
)

type Kind uint8

const (
	KindPlain Kind = iota
	KindMerge
	KindTerminator
)

func (self Kind) String() string {
	switch self {
	case KindPlain:
		return "plain"
	case KindMerge:
		return "merge"
	case KindTerminator:
		return "terminator"
	default:
		panic("unreachable")
	}
}

// Node is the payload of an instruction. The set of implementations is closed:
// *Plain, *Merge and *Term.
type Node interface {
	Kind() Kind
	irnode()
}

func (*Plain) irnode() {}
func (*Merge) irnode() {}
func (*Term) irnode()  {}

// Plain is an ordinary computation producing one value.
type Plain struct {
	Op   string
	Args []Value
}

func (*Plain) Kind() Kind {
	return KindPlain
}

func (self *Plain) format(id Instr) string {
	if len(self.Args) == 0 {
		return fmt.Sprintf("%s = %s", id, self.Op)
	} else {
		return fmt.Sprintf("%s = %s %s", id, self.Op, valuesrepr(self.Args))
	}
}

// Edge is one incoming (predecessor, value) pair of a merge instruction.
type Edge struct {
	Pred Block
	V    Value
}

// Merge selects the incoming value of the edge control arrived along.
type Merge struct {
	Edges []Edge
}

func (*Merge) Kind() Kind {
	return KindMerge
}

func (self *Merge) format(id Instr) string {
	nb := len(self.Edges)
	ret := make([]string, 0, nb)
	phi := append([]Edge(nil), self.Edges...)

	/* sort by basic block ID */
	sort.SliceStable(phi, func(i int, j int) bool {
		return phi[i].Pred < phi[j].Pred
	})

	/* dump as string */
	for _, p := range phi {
		ret = append(ret, fmt.Sprintf("%s: %s", p.Pred, p.V))
	}

	/* join them together */
	return fmt.Sprintf(
		"%s = φ(%s)",
		id,
		strings.Join(ret, ", "),
	)
}

// Term ends a block. Cond is None for terminators without a condition.
type Term struct {
	Op   string
	Cond Value
	Args []Value
	Succ []Block
}

func (*Term) Kind() Kind {
	return KindTerminator
}

func (self *Term) format(_ Instr) string {
	vals := operands(self)
	buf := make([]string, 0, len(vals)+len(self.Succ))

	/* operands, condition first */
	for _, v := range vals {
		buf = append(buf, v.String())
	}

	/* successors */
	for _, bb := range self.Succ {
		buf = append(buf, bb.String())
	}

	/* join them together */
	if len(buf) == 0 {
		return self.Op
	} else {
		return self.Op + " " + strings.Join(buf, ", ")
	}
}

// operands returns the operand values of a node, the condition of a
// terminator first. Merge instructions have no positional operands.
func operands(node Node) []Value {
	switch p := node.(type) {
	case *Plain:
		return p.Args
	case *Merge:
		return nil
	case *Term:
		if p.Cond.IsNone() {
			return p.Args
		} else {
			return append([]Value{p.Cond}, p.Args...)
		}
	default:
		panic("unreachable")
	}
}

func valuesrepr(vals []Value) string {
	ret := make([]string, 0, len(vals))
	for _, v := range vals {
		ret = append(ret, v.String())
	}
	return strings.Join(ret, ", ")
}
