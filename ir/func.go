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
	"strings"
	"sync/atomic"
)

var _FuncSeq uint32

// Block is a handle to a basic block of a Func.
type Block int

func (self Block) String() string {
	return fmt.Sprintf("bb_%d", int(self))
}

// Instr is a handle to an instruction of a Func. Handles of removed
// instructions are never reused.
type Instr int

func (self Instr) String() string {
	return fmt.Sprintf("%%%d", int(self))
}

type _Block struct {
	name string
	ins  []Instr
}

type _Instr struct {
	node  Node
	block Block
	dead  bool
}

// Func owns every block and instruction of a function. Blocks and instructions
// are referenced only through Block and Instr handles.
type Func struct {
	Name   string
	id     uint32
	nargs  int
	nlive  int
	epoch  uint64
	blocks []_Block
	instrs []_Instr
}

func NewFunc(name string, nargs int) *Func {
	if nargs < 0 {
		panic(fmt.Sprintf("ir: invalid argument count: %d", nargs))
	}
	return &Func{
		Name:  name,
		id:    atomic.AddUint32(&_FuncSeq, 1),
		nargs: nargs,
	}
}

func (self *Func) block(b Block) *_Block {
	if int(b) < 0 || int(b) >= len(self.blocks) {
		panic(fmt.Sprintf("ir: invalid basic block %s in %s", b, self.Name))
	} else {
		return &self.blocks[b]
	}
}

func (self *Func) instr(i Instr) *_Instr {
	if int(i) < 0 || int(i) >= len(self.instrs) {
		panic(fmt.Sprintf("ir: invalid instruction %s in %s", i, self.Name))
	} else if p := &self.instrs[i]; p.dead {
		panic(fmt.Sprintf("ir: use of removed instruction %s in %s", i, self.Name))
	} else {
		return p
	}
}

// Epoch increases on every mutation of the function. Anything derived from
// the function is stale once the epoch moves.
func (self *Func) Epoch() uint64 {
	return self.epoch
}

// Len returns the number of instructions currently in the function.
func (self *Func) Len() int {
	return self.nlive
}

func (self *Func) NumArgs() int {
	return self.nargs
}

func (self *Func) Arg(i int) Value {
	if i < 0 || i >= self.nargs {
		panic(fmt.Sprintf("ir: argument index out of range: %d", i))
	} else {
		return Value{fn: self.id, k: ArgValue, i: int64(i)}
	}
}

func (self *Func) Const(v int64) Value {
	return Value{fn: self.id, k: ConstValue, i: v}
}

// Entry returns the entry block, which is the first block created.
func (self *Func) Entry() Block {
	if len(self.blocks) == 0 {
		panic("ir: function has no basic blocks: " + self.Name)
	} else {
		return 0
	}
}

// Blocks returns every block in creation order.
func (self *Func) Blocks() []Block {
	ret := make([]Block, len(self.blocks))
	for i := range ret {
		ret[i] = Block(i)
	}
	return ret
}

func (self *Func) BlockName(b Block) string {
	return self.block(b).name
}

// Instrs returns the instructions of b in program order.
func (self *Func) Instrs(b Block) []Instr {
	return append([]Instr(nil), self.block(b).ins...)
}

// Alive reports whether i is still part of the function.
func (self *Func) Alive(i Instr) bool {
	return int(i) >= 0 && int(i) < len(self.instrs) && !self.instrs[i].dead
}

func (self *Func) Node(i Instr) Node {
	return self.instr(i).node
}

func (self *Func) Kind(i Instr) Kind {
	return self.instr(i).node.Kind()
}

// Block returns the block owning i.
func (self *Func) Block(i Instr) Block {
	return self.instr(i).block
}

// Value returns the value defined by i.
func (self *Func) Value(i Instr) Value {
	self.instr(i)
	return Value{fn: self.id, k: InstrValue, i: int64(i)}
}

// Operands returns the positional operands of i. The condition of a
// terminator comes first, merge instructions have none.
func (self *Func) Operands(i Instr) []Value {
	return operands(self.instr(i).node)
}

// uses returns every value i refers to, merge incomings included.
func (self *Func) uses(i Instr) []Value {
	if m, ok := self.instr(i).node.(*Merge); !ok {
		return self.Operands(i)
	} else {
		ret := make([]Value, 0, len(m.Edges))
		for _, e := range m.Edges {
			ret = append(ret, e.V)
		}
		return ret
	}
}

// Remove removes a single instruction from its block.
func (self *Func) Remove(i Instr) {
	self.RemoveAll([]Instr{i})
}

// RemoveAll removes the instructions from their blocks. Terminators can never
// be removed, and no surviving instruction may still refer to a removed one.
func (self *Func) RemoveAll(ins []Instr) {
	kill := make(map[Instr]bool, len(ins))

	/* check the removal request */
	for _, i := range ins {
		if self.instr(i).node.Kind() == KindTerminator {
			panic(fmt.Sprintf("ir: cannot remove terminator %s of %s in %s", i, self.instrs[i].block, self.Name))
		} else {
			kill[i] = true
		}
	}

	/* nothing to remove */
	if len(kill) == 0 {
		return
	}

	/* no surviving instruction may refer to the removed ones */
	for _, bb := range self.blocks {
		for _, i := range bb.ins {
			if !kill[i] {
				for _, v := range self.uses(i) {
					if d, ok := v.Instr(); ok && v.fn == self.id && kill[d] {
						panic(fmt.Sprintf("ir: cannot remove %s in %s, still used by %s", d, self.Name, i))
					}
				}
			}
		}
	}

	/* drop them from their blocks */
	for bi := range self.blocks {
		bb := &self.blocks[bi]
		ins := bb.ins[:0]

		/* keep the survivors in order */
		for _, i := range bb.ins {
			if !kill[i] {
				ins = append(ins, i)
			} else {
				self.instrs[i].dead = true
			}
		}

		/* rebuild the basic block */
		bb.ins = ins
	}

	/* update the counters */
	self.nlive -= len(kill)
	self.epoch++
}

func (self *Func) String() string {
	args := make([]string, 0, self.nargs)
	for i := 0; i < self.nargs; i++ {
		args = append(args, self.Arg(i).String())
	}

	/* function header */
	buf := []string{
		fmt.Sprintf("func %s(%s) {", self.Name, strings.Join(args, ", ")),
	}

	/* print every block */
	for bi, bb := range self.blocks {
		if bb.name == "" {
			buf = append(buf, fmt.Sprintf("%s:", Block(bi)))
		} else {
			buf = append(buf, fmt.Sprintf("%s: # %s", Block(bi), bb.name))
		}

		/* print every instruction */
		for _, i := range bb.ins {
			buf = append(buf, "    "+self.Format(i))
		}
	}

	/* join them together */
	buf = append(buf, "}")
	return strings.Join(buf, "\n")
}

// Format returns the textual form of a single instruction.
func (self *Func) Format(i Instr) string {
	switch p := self.instr(i).node.(type) {
	case *Plain:
		return p.format(i)
	case *Merge:
		return p.format(i)
	case *Term:
		return p.format(i)
	default:
		panic("unreachable")
	}
}
