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

// NewBlock appends a new empty block. The first block is the entry.
func (self *Func) NewBlock(name string) Block {
	self.blocks = append(self.blocks, _Block{name: name})
	self.epoch++
	return Block(len(self.blocks) - 1)
}

func (self *Func) append(b Block, node Node) Instr {
	bb := self.block(b)
	nb := len(bb.ins)

	/* nothing goes after the terminator */
	if nb != 0 && self.instrs[bb.ins[nb-1]].node.Kind() == KindTerminator {
		panic(fmt.Sprintf("ir: %s of %s is already terminated", b, self.Name))
	}

	/* merge instructions form the leading run of a block */
	if node.Kind() == KindMerge && nb != 0 && self.instrs[bb.ins[nb-1]].node.Kind() != KindMerge {
		panic(fmt.Sprintf("ir: merge instruction after non-merge instructions in %s of %s", b, self.Name))
	}

	/* allocate the instruction */
	id := Instr(len(self.instrs))
	self.instrs = append(self.instrs, _Instr{node: node, block: b})

	/* attach to the block */
	bb.ins = append(bb.ins, id)
	self.nlive++
	self.epoch++
	return id
}

// Emit appends a plain instruction to b and returns the value it defines.
func (self *Func) Emit(b Block, op string, args ...Value) Value {
	return self.Value(self.append(b, &Plain{
		Op:   op,
		Args: append([]Value(nil), args...),
	}))
}

// Phi appends a merge instruction to the leading merge run of b.
func (self *Func) Phi(b Block, edges ...Edge) Value {
	return self.Value(self.append(b, &Merge{
		Edges: append([]Edge(nil), edges...),
	}))
}

// AddIncoming adds an incoming edge to the merge instruction defining phi.
// Merge instructions in loops usually need values defined after them.
func (self *Func) AddIncoming(phi Value, pred Block, v Value) {
	if i, ok := phi.Instr(); !ok || phi.fn != self.id {
		panic(fmt.Sprintf("ir: %s is not an instruction of %s", phi, self.Name))
	} else if m, ok := self.instr(i).node.(*Merge); !ok {
		panic(fmt.Sprintf("ir: %s is not a merge instruction", phi))
	} else {
		m.Edges = append(m.Edges, Edge{Pred: pred, V: v})
		self.epoch++
	}
}

// Terminate ends b with a terminator. cond may be None.
func (self *Func) Terminate(b Block, op string, cond Value, args []Value, succ ...Block) Instr {
	return self.append(b, &Term{
		Op:   op,
		Cond: cond,
		Args: append([]Value(nil), args...),
		Succ: append([]Block(nil), succ...),
	})
}

// Jump ends b with an unconditional branch to dst.
func (self *Func) Jump(b Block, dst Block) Instr {
	return self.Terminate(b, "br", None, nil, dst)
}

// Branch ends b with a conditional branch to t or f.
func (self *Func) Branch(b Block, cond Value, t Block, f Block) Instr {
	return self.Terminate(b, "br", cond, nil, t, f)
}

// Return ends b with a return of vals, which makes b an exit block.
func (self *Func) Return(b Block, vals ...Value) Instr {
	return self.Terminate(b, "ret", None, vals)
}
