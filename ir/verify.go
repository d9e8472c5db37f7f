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

// Verify checks the structural rules every consumer of the IR relies on.
// It returns a *MalformedError describing the first violation found.
func (self *Func) Verify() error {
	if len(self.blocks) == 0 {
		return self.emalformed(pos(_P_func, 0), "no basic blocks")
	}

	/* successors must be blocks of this function */
	for bi := range self.blocks {
		for _, s := range self.Succ(Block(bi)) {
			if int(s) < 0 || int(s) >= len(self.blocks) {
				return self.emalformed(pos(Block(bi), len(self.blocks[bi].ins)-1), "successor %s is not in the function", s)
			}
		}
	}

	/* predecessors are needed by every merge instruction */
	pred := self.predecessors()

	/* check every block */
	for bi, bb := range self.blocks {
		b := Block(bi)
		nb := len(bb.ins)

		/* every block ends with exactly one terminator */
		if _, ok := self.Terminator(b); !ok {
			return self.emalformed(pos(b, -1), "block has no terminator")
		}

		/* check every instruction */
		for idx, i := range bb.ins {
			if err := self.verifyInstr(pos(b, idx), i, idx == nb-1, pred[b]); err != nil {
				return err
			}
		}
	}

	return nil
}

func (self *Func) verifyInstr(at Pos, i Instr, last bool, pred map[Block]bool) error {
	switch p := self.instrs[i].node.(type) {
	default:
		panic("unreachable")

	/* plain instructions only refer to values */
	case *Plain:
		if last {
			return self.emalformed(at, "plain instruction %s ends the block", i)
		}
		return self.verifyValues(at, p.Args)

	/* merge instructions need one incoming value per predecessor */
	case *Merge:
		seen := make(map[Block]bool, len(p.Edges))

		/* must be part of the leading run */
		if last {
			return self.emalformed(at, "merge instruction %s ends the block", i)
		} else if at.I > 0 && self.instrs[self.blocks[at.B].ins[at.I-1]].node.Kind() != KindMerge {
			return self.emalformed(at, "merge instruction %s follows a non-merge instruction", i)
		}

		/* check every incoming edge */
		for _, e := range p.Edges {
			if !pred[e.Pred] {
				return self.emalformed(at, "incoming value from %s which is not a predecessor", e.Pred)
			} else if seen[e.Pred] {
				return self.emalformed(at, "duplicated incoming value from %s", e.Pred)
			} else if err := self.verifyValue(at, e.V); err != nil {
				return err
			} else {
				seen[e.Pred] = true
			}
		}

		/* every predecessor must be covered */
		for _, b := range self.Pred(at.B) {
			if !seen[b] {
				return self.emalformed(at, "missing incoming value from %s", b)
			}
		}

		return nil

	/* terminators end the block */
	case *Term:
		if !last {
			return self.emalformed(at, "terminator %s is not the last instruction", i)
		} else if p.Cond.IsNone() {
			return self.verifyValues(at, p.Args)
		} else if err := self.verifyValue(at, p.Cond); err != nil {
			return err
		} else {
			return self.verifyValues(at, p.Args)
		}
	}
}

func (self *Func) verifyValues(at Pos, vals []Value) error {
	for _, v := range vals {
		if err := self.verifyValue(at, v); err != nil {
			return err
		}
	}
	return nil
}

func (self *Func) verifyValue(at Pos, v Value) error {
	switch v.k {
	default:
		return self.emalformed(at, "missing operand")

	/* constants carry their literal and have no owner */
	case ConstValue:
		return nil

	/* arguments must be parameters of this function */
	case ArgValue:
		if v.fn != self.id {
			return self.emalformed(at, "argument %s belongs to another function", v)
		} else if v.i < 0 || v.i >= int64(self.nargs) {
			return self.emalformed(at, "argument %s is out of range", v)
		} else {
			return nil
		}

	/* instruction values must be defined by a live instruction of this function */
	case InstrValue:
		if v.fn != self.id {
			return self.emalformed(at, "value %s belongs to another function", v)
		} else if !self.Alive(Instr(v.i)) {
			return self.emalformed(at, "dangling operand %s", v)
		} else if self.instrs[v.i].node.Kind() == KindTerminator {
			return self.emalformed(at, "operand %s refers to a terminator", v)
		} else {
			return nil
		}
	}
}
