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

package dce

import (
	"github.com/cloudwego/dce/ir"
)

// LiveSet holds the values live on entry to and on exit from one instruction.
// Use is only set for merge instructions, and maps every predecessor to the
// incoming values used when control arrives along the edge from it.
type LiveSet struct {
	In  ValueSet
	Out ValueSet
	Use map[ir.Block]ValueSet
}

// Liveness maps every instruction of a function to its LiveSet. It describes
// the function exactly as it was when analyzed, every accessor panics with an
// InvariantError once the function has been mutated.
type Liveness struct {
	fn     *ir.Func
	epoch  uint64
	sweeps int
	sets   map[ir.Instr]*LiveSet
}

type _BlockInfo struct {
	ins    []ir.Instr
	head   ir.Instr
	merges []ir.Instr
}

// Analyze computes the live sets of every instruction of fn. It returns a
// *MalformedError if fn does not pass verification.
func Analyze(fn *ir.Func) (*Liveness, error) {
	if err := fn.Verify(); err != nil {
		return nil, err
	} else {
		return analyze(fn), nil
	}
}

func analyze(fn *ir.Func) *Liveness {
	bbs := sweepOrder(fn)
	info := make(map[ir.Block]*_BlockInfo, len(bbs))

	/* create the liveness map */
	ret := &Liveness{
		fn:    fn,
		epoch: fn.Epoch(),
		sets:  make(map[ir.Instr]*LiveSet, fn.Len()),
	}

	/* collect the shape of every block */
	for _, bb := range bbs {
		head, _ := fn.FirstNonMerge(bb)
		info[bb] = &_BlockInfo{
			ins:    fn.Instrs(bb),
			head:   head,
			merges: fn.Merges(bb),
		}
	}

	/* start from empty sets, merge uses are fixed by the incoming edges */
	for _, bb := range bbs {
		for _, i := range info[bb].ins {
			ret.sets[i] = newLiveSet(fn.Node(i))
		}
	}

	/* sweep until nothing changes */
	for changed := true; changed; {
		changed = false
		ret.sweeps++

		/* live(i-1) = use(i) ∪ (live(i) - { def(i) }) */
		for _, bb := range bbs {
			for j := len(info[bb].ins) - 1; j >= 0; j-- {
				if ret.update(bb, j, info) {
					changed = true
				}
			}
		}
	}

	return ret
}

func newLiveSet(node ir.Node) *LiveSet {
	ls := &LiveSet{
		In:  make(ValueSet),
		Out: make(ValueSet),
	}

	/* only merge instructions have per-edge uses */
	m, ok := node.(*ir.Merge)
	if !ok {
		return ls
	}

	/* attribute every incoming value to its predecessor */
	ls.Use = make(map[ir.Block]ValueSet, len(m.Edges))
	for _, e := range m.Edges {
		if ls.Use[e.Pred] == nil {
			ls.Use[e.Pred] = make(ValueSet)
		}
		if e.V.Tracked() {
			ls.Use[e.Pred].add(e.V)
		}
	}

	return ls
}

func (self *Liveness) update(bb ir.Block, j int, info map[ir.Block]*_BlockInfo) bool {
	ins := info[bb].ins
	out := make(ValueSet)
	ls := self.sets[ins[j]]

	/* calculate the live-out set */
	switch p := self.fn.Node(ins[j]).(type) {
	default:
		panic("unreachable")

	/* live-out(i) = live-in(next(i)) */
	case *ir.Plain, *ir.Merge:
		out.union(self.sets[ins[j+1]].In)

	/* live-out(t) = ∑(live-in(head(s)) ∪ ∑(use(merge(s))[bb])) */
	case *ir.Term:
		for _, s := range p.Succ {
			si := info[s]
			out.union(self.sets[si.head].In)

			/* merges execute together at block entry, every one of them counts */
			for _, m := range si.merges {
				out.union(self.sets[m].Use[bb])
			}
		}
	}

	/* live-in(i) = use(i) ∪ (live-out(i) - { def(i) }) */
	in := out.clone()
	if self.fn.Kind(ins[j]) != ir.KindTerminator {
		delete(in, self.fn.Value(ins[j]))
	}

	/* merge instructions have no positional operands */
	for _, v := range self.fn.Operands(ins[j]) {
		if v.Tracked() {
			in.add(v)
		}
	}

	/* check for modifications */
	changed := !in.equal(ls.In) || !out.equal(ls.Out)
	ls.In, ls.Out = in, out
	return changed
}

func (self *Liveness) check(op string) {
	if self.fn == nil {
		panic(einvariant(op, "liveness map was consumed by a removal round"))
	} else if self.fn.Epoch() != self.epoch {
		panic(einvariant(op, "function %s changed since the liveness analysis", self.fn.Name))
	}
}

// Func returns the analyzed function.
func (self *Liveness) Func() *ir.Func {
	self.check("Func")
	return self.fn
}

// Sweeps returns the number of sweeps needed to reach the fixed point,
// including the final sweep that changed nothing.
func (self *Liveness) Sweeps() int {
	return self.sweeps
}

// Of returns the live sets of instruction i.
func (self *Liveness) Of(i ir.Instr) *LiveSet {
	self.check("Of")
	if ls, ok := self.sets[i]; !ok {
		panic(einvariant("Of", "%s is not part of the analyzed function", i))
	} else {
		return ls
	}
}

// Each calls fn for every instruction in program order.
func (self *Liveness) Each(fn func(i ir.Instr, ls *LiveSet)) {
	self.check("Each")
	for _, bb := range self.fn.Blocks() {
		for _, i := range self.fn.Instrs(bb) {
			fn(i, self.sets[i])
		}
	}
}

// LiveOutAnywhere reports whether v is live-out of any instruction.
func (self *Liveness) LiveOutAnywhere(v ir.Value) bool {
	self.check("LiveOutAnywhere")
	for _, ls := range self.sets {
		if ls.Out.Contains(v) {
			return true
		}
	}
	return false
}

// LiveAnywhere reports whether v is live-in or live-out of any instruction.
func (self *Liveness) LiveAnywhere(v ir.Value) bool {
	self.check("LiveAnywhere")
	for _, ls := range self.sets {
		if ls.Out.Contains(v) || ls.In.Contains(v) {
			return true
		}
	}
	return false
}
