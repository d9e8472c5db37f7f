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
	"testing"

	"github.com/cloudwego/dce/ir"
	"github.com/stretchr/testify/require"
)

func instrOf(t *testing.T, v ir.Value) ir.Instr {
	i, ok := v.Instr()
	require.True(t, ok, "%s is not an instruction value", v)
	return i
}

// buildStraight builds:
//
//	x = 1 + 1
//	y = 2 + 2
//	return y
func buildStraight() (fn *ir.Func, x ir.Value, y ir.Value) {
	fn = ir.NewFunc("straight", 0)
	bb := fn.NewBlock("entry")
	x = fn.Emit(bb, "add", fn.Const(1), fn.Const(1))
	y = fn.Emit(bb, "add", fn.Const(2), fn.Const(2))
	fn.Return(bb, y)
	return
}

type _Diamond struct {
	fn    *ir.Func
	a     ir.Block
	b     ir.Block
	c     ir.Block
	d     ir.Block
	cond  ir.Value
	vb    ir.Value
	deadb ir.Value
	vc    ir.Value
	deadc ir.Value
	m     ir.Value
	r     ir.Value
}

// buildDiamond builds an if-else whose arms each compute one value merged in
// the join block, plus one value per arm that nothing uses.
func buildDiamond() *_Diamond {
	fn := ir.NewFunc("diamond", 1)
	p := &_Diamond{fn: fn}
	p.a = fn.NewBlock("A")
	p.b = fn.NewBlock("B")
	p.c = fn.NewBlock("C")
	p.d = fn.NewBlock("D")
	p.cond = fn.Emit(p.a, "icmp", fn.Arg(0), fn.Const(0))
	fn.Branch(p.a, p.cond, p.b, p.c)
	p.vb = fn.Emit(p.b, "add", fn.Arg(0), fn.Const(1))
	p.deadb = fn.Emit(p.b, "mul", fn.Arg(0), fn.Const(3))
	fn.Jump(p.b, p.d)
	p.vc = fn.Emit(p.c, "sub", fn.Arg(0), fn.Const(1))
	p.deadc = fn.Emit(p.c, "xor", p.vc, fn.Const(7))
	fn.Jump(p.c, p.d)
	p.m = fn.Phi(p.d, ir.Edge{Pred: p.b, V: p.vb}, ir.Edge{Pred: p.c, V: p.vc})
	p.r = fn.Emit(p.d, "add", p.m, fn.Const(1))
	fn.Return(p.d, p.r)
	return p
}

type _Merges struct {
	fn     *ir.Func
	b      ir.Block
	c      ir.Block
	d      ir.Block
	cond   ir.Value
	vb1    ir.Value
	vb2    ir.Value
	spare  ir.Value
	vc1    ir.Value
	vc2    ir.Value
	m1     ir.Value
	m2     ir.Value
	unused ir.Value
	r      ir.Value
}

// buildMerges builds an if-else joined by a run of three merges. The first
// two feed the result, the third one and the value it takes from B do not.
func buildMerges() *_Merges {
	fn := ir.NewFunc("merges", 1)
	p := &_Merges{fn: fn}
	a := fn.NewBlock("A")
	p.b = fn.NewBlock("B")
	p.c = fn.NewBlock("C")
	p.d = fn.NewBlock("D")
	p.cond = fn.Emit(a, "icmp", fn.Arg(0), fn.Const(0))
	fn.Branch(a, p.cond, p.b, p.c)
	p.vb1 = fn.Emit(p.b, "add", fn.Arg(0), fn.Const(1))
	p.vb2 = fn.Emit(p.b, "mul", fn.Arg(0), fn.Const(2))
	p.spare = fn.Emit(p.b, "shl", fn.Arg(0), fn.Const(4))
	fn.Jump(p.b, p.d)
	p.vc1 = fn.Emit(p.c, "sub", fn.Arg(0), fn.Const(1))
	p.vc2 = fn.Emit(p.c, "xor", fn.Arg(0), fn.Const(3))
	fn.Jump(p.c, p.d)
	p.m1 = fn.Phi(p.d, ir.Edge{Pred: p.b, V: p.vb1}, ir.Edge{Pred: p.c, V: p.vc1})
	p.m2 = fn.Phi(p.d, ir.Edge{Pred: p.b, V: p.vb2}, ir.Edge{Pred: p.c, V: p.vc2})
	p.unused = fn.Phi(p.d, ir.Edge{Pred: p.b, V: p.spare}, ir.Edge{Pred: p.c, V: fn.Const(0)})
	p.r = fn.Emit(p.d, "add", p.m1, p.m2)
	fn.Return(p.d, p.r)
	return p
}

// buildChains builds two dead chains of the given depth, each link using the
// previous one, next to n independent dead values and one live value.
func buildChains(depth int, n int) *ir.Func {
	fn := ir.NewFunc("chains", 1)
	bb := fn.NewBlock("entry")

	/* the chains */
	for k := 0; k < 2; k++ {
		v := fn.Arg(0)
		for i := 0; i < depth; i++ {
			v = fn.Emit(bb, "add", v, fn.Const(1))
		}
	}

	/* independent dead values */
	for i := 0; i < n; i++ {
		fn.Emit(bb, "mul", fn.Arg(0), fn.Const(int64(i)))
	}

	/* the only live value */
	fn.Return(bb, fn.Emit(bb, "shl", fn.Arg(0), fn.Const(2)))
	return fn
}

type _Loop struct {
	fn    *ir.Func
	entry ir.Block
	head  ir.Block
	body  ir.Block
	exit  ir.Block
	i     ir.Value
	cmp   ir.Value
	next  ir.Value
	junk  ir.Value
}

// buildLoop builds a counting loop whose body computes one value nothing uses:
//
//	for i := 0; i < arg0; i++ { junk = i * 5 }
//	return i
func buildLoop() *_Loop {
	fn := ir.NewFunc("loop", 1)
	p := &_Loop{fn: fn}
	p.entry = fn.NewBlock("entry")
	p.head = fn.NewBlock("head")
	p.body = fn.NewBlock("body")
	p.exit = fn.NewBlock("exit")
	fn.Jump(p.entry, p.head)
	p.i = fn.Phi(p.head, ir.Edge{Pred: p.entry, V: fn.Const(0)})
	p.cmp = fn.Emit(p.head, "icmp", p.i, fn.Arg(0))
	fn.Branch(p.head, p.cmp, p.body, p.exit)
	p.next = fn.Emit(p.body, "add", p.i, fn.Const(1))
	p.junk = fn.Emit(p.body, "mul", p.i, fn.Const(5))
	fn.Jump(p.body, p.head)
	fn.AddIncoming(p.i, p.body, p.next)
	fn.Return(p.exit, p.i)
	return p
}

// requireFixedPoint checks the dataflow equations on every instruction.
func requireFixedPoint(t *testing.T, lv *Liveness) {
	fn := lv.Func()
	lv.Each(func(i ir.Instr, ls *LiveSet) {
		exp := make(ValueSet)
		bb := fn.Block(i)

		/* live-out sets */
		switch p := fn.Node(i).(type) {
		case *ir.Term:
			for _, s := range p.Succ {
				if h, ok := fn.FirstNonMerge(s); ok {
					exp.union(lv.Of(h).In)
				}
				for _, m := range fn.Merges(s) {
					exp.union(lv.Of(m).Use[bb])
				}
			}
		default:
			ins := fn.Instrs(bb)
			for j := range ins {
				if ins[j] == i {
					exp.union(lv.Of(ins[j+1]).In)
				}
			}
		}
		require.True(t, exp.equal(ls.Out), "live-out of %s: expected %s, got %s", fn.Format(i), exp, ls.Out)

		/* live-in sets */
		exp = ls.Out.clone()
		if fn.Kind(i) != ir.KindTerminator {
			delete(exp, fn.Value(i))
		}
		for _, v := range fn.Operands(i) {
			if v.Tracked() {
				exp.add(v)
			}
		}
		require.True(t, exp.equal(ls.In), "live-in of %s: expected %s, got %s", fn.Format(i), exp, ls.In)

		/* constants are never tracked */
		for v := range ls.In {
			require.True(t, v.Tracked(), "untracked value %s is live", v)
		}
	})
}

// requiredInstrs returns every instruction a terminator needs, directly or
// through the operands of other needed instructions.
func requiredInstrs(fn *ir.Func) map[ir.Instr]bool {
	var work []ir.Value
	ret := make(map[ir.Instr]bool)

	/* terminators are the roots */
	for _, bb := range fn.Blocks() {
		if t, ok := fn.Terminator(bb); ok {
			work = append(work, fn.Operands(t)...)
		}
	}

	/* follow the operands, merge incomings included */
	for len(work) != 0 {
		v := work[len(work)-1]
		work = work[:len(work)-1]

		/* only instruction values have definitions */
		i, ok := v.Instr()
		if !ok || ret[i] {
			continue
		}

		/* mark and scan the definition */
		ret[i] = true
		if m, ok := fn.Node(i).(*ir.Merge); !ok {
			work = append(work, fn.Operands(i)...)
		} else {
			for _, e := range m.Edges {
				work = append(work, e.V)
			}
		}
	}

	return ret
}

func countTerminators(fn *ir.Func) (n int) {
	for _, bb := range fn.Blocks() {
		if _, ok := fn.Terminator(bb); ok {
			n++
		}
	}
	return
}
