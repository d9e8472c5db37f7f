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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireMalformed(t *testing.T, fn *Func, at string, reason string) {
	var me *MalformedError
	err := fn.Verify()
	require.Error(t, err)
	require.True(t, errors.As(err, &me))
	require.Equal(t, fn.Name, me.Func)
	require.Equal(t, at, me.At.String())
	require.Equal(t, reason, me.Reason)
	require.Equal(t, "malformed IR in "+fn.Name+" at "+at+": "+reason, err.Error())
}

func TestVerify_Valid(t *testing.T) {
	fn, _ := buildDiamond()
	require.NoError(t, fn.Verify())
}

func TestVerify_NoBlocks(t *testing.T) {
	requireMalformed(t, NewFunc("empty", 0), "func", "no basic blocks")
}

func TestVerify_NoTerminator(t *testing.T) {
	fn := NewFunc("open", 0)
	bb := fn.NewBlock("")
	fn.Emit(bb, "add", fn.Const(1))
	requireMalformed(t, fn, "bb_0", "block has no terminator")

	/* an empty block has no terminator either */
	fn = NewFunc("hollow", 0)
	fn.Jump(fn.NewBlock(""), fn.NewBlock(""))
	requireMalformed(t, fn, "bb_1", "block has no terminator")
}

func TestVerify_BadSuccessor(t *testing.T) {
	fn := NewFunc("succ", 0)
	bb := fn.NewBlock("")
	fn.Emit(bb, "add", fn.Const(1))
	fn.Jump(bb, Block(7))
	requireMalformed(t, fn, "bb_0.ins[1]", "successor bb_7 is not in the function")
}

func TestVerify_MissingOperand(t *testing.T) {
	fn := NewFunc("none", 0)
	bb := fn.NewBlock("")
	fn.Emit(bb, "add", None)
	fn.Return(bb)
	requireMalformed(t, fn, "bb_0.ins[0]", "missing operand")
}

func TestVerify_ForeignValue(t *testing.T) {
	other := NewFunc("other", 1)
	ob := other.NewBlock("")
	ov := other.Emit(ob, "add", other.Arg(0))

	/* instruction values of another function */
	fn := NewFunc("foreign", 1)
	bb := fn.NewBlock("")
	fn.Emit(bb, "add", ov)
	fn.Return(bb)
	requireMalformed(t, fn, "bb_0.ins[0]", "value %0 belongs to another function")

	/* arguments of another function */
	fn = NewFunc("foreign", 1)
	bb = fn.NewBlock("")
	fn.Return(bb, other.Arg(0))
	requireMalformed(t, fn, "bb_0.ins[0]", "argument %arg0 belongs to another function")
}

func TestVerify_DanglingOperand(t *testing.T) {
	fn := NewFunc("dangling", 0)
	bb := fn.NewBlock("")
	x := fn.Emit(bb, "add", fn.Const(1))
	xi, _ := x.Instr()
	fn.Remove(xi)
	fn.Emit(bb, "neg", x)
	fn.Return(bb)
	requireMalformed(t, fn, "bb_0.ins[0]", "dangling operand %0")
}

func TestVerify_TerminatorOperand(t *testing.T) {
	fn := NewFunc("term", 0)
	a := fn.NewBlock("")
	b := fn.NewBlock("")
	j := fn.Jump(a, b)
	fn.Return(b, fn.Value(j))
	requireMalformed(t, fn, "bb_1.ins[0]", "operand %0 refers to a terminator")
}

func TestVerify_BadCondition(t *testing.T) {
	fn := NewFunc("cond", 0)
	a := fn.NewBlock("")
	b := fn.NewBlock("")
	fn.Terminate(a, "br", NewFunc("other", 1).Arg(0), nil, b, b)
	fn.Return(b)
	requireMalformed(t, fn, "bb_0.ins[0]", "argument %arg0 belongs to another function")
}

func buildMerge(edges func(fn *Func, a Block, b Block, c Block) []Edge) *Func {
	fn := NewFunc("merge", 1)
	a := fn.NewBlock("")
	b := fn.NewBlock("")
	c := fn.NewBlock("")
	fn.Branch(a, fn.Arg(0), b, c)
	fn.Jump(b, c)
	fn.Return(c, fn.Phi(c, edges(fn, a, b, c)...))
	return fn
}

func TestVerify_Merge(t *testing.T) {
	fn := buildMerge(func(fn *Func, a Block, b Block, _ Block) []Edge {
		return []Edge{{a, fn.Arg(0)}, {b, fn.Const(1)}}
	})
	require.NoError(t, fn.Verify())

	/* incoming values from blocks that do not jump here */
	fn = buildMerge(func(fn *Func, a Block, b Block, c Block) []Edge {
		return []Edge{{a, fn.Arg(0)}, {b, fn.Const(1)}, {c, fn.Const(2)}}
	})
	requireMalformed(t, fn, "bb_2.ins[0]", "incoming value from bb_2 which is not a predecessor")

	/* two values for the same edge */
	fn = buildMerge(func(fn *Func, a Block, b Block, _ Block) []Edge {
		return []Edge{{a, fn.Arg(0)}, {a, fn.Const(1)}, {b, fn.Const(1)}}
	})
	requireMalformed(t, fn, "bb_2.ins[0]", "duplicated incoming value from bb_0")

	/* every predecessor needs a value */
	fn = buildMerge(func(fn *Func, _ Block, b Block, _ Block) []Edge {
		return []Edge{{b, fn.Const(1)}}
	})
	requireMalformed(t, fn, "bb_2.ins[0]", "missing incoming value from bb_0")

	/* incoming values are verified like operands */
	fn = buildMerge(func(fn *Func, a Block, b Block, _ Block) []Edge {
		return []Edge{{a, None}, {b, fn.Const(1)}}
	})
	requireMalformed(t, fn, "bb_2.ins[0]", "missing operand")
}

func TestVerify_MergeWithoutPredecessors(t *testing.T) {
	fn := NewFunc("entry", 0)
	bb := fn.NewBlock("")
	fn.Return(bb, fn.Phi(bb))
	require.NoError(t, fn.Verify())
}
