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
	"bytes"

	"github.com/cloudwego/dce/internal/opts"
	"github.com/cloudwego/dce/internal/stats"
	"github.com/cloudwego/dce/ir"
)

type _State uint8

const (
	_S_analyzing _State = iota
	_S_converged
)

func eliminate(fn *ir.Func, o *opts.Options) (ret Result, err error) {
	if err = fn.Verify(); err != nil {
		return
	}

	/* one more function */
	stats.AddFunc()

	/* analyze and remove until a round removes nothing */
	for st := _S_analyzing; st != _S_converged; {
		lv := analyze(fn)

		/* the initial analysis goes to the trace, in a single write */
		if ret.Rounds == 0 && o.Trace != nil {
			buf := new(bytes.Buffer)
			_ = lv.Trace(buf)

			/* writers may be shared by concurrent eliminations */
			if _, err = o.Trace.Write(buf.Bytes()); err != nil {
				return
			}
		}

		/* find out the dead instructions */
		dead := lv.dead(o.LocalDeadness)
		ret.Rounds++
		ret.Removed += len(dead)
		ret.PerRound = append(ret.PerRound, len(dead))
		stats.AddRound(lv.sweeps, len(dead))

		/* log the round */
		o.Logger.Debug("dce round",
			"func", fn.Name,
			"round", ret.Rounds,
			"removed", len(dead),
			"sweeps", lv.sweeps,
		)

		/* no more modifications */
		if len(dead) == 0 {
			st = _S_converged
			continue
		}

		/* remove them, the liveness map is gone after this */
		lv.release(dead)

		/* the removal must leave a well-formed function */
		if o.VerifyRounds {
			if e := fn.Verify(); e != nil {
				panic(einvariant("Eliminate", "round %d broke the function: %v", ret.Rounds, e))
			}
		}
	}

	o.Logger.Debug("dce converged",
		"func", fn.Name,
		"rounds", ret.Rounds,
		"removed", ret.Removed,
		"remaining", fn.Len(),
	)
	return
}

// dead returns the non-terminator instructions whose value no live
// computation needs, in program order.
func (self *Liveness) dead(local bool) (ret []ir.Instr) {
	var live ValueSet
	self.check("dead")

	/* every value live anywhere in the function */
	if !local {
		live = make(ValueSet)
		for _, ls := range self.sets {
			live.union(ls.In)
			live.union(ls.Out)
		}
	}

	/* classify every instruction */
	for _, bb := range self.fn.Blocks() {
		for _, i := range self.fn.Instrs(bb) {
			v := self.fn.Value(i)
			isdead := false

			/* either check the definition site alone, or the whole function */
			if local {
				isdead = !self.sets[i].Out.Contains(v)
			} else {
				isdead = !live.Contains(v)
			}

			/* terminators define control flow and are never removed */
			if isdead && self.fn.Kind(i) != ir.KindTerminator {
				ret = append(ret, i)
			}
		}
	}

	return
}

// release removes the dead instructions from the function. The liveness map
// describes the old function and cannot be used afterwards.
func (self *Liveness) release(dead []ir.Instr) {
	self.check("release")
	fn := self.fn

	/* never ask the IR to remove a terminator */
	for _, i := range dead {
		if fn.Kind(i) == ir.KindTerminator {
			panic(einvariant("release", "terminator %s selected for removal", i))
		}
	}

	/* consume the liveness map */
	self.fn = nil
	self.sets = nil
	fn.RemoveAll(dead)
}
