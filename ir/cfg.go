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
	"sort"

	"github.com/oleiade/lane"
)

// Terminator returns the terminator of b, if b has one.
func (self *Func) Terminator(b Block) (Instr, bool) {
	ins := self.block(b).ins
	nb := len(ins)

	/* the terminator is always the last instruction */
	if nb == 0 || self.instrs[ins[nb-1]].node.Kind() != KindTerminator {
		return 0, false
	} else {
		return ins[nb-1], true
	}
}

// Succ returns the successors of b, which are exactly the successor targets
// of its terminator.
func (self *Func) Succ(b Block) []Block {
	if t, ok := self.Terminator(b); !ok {
		return nil
	} else {
		return append([]Block(nil), self.instrs[t].node.(*Term).Succ...)
	}
}

// Pred returns the predecessors of b in block order. They are derived from
// every terminator on each call and never stored.
func (self *Func) Pred(b Block) []Block {
	var ret []Block
	self.block(b)

	/* scan every terminator */
	for bi := range self.blocks {
		for _, s := range self.Succ(Block(bi)) {
			if s == b {
				ret = append(ret, Block(bi))
				break
			}
		}
	}

	/* already sorted by construction */
	return ret
}

// predecessors derives the predecessor sets of every block at once.
func (self *Func) predecessors() map[Block]map[Block]bool {
	ret := make(map[Block]map[Block]bool, len(self.blocks))
	for bi := range self.blocks {
		for _, s := range self.Succ(Block(bi)) {
			if ret[s] == nil {
				ret[s] = map[Block]bool{Block(bi): true}
			} else {
				ret[s][Block(bi)] = true
			}
		}
	}
	return ret
}

// Merges returns the leading run of merge instructions of b.
func (self *Func) Merges(b Block) []Instr {
	var ret []Instr
	for _, i := range self.block(b).ins {
		if self.instrs[i].node.Kind() != KindMerge {
			break
		} else {
			ret = append(ret, i)
		}
	}
	return ret
}

// FirstNonMerge returns the first instruction of b after its merge run.
func (self *Func) FirstNonMerge(b Block) (Instr, bool) {
	for _, i := range self.block(b).ins {
		if self.instrs[i].node.Kind() != KindMerge {
			return i, true
		}
	}
	return 0, false
}

// PostOrder returns the blocks reachable from the entry in depth-first
// post-order, successors before the blocks reaching them.
func (self *Func) PostOrder() []Block {
	if len(self.blocks) == 0 {
		return nil
	}

	/* DFS state */
	st := lane.NewStack()
	rt := self.Entry()
	ret := make([]Block, 0, len(self.blocks))
	vis := map[Block]struct{}{rt: {}}

	/* scan until the stack is empty */
	for st.Push(rt); !st.Empty(); {
		tail := true
		this := st.Head().(Block)

		/* add the first unvisited successor */
		for _, p := range self.Succ(this) {
			if _, ok := vis[p]; !ok && int(p) >= 0 && int(p) < len(self.blocks) {
				tail = false
				vis[p] = struct{}{}
				st.Push(p)
				break
			}
		}

		/* all the successors are visited, pop the current node */
		if tail {
			ret = append(ret, st.Pop().(Block))
		}
	}

	return ret
}

// Reachable returns the blocks reachable from the entry, sorted.
func (self *Func) Reachable() []Block {
	if len(self.blocks) == 0 {
		return nil
	}

	/* BFS state */
	q := lane.NewQueue()
	rt := self.Entry()
	vis := map[Block]struct{}{rt: {}}
	ret := []Block{rt}

	/* scan until the queue is empty */
	for q.Enqueue(rt); !q.Empty(); {
		for _, p := range self.Succ(q.Dequeue().(Block)) {
			if _, ok := vis[p]; !ok && int(p) >= 0 && int(p) < len(self.blocks) {
				vis[p] = struct{}{}
				ret = append(ret, p)
				q.Enqueue(p)
			}
		}
	}

	/* sort by block ID */
	sort.Slice(ret, func(i int, j int) bool {
		return ret[i] < ret[j]
	})
	return ret
}
