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
	"sort"

	"github.com/cloudwego/dce/ir"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// sweepOrder returns every block of fn in the order the analyzer visits them:
// strongly connected components sinks first, and blocks of a component in
// post-order. Liveness flows backwards, so this order converges in fewer sweeps.
func sweepOrder(fn *ir.Func) []ir.Block {
	bbs := fn.Blocks()
	rank := make(map[ir.Block]int, len(bbs))
	g := simple.NewDirectedGraph()

	/* add every block */
	for _, bb := range bbs {
		g.AddNode(simple.Node(bb))
	}

	/* add every edge, self loops do not change the components */
	for _, bb := range bbs {
		for _, s := range fn.Succ(bb) {
			if s != bb {
				g.SetEdge(g.NewEdge(simple.Node(bb), simple.Node(s)))
			}
		}
	}

	/* rank blocks by post-order, unreachable blocks go last */
	for i, bb := range fn.PostOrder() {
		rank[bb] = i
	}
	for _, bb := range bbs {
		if _, ok := rank[bb]; !ok {
			rank[bb] = len(bbs) + int(bb)
		}
	}

	/* components come in reverse topological order */
	ret := make([]ir.Block, 0, len(bbs))
	for _, scc := range topo.TarjanSCC(g) {
		n := len(ret)
		for _, nd := range scc {
			ret = append(ret, ir.Block(nd.ID()))
		}

		/* order blocks within the component */
		tail := ret[n:]
		sort.Slice(tail, func(i int, j int) bool {
			return rank[tail[i]] < rank[tail[j]]
		})
	}

	return ret
}
