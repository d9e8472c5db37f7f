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
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/cloudwego/dce/ir"
)

// Trace writes the live-in set of every instruction in program order, one
// set per line, followed by an empty set. Merge instructions are skipped,
// their uses belong to the incoming edges rather than a position.
func (self *Liveness) Trace(w io.Writer) (err error) {
	self.check("Trace")
	self.Each(func(i ir.Instr, ls *LiveSet) {
		if err == nil && self.fn.Kind(i) != ir.KindMerge {
			_, err = fmt.Fprintln(w, ls.In)
		}
	})

	/* terminating line */
	if err == nil {
		_, err = io.WriteString(w, "{}\n")
	}
	return
}

func (self *Liveness) String() string {
	self.check("String")
	buf := []string{fmt.Sprintf("Liveness(%s, sweeps = %d) {", self.fn.Name, self.sweeps)}

	/* dump every block */
	for _, bb := range self.fn.Blocks() {
		buf = append(buf, fmt.Sprintf("%s:", bb))

		/* dump every instruction */
		for _, i := range self.fn.Instrs(bb) {
			ls := self.sets[i]
			buf = append(buf, fmt.Sprintf("    %-32s # in = %s, out = %s", self.fn.Format(i), ls.In, ls.Out))

			/* per-edge uses of merge instructions */
			for _, p := range usepreds(ls.Use) {
				buf = append(buf, fmt.Sprintf("    %-32s # use[%s] = %s", "", p, ls.Use[p]))
			}
		}
	}

	/* join them together */
	buf = append(buf, "}")
	return strings.Join(buf, "\n")
}

func usepreds(use map[ir.Block]ValueSet) []ir.Block {
	ret := make([]ir.Block, 0, len(use))
	for p := range use {
		ret = append(ret, p)
	}
	sort.Slice(ret, func(i int, j int) bool {
		return ret[i] < ret[j]
	})
	return ret
}

// _LockedWriter serializes writes of concurrent eliminations. Every function
// writes its whole trace at once, so traces never interleave.
type _LockedWriter struct {
	mu sync.Mutex
	wr io.Writer
}

func (self *_LockedWriter) Write(p []byte) (int, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.wr.Write(p)
}
