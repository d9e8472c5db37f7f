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
	"sort"
	"strings"

	"github.com/cloudwego/dce/ir"
)

type (
	ValueSet map[ir.Value]struct{}
)

func (self ValueSet) add(v ir.Value) bool {
	if _, ok := self[v]; ok {
		return false
	} else {
		self[v] = struct{}{}
		return true
	}
}

func (self ValueSet) union(other ValueSet) {
	for v := range other {
		self[v] = struct{}{}
	}
}

func (self ValueSet) clone() (rs ValueSet) {
	rs = make(ValueSet, len(self))
	rs.union(self)
	return
}

func (self ValueSet) equal(other ValueSet) bool {
	if len(self) != len(other) {
		return false
	}
	for v := range self {
		if _, ok := other[v]; !ok {
			return false
		}
	}
	return true
}

func (self ValueSet) Contains(v ir.Value) bool {
	_, ok := self[v]
	return ok
}

// Sorted returns the values ordered by kind and index.
func (self ValueSet) Sorted() []ir.Value {
	rv := make([]ir.Value, 0, len(self))
	for v := range self {
		rv = append(rv, v)
	}
	sort.Slice(rv, func(i int, j int) bool {
		return rv[i].Less(rv[j])
	})
	return rv
}

func (self ValueSet) String() string {
	rv := self.Sorted()
	rs := make([]string, 0, len(rv))

	/* convert every value */
	for _, v := range rv {
		rs = append(rs, v.String())
	}

	/* join them together */
	return fmt.Sprintf(
		"{%s}",
		strings.Join(rs, ", "),
	)
}
