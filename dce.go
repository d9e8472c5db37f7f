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

// Package dce removes dead instructions from functions of package ir, driven
// by a backward liveness analysis over every instruction.
package dce

import (
	"github.com/cloudwego/dce/ir"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Result reports what an elimination run did. Rounds counts analysis rounds,
// the last one being the round that found nothing to remove, and PerRound
// holds the number of instructions removed by each of them.
type Result struct {
	Rounds   int
	Removed  int
	PerRound []int
}

// Eliminate removes every non-terminator instruction of fn whose value is
// never needed, repeating until nothing more can be removed. fn is mutated in
// place. A *MalformedError is returned, with fn untouched, if fn does not
// pass verification.
func Eliminate(fn *ir.Func, options ...Option) (Result, error) {
	o := buildOptions(options)
	return eliminate(fn, &o)
}

// EliminateAll runs Eliminate over distinct functions concurrently. The
// results are in the same order as fns. The first failure is returned, and
// functions that were already processed keep their modifications.
func EliminateAll(fns []*ir.Func, options ...Option) ([]Result, error) {
	o := buildOptions(options)
	ret := make([]Result, len(fns))

	/* nothing to do */
	if len(fns) == 0 {
		return ret, nil
	}

	/* the trace writer is the only thing the workers share */
	if o.Trace != nil {
		o.Trace = &_LockedWriter{wr: o.Trace}
	}

	/* functions share nothing else, so each one gets its own worker */
	eg := new(errgroup.Group)
	eg.SetLimit(o.Workers(len(fns)))

	/* process every function */
	for i, fn := range fns {
		i, fn := i, fn
		eg.Go(func() error {
			if res, err := eliminate(fn, &o); err != nil {
				return errors.Wrapf(err, "dce: cannot eliminate dead code of %s", fn.Name)
			} else {
				ret[i] = res
				return nil
			}
		})
	}

	/* wait for all of them */
	if err := eg.Wait(); err != nil {
		return nil, err
	} else {
		return ret, nil
	}
}
