/*
 * Copyright 2022 CloudWeGo Authors
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

	"github.com/cloudwego/dce/internal/opts"
	"golang.org/x/exp/slog"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithMaxWorkers sets how many functions EliminateAll processes concurrently.
//
// This value can also be configured with the `DCE_MAX_WORKERS` environment
// variable.
//
// The default value of this option is the number of CPUs.
func WithMaxWorkers(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("dce: invalid worker count: %d", n))
	} else {
		return func(o *opts.Options) { o.MaxWorkers = n }
	}
}

// WithVerifyRounds re-verifies the function after every removal round.
//
// This is meant for debugging the pass itself, a verification failure after
// removal is an internal-invariant failure and panics.
//
// This value can also be enabled by setting the `DCE_VERIFY_ROUNDS`
// environment variable to "yes".
func WithVerifyRounds(v bool) Option {
	return func(o *opts.Options) { o.VerifyRounds = v }
}

// WithLocalDeadness makes the eliminator decide deadness from the live-out set
// of the defining instruction alone, instead of scanning every live set of the
// function.
//
// Both agree when definitions dominate their uses. Do not enable this option
// for functions that are not in strict SSA form.
func WithLocalDeadness(v bool) Option {
	return func(o *opts.Options) { o.LocalDeadness = v }
}

// WithTrace prints the live-in sets computed by the first analysis round to w.
// Each function's trace is written with a single call, and EliminateAll
// serializes the calls, so w needs no locking of its own.
func WithTrace(w io.Writer) Option {
	return func(o *opts.Options) { o.Trace = w }
}

// WithLogger sets the structured logger used to report elimination rounds.
//
// Setting the `DCE_DEBUG` environment variable to "yes" makes the default
// logger write debug records to stderr, it discards everything otherwise.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("dce: nil logger")
	} else {
		return func(o *opts.Options) { o.Logger = l }
	}
}

func buildOptions(options []Option) opts.Options {
	ret := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&ret)
	}
	return ret
}
