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

package stats

import (
	"sync/atomic"
)

var (
	FuncCount    uint64
	RoundCount   uint64
	SweepCount   uint64
	RemovedCount uint64
)

func AddFunc() {
	atomic.AddUint64(&FuncCount, 1)
}

func AddRound(sweeps int, removed int) {
	atomic.AddUint64(&RoundCount, 1)
	atomic.AddUint64(&SweepCount, uint64(sweeps))
	atomic.AddUint64(&RemovedCount, uint64(removed))
}

func Load() (funcs uint64, rounds uint64, sweeps uint64, removed uint64) {
	funcs = atomic.LoadUint64(&FuncCount)
	rounds = atomic.LoadUint64(&RoundCount)
	sweeps = atomic.LoadUint64(&SweepCount)
	removed = atomic.LoadUint64(&RemovedCount)
	return
}
