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

package debug

import (
	"github.com/cloudwego/dce/internal/stats"
)

// A Stats records statistics about the dead-code eliminator since the
// process started.
type Stats struct {
	Funcs   int
	Rounds  int
	Sweeps  int
	Removed int
}

// GetStats returns statistics of the dead-code eliminator.
func GetStats() Stats {
	funcs, rounds, sweeps, removed := stats.Load()
	return Stats{
		Funcs:   int(funcs),
		Rounds:  int(rounds),
		Sweeps:  int(sweeps),
		Removed: int(removed),
	}
}
