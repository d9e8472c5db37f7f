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

package opts

import (
	"io"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/exp/slog"
)

var (
	MaxWorkers   = parseOrDefault("DCE_MAX_WORKERS", runtime.NumCPU(), 1)
	VerifyRounds = os.Getenv("DCE_VERIFY_ROUNDS") == "yes"
	Logger       = newLogger(os.Getenv("DCE_DEBUG") == "yes")
)

func parseOrDefault(key string, def int, min int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
		panic("dce: invalid value for " + key)
	} else if ret := int(val); ret < min {
		panic("dce: value too small for " + key)
	} else {
		return ret
	}
}

func newLogger(debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	} else {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
