// Copyright Tessera Systems Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package termio

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DEFAULT_WIDTH is used when the terminal width cannot be determined (e.g.
// because output is redirected to a file).
const DEFAULT_WIDTH = uint(80)

// IsTerminal checks whether standard output is connected to an actual
// terminal, as opposed to (say) a pipe or a file.
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Width determines the width of the enclosing terminal window, falling back
// on a sensible default when this cannot be determined.
func Width() uint {
	if IsTerminal() {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			return uint(w)
		}
	}
	//
	return DEFAULT_WIDTH
}
