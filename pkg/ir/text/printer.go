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
package text

import (
	"strings"

	"github.com/tesseralang/go-tessera/pkg/ir"
	"github.com/tesseralang/go-tessera/pkg/util/source/sexp"
)

// FormatModule renders a module back into its textual form, aiming to fit the
// output within a given width.  The output reparses to an equivalent module.
func FormatModule(module *ir.Module, width uint) string {
	var (
		formatter = newFormatter(width)
		builder   strings.Builder
	)
	//
	for i, decl := range module.Lisp() {
		if i != 0 {
			builder.WriteString("\n")
		}
		//
		builder.WriteString(formatter.Format(decl))
	}
	//
	return builder.String()
}

// FormatExpr renders a single expression, aiming to fit a given width.
func FormatExpr(expr ir.Expr, width uint) string {
	return newFormatter(width).Format(expr.Lisp())
}

func newFormatter(width uint) *sexp.Formatter {
	formatter := sexp.NewFormatter(width)
	// Declarations split early, binding forms next, plain calls last.
	formatter.Add(&sexp.SFormatter{Head: "def", Priority: 0})
	formatter.Add(&sexp.SFormatter{Head: "placement", Priority: 0})
	formatter.Add(&sexp.SFormatter{Head: "let", Priority: 1})
	formatter.Add(&sexp.LFormatter{Head: "if", Priority: 1})
	formatter.Add(&sexp.SFormatter{Head: "fn", Priority: 1})
	formatter.Add(&sexp.SFormatter{Head: "on_device", Priority: 2})
	formatter.Add(&sexp.LFormatter{Head: "tuple", Priority: 3})
	//
	return formatter
}
