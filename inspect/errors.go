/*
 * mshape
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package inspect

import "fmt"

// Error reports a should-never-happen inconsistency encountered while
// inspecting a node-id map -- the "Common invariant" category of spec.md
// §7, mirrored here the same way parser.Error and nodeidmap.Error mirror
// it for their own packages.
type Error struct {
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("inspection invariant violated: %s", e.Detail)
}

func newError(format string, args ...interface{}) *Error {
	return &Error{Detail: fmt.Sprintf(format, args...)}
}
