// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// ErrMountPathConflict is returned by [NewHandler] when the API mount path
// is "/" or overlaps one of the fixed prefixes /public, /dashboard or /test.
var ErrMountPathConflict = errors.New("api mount path conflicts with a reserved route")
