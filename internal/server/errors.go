// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// ErrAlreadyStarted is returned by Start when called more than once.
	ErrAlreadyStarted = errors.New("server already started")
	// ErrNotStarted is returned by Run before a successful Start.
	ErrNotStarted = errors.New("server not started")
)
