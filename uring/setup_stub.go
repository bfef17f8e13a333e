// File: uring/setup_stub.go
//go:build !linux
// +build !linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-Linux stubs. The ring protocol needs the Linux kernel consumer;
// elsewhere only construction over caller-provided memory (as the tests
// do) is meaningful.

package uring

import (
	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-uring/api"
)

// New is unsupported off Linux.
func New(_ Params, _ *logrus.Logger) (*Ring, error) {
	return nil, api.ErrNotSupported
}

// HasIoUringSupport reports false off Linux.
func HasIoUringSupport() bool {
	return false
}

func (r *Ring) release() error {
	return nil
}
