// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/threadline/threadline/pkg/errutil"
)

func TestAssertErrorCode(t *testing.T) {
	err := oops.Code("CONFIG_INVALID").Errorf("bad config")
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestAssertErrorContext(t *testing.T) {
	err := oops.With("addr", "localhost:5432").Errorf("dial failed")
	errutil.AssertErrorContext(t, err, "addr", "localhost:5432")
}
