// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package account_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/threadline/internal/account"
)

func TestNewSessionID(t *testing.T) {
	sid, err := account.NewSessionID()
	require.NoError(t, err)
	assert.Len(t, sid, account.SessionIDBytes*2) // hex-encoded

	_, err = hex.DecodeString(sid)
	assert.NoError(t, err)

	other, err := account.NewSessionID()
	require.NoError(t, err)
	assert.NotEqual(t, sid, other)
}

func TestNewResetToken(t *testing.T) {
	token, err := account.NewResetToken()
	require.NoError(t, err)
	assert.Len(t, token, account.ResetTokenBytes*2)

	_, err = hex.DecodeString(token)
	assert.NoError(t, err)

	other, err := account.NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
