package token_management

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenManager_Accumulates(t *testing.T) {
	tm := NewTokenManagerWithWriter(&bytes.Buffer{})

	tm.UsedTokens(100, 10, 0.0002)
	tm.UsedTokens(50, 5, 0.0001)

	total, input, output := tm.GetCurrentTokenUsage()
	assert.Equal(t, 165, total)
	assert.Equal(t, 150, input)
	assert.Equal(t, 15, output)
	assert.InDelta(t, 0.0003, tm.GetCurrentCost(), 1e-12)

	tm.ClearToken()
	total, _, _ = tm.GetCurrentTokenUsage()
	assert.Zero(t, total)
	assert.Zero(t, tm.GetCurrentCost())
}

func TestTokenManager_DisplayTokens(t *testing.T) {
	var out bytes.Buffer
	tm := NewTokenManagerWithWriter(&out)

	tm.DisplayTokens("some/model")
	assert.Empty(t, out.String())

	tm.UsedTokens(1200, 12, 0.0005)
	tm.DisplayTokens("some/model")

	assert.Contains(t, out.String(), "Token Used: 1212 (1200 in / 12 out)")
	assert.Contains(t, out.String(), "0.000500 $")
	assert.Contains(t, out.String(), "some/model")
}
