package token_management

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/maty-millien/pushit/constants/lipgloss"
	"github.com/maty-millien/pushit/token_management/contracts"
)

// TokenManager implementation
type tokenManager struct {
	mu              sync.Mutex
	out             io.Writer
	usedToken       int
	usedInputToken  int
	usedOutputToken int
	cost            float64
}

// NewTokenManager creates a new token manager printing to stdout
func NewTokenManager() contracts.ITokenManagement {
	return NewTokenManagerWithWriter(os.Stdout)
}

// NewTokenManagerWithWriter creates a token manager printing to out
func NewTokenManagerWithWriter(out io.Writer) contracts.ITokenManagement {
	return &tokenManager{out: out}
}

// UsedTokens accumulates the token count and the reported cost for the session.
func (tm *tokenManager) UsedTokens(inputToken int, outputToken int, cost float64) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.usedInputToken += inputToken
	tm.usedOutputToken += outputToken
	tm.usedToken += inputToken + outputToken
	tm.cost += cost
}

func (tm *tokenManager) DisplayTokens(chatModel string) {
	total, input, output := tm.GetCurrentTokenUsage()
	if total == 0 {
		return
	}

	tokenInfo := fmt.Sprintf("Token Used: %d (%d in / %d out) - Cost: %.6f $ - Chat Model: %s",
		total, input, output, tm.GetCurrentCost(), chatModel)

	fmt.Fprintln(tm.out, lipgloss.BoxStyle.Render(tokenInfo))
}

func (tm *tokenManager) GetCurrentTokenUsage() (total int, input int, output int) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.usedToken, tm.usedInputToken, tm.usedOutputToken
}

func (tm *tokenManager) GetCurrentCost() float64 {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.cost
}

func (tm *tokenManager) ClearToken() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.usedToken = 0
	tm.usedInputToken = 0
	tm.usedOutputToken = 0
	tm.cost = 0
}
