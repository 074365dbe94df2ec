package utils

import (
	"context"
	"fmt"

	"github.com/maty-millien/pushit/constants/lipgloss"
)

// GracefulShutdown blocks until ctx is canceled by a signal or done is
// closed. On cancellation it runs cleanup and reports true.
func GracefulShutdown(ctx context.Context, done <-chan struct{}, cleanup func()) bool {
	select {
	case <-done:
		return false
	case <-ctx.Done():
		// done wins when both fired
		select {
		case <-done:
			return false
		default:
		}
	}

	fmt.Println(lipgloss.Yellow.Render("\n🔄 Interrupted, restoring the index..."))
	if cleanup != nil {
		cleanup()
	}
	return true
}
