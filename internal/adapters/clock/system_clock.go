package clock

import (
	"time"

	"github.com/billingapp/billing_backend/internal/core/domain"
)

// SystemClock reads the wall clock. All timestamps are normalized to UTC so
// persisted instants compare consistently regardless of server locale.
type SystemClock struct{}

// NewSystemClock returns the production clock.
func NewSystemClock() SystemClock {
	return SystemClock{}
}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Ensure SystemClock implements domain.Clock
var _ domain.Clock = SystemClock{}
