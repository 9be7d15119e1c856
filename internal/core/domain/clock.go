package domain

import "time"

// Clock supplies the current time to invoice transitions. The aggregate never
// reads ambient wall-clock time itself, so issuance, payment and voiding stay
// deterministic under test.
type Clock interface {
	Now() time.Time
}
