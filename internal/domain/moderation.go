package domain

import "time"

// ModerationLog is an immutable record of an administrative action on a lot.
type ModerationLog struct {
	ID        int64
	AdminID   int64
	LotID     int64
	Action    ModerationAction
	Reason    *string
	CreatedAt time.Time
}
