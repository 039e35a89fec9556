package domain

// UserRole is the authorization role of a user account.
type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

// Privacy is the visibility of a dream record.
type Privacy string

const (
	PrivacyPublic   Privacy = "PUBLIC"
	PrivacyUnlisted Privacy = "UNLISTED"
	PrivacyPrivate  Privacy = "PRIVATE"
)

func (p Privacy) String() string { return string(p) }

func (p Privacy) IsValid() bool {
	switch p {
	case PrivacyPublic, PrivacyUnlisted, PrivacyPrivate:
		return true
	}
	return false
}

// VisualizationStatus tracks generation of a visualization asset.
type VisualizationStatus string

const (
	VisualizationStatusPending    VisualizationStatus = "PENDING"
	VisualizationStatusGenerating VisualizationStatus = "GENERATING"
	VisualizationStatusReady      VisualizationStatus = "READY"
	VisualizationStatusFailed     VisualizationStatus = "FAILED"
)

func (s VisualizationStatus) String() string { return string(s) }

func (s VisualizationStatus) IsValid() bool {
	switch s {
	case VisualizationStatusPending, VisualizationStatusGenerating,
		VisualizationStatusReady, VisualizationStatusFailed:
		return true
	}
	return false
}

// LotStatus is the moderation state of a marketplace lot.
type LotStatus string

const (
	LotStatusPending  LotStatus = "PENDING"
	LotStatusApproved LotStatus = "APPROVED"
	LotStatusRejected LotStatus = "REJECTED"
	LotStatusArchived LotStatus = "ARCHIVED"
)

func (s LotStatus) String() string { return string(s) }

func (s LotStatus) IsValid() bool {
	switch s {
	case LotStatusPending, LotStatusApproved, LotStatusRejected, LotStatusArchived:
		return true
	}
	return false
}

// ModerationAction names the decision recorded in a moderation log entry.
type ModerationAction string

const (
	ModerationActionApprove ModerationAction = "APPROVE"
	ModerationActionReject  ModerationAction = "REJECT"
	ModerationActionArchive ModerationAction = "ARCHIVE"
)

func (a ModerationAction) String() string { return string(a) }

func (a ModerationAction) IsValid() bool {
	switch a {
	case ModerationActionApprove, ModerationActionReject, ModerationActionArchive:
		return true
	}
	return false
}
