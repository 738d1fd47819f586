package model

import "time"

type ApprovalStatus string

const (
	StatusPending            ApprovalStatus = "pending"
	StatusWaitingByCounselor ApprovalStatus = "waiting_by_counselor"
	StatusWaitingByLead      ApprovalStatus = "waiting_by_lead"
	StatusWaitingByDirector  ApprovalStatus = "waiting_by_director"
	StatusApproved           ApprovalStatus = "approved"

	StatusRejectedByCounselor ApprovalStatus = "rejected_by_counselor"
	StatusRejectedByLead      ApprovalStatus = "rejected_by_lead"
	StatusRejectedByDirector  ApprovalStatus = "rejected_by_director"

	// Partial approval markers written by older clients. The spelling is part of
	// the stored data and must not be corrected.
	StatusApprovedByCounselor ApprovalStatus = "aprroved_by_counselor"
	StatusApprovedByLead      ApprovalStatus = "aprroved_by_lead"
	StatusApprovedByDirector  ApprovalStatus = "aprroved_by_director"
)

// AllStatuses lists every status value accepted in storage.
var AllStatuses = []ApprovalStatus{
	StatusPending,
	StatusWaitingByCounselor,
	StatusWaitingByLead,
	StatusWaitingByDirector,
	StatusApproved,
	StatusRejectedByCounselor,
	StatusRejectedByLead,
	StatusRejectedByDirector,
	StatusApprovedByCounselor,
	StatusApprovedByLead,
	StatusApprovedByDirector,
}

// Canonical folds a partial approval marker onto the waiting state it is
// equivalent to. Other values are returned unchanged.
func (s ApprovalStatus) Canonical() ApprovalStatus {
	switch s {
	case StatusApprovedByCounselor:
		return StatusWaitingByLead
	case StatusApprovedByLead:
		return StatusWaitingByDirector
	case StatusApprovedByDirector:
		return StatusApproved
	}
	return s
}

func (s ApprovalStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type CommentKind string

const (
	CommentApproval  CommentKind = "approval"
	CommentRejection CommentKind = "rejection"
)

// DecisionComment is one entry of the approval or rejection log. Every decision
// event, approve or reject, appends exactly one.
// swagger:model DecisionComment
type DecisionComment struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	AssociationID string         `gorm:"index;type:varchar(36)" json:"-"`
	Kind          CommentKind    `gorm:"size:20;index" json:"-"`
	Stage         ApprovalStatus `gorm:"size:40" json:"stage"`
	Text          string         `gorm:"type:text" json:"text"`
	Timestamp     time.Time      `json:"timestamp"`
	ActorID       uint           `json:"actorId"`
	ActorName     string         `gorm:"size:100" json:"actorName"`
}

func (DecisionComment) TableName() string {
	return "association_comments"
}

// swagger:model ReportEntry
type ReportEntry struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	AssociationID string    `gorm:"index;type:varchar(36)" json:"-"`
	Text          string    `gorm:"type:text;not null" json:"text"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

func (ReportEntry) TableName() string {
	return "association_reports"
}

// SpecialtyAssociation links a member to a specialty claim and carries the
// approval workflow state. It is only mutated through the workflow gates.
// swagger:model SpecialtyAssociation
type SpecialtyAssociation struct {
	UUIDBase
	MemberID       uint           `gorm:"index:idx_member_specialty;not null" json:"memberId"`
	SpecialtyID    uint           `gorm:"index:idx_member_specialty;not null" json:"specialtyId"`
	// ActiveKey is "<member>:<specialty>" while the claim is live and NULL once
	// deleted, so the unique index only covers live claims.
	ActiveKey *string `gorm:"size:64;uniqueIndex:uidx_active_claim" json:"-"`
	ApprovalStatus ApprovalStatus `gorm:"size:40;index;default:'pending'" json:"approvalStatus"`
	IsQuizApproved bool           `gorm:"default:false" json:"isQuizApproved"`

	Reports []ReportEntry `gorm:"foreignKey:AssociationID" json:"report"`

	CounselorApproval   bool       `gorm:"default:false" json:"counselorApproval"`
	CounselorApprovalAt *time.Time `json:"counselorApprovalAt,omitempty"`
	LeadApproval        bool       `gorm:"default:false" json:"leadApproval"`
	LeadApprovalAt      *time.Time `json:"leadApprovalAt,omitempty"`
	DirectorApproval    bool       `gorm:"default:false" json:"directorApproval"`
	DirectorApprovalAt  *time.Time `json:"directorApprovalAt,omitempty"`

	ApprovalComments  []DecisionComment `gorm:"foreignKey:AssociationID" json:"approvalComments"`
	RejectionComments []DecisionComment `gorm:"foreignKey:AssociationID" json:"rejectionComments"`

	// Version is bumped by every persisted transition and used as the
	// compare-and-set guard.
	Version int `gorm:"not null;default:0" json:"version"`
}

func (SpecialtyAssociation) TableName() string {
	return "specialty_associations"
}
