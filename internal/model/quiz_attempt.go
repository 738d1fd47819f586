package model

import "time"

type AttemptStatus string

const (
	AttemptApproved AttemptStatus = "approved"
	AttemptFailed   AttemptStatus = "failed"
)

// QuizAttempt is the scored result of one quiz submission. Status is the
// authoritative pass/fail verdict.
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	MemberID       uint                `gorm:"index:idx_attempt_member_quiz;not null" json:"memberId"`
	QuizID         uint                `gorm:"index:idx_attempt_member_quiz;not null" json:"quizId"`
	Score          int                 `json:"score"`
	Total          int                 `json:"total"`
	Status         AttemptStatus       `gorm:"size:20;index" json:"status"`
	FailedAttempts int                 `json:"failedAttempts"`
	AttemptDate    time.Time           `json:"attemptDate"`
	Answers        []QuizAttemptAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// swagger:model QuizAttemptAnswer
type QuizAttemptAnswer struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	AttemptID  string `gorm:"index;type:varchar(36)" json:"-"`
	QuestionID uint   `json:"questionId"`
	AnswerID   uint   `json:"answerId"`
	IsCorrect  bool   `json:"-"`
}

func (QuizAttemptAnswer) TableName() string {
	return "quiz_attempt_answers"
}

func (a QuizAttempt) Passed() bool {
	return a.Status == AttemptApproved
}
