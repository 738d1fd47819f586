package model

// swagger:model Specialty
type Specialty struct {
	BaseModel
	Name     string `gorm:"size:150;not null;uniqueIndex" json:"name"`
	Category string `gorm:"size:100" json:"category"`
	// QuizID is the quiz a member must pass before a report is accepted.
	QuizID *uint `gorm:"index" json:"quizId,omitempty"`
}

func (Specialty) TableName() string {
	return "specialties"
}
