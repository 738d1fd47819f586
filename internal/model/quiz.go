package model

// Quiz gates a specialty. Questions and answers are maintained outside this
// service; here they are read-only.
// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title string `gorm:"size:255;not null" json:"title"`
	// PassingScore is the minimum number of correct answers. Zero falls back to
	// the configured pass ratio.
	PassingScore int            `gorm:"default:0" json:"passingScore"`
	Questions    []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID  uint         `gorm:"index;not null" json:"quizId"`
	Content string       `gorm:"type:text;not null" json:"content"`
	Order   int          `gorm:"default:0" json:"order"`
	Answers []QuizAnswer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// swagger:model QuizAnswer
type QuizAnswer struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Content    string `gorm:"type:text;not null" json:"content"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
