package repository

import (
	"context"

	"pathfinder_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// FindWithQuestions loads a quiz with its ordered questions and answers.
func (r *QuizRepository) FindWithQuestions(ctx context.Context, id uint) (*model.Quiz, error) {
	var q model.Quiz
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(tx *gorm.DB) *gorm.DB { return tx.Order("`order` asc, id asc") }).
		Preload("Questions.Answers", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		First(&q, id).Error
	if err != nil {
		return nil, translate(err, "quiz")
	}
	return &q, nil
}

// Create stores a quiz together with its questions and answers.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuizRepository) FindByTitle(ctx context.Context, title string) (*model.Quiz, error) {
	var q model.Quiz
	if err := r.DB.WithContext(ctx).Where("title = ?", title).First(&q).Error; err != nil {
		return nil, translate(err, "quiz")
	}
	return &q, nil
}
