package repository

import (
	"context"

	"pathfinder_backend/internal/model"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

// CreateScored stores a scored attempt with its answers. FailedAttempts is
// computed inside the transaction from the member's previous failures.
func (r *QuizAttemptRepository) CreateScored(ctx context.Context, a *model.QuizAttempt) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var failed int64
		if err := tx.Model(&model.QuizAttempt{}).
			Where("member_id = ? AND quiz_id = ? AND status = ?", a.MemberID, a.QuizID, model.AttemptFailed).
			Count(&failed).Error; err != nil {
			return err
		}
		a.FailedAttempts = int(failed)
		if a.Status == model.AttemptFailed {
			a.FailedAttempts++
		}
		return tx.Create(a).Error
	})
}

func (r *QuizAttemptRepository) FindByID(ctx context.Context, id string) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	if err := r.DB.WithContext(ctx).Preload("Answers").First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err, "quiz attempt")
	}
	return &a, nil
}

// LatestApproved returns the member's most recent passing attempt, or
// util.ErrNotFound.
func (r *QuizAttemptRepository) LatestApproved(ctx context.Context, memberID, quizID uint) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Where("member_id = ? AND quiz_id = ? AND status = ?", memberID, quizID, model.AttemptApproved).
		Order("attempt_date desc").
		First(&a).Error
	if err != nil {
		return nil, translate(err, "quiz attempt")
	}
	return &a, nil
}

// ListByMember returns the member's attempts oldest first, limited to quizID
// unless it is zero.
func (r *QuizAttemptRepository) ListByMember(ctx context.Context, memberID, quizID uint) ([]model.QuizAttempt, error) {
	q := r.DB.WithContext(ctx).Where("member_id = ?", memberID)
	if quizID != 0 {
		q = q.Where("quiz_id = ?", quizID)
	}
	var list []model.QuizAttempt
	err := q.Order("attempt_date asc").Order("created_at asc").Find(&list).Error
	return list, err
}
