package repository

import (
	"context"

	"pathfinder_backend/internal/model"

	"gorm.io/gorm"
)

type SpecialtyRepository struct {
	DB *gorm.DB
}

func NewSpecialtyRepository(db *gorm.DB) *SpecialtyRepository {
	return &SpecialtyRepository{DB: db}
}

func (r *SpecialtyRepository) FindByID(ctx context.Context, id uint) (*model.Specialty, error) {
	var s model.Specialty
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err, "specialty")
	}
	return &s, nil
}

func (r *SpecialtyRepository) Upsert(ctx context.Context, s *model.Specialty) error {
	return r.DB.WithContext(ctx).
		Where(model.Specialty{Name: s.Name}).
		Assign(map[string]interface{}{"category": s.Category, "quiz_id": s.QuizID}).
		FirstOrCreate(s).Error
}
