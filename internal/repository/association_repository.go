package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pathfinder_backend/internal/model"
	"pathfinder_backend/internal/util"

	"gorm.io/gorm"
)

type AssociationRepository struct {
	DB *gorm.DB
}

func NewAssociationRepository(db *gorm.DB) *AssociationRepository {
	return &AssociationRepository{DB: db}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Reports", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		Preload("ApprovalComments", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("kind = ?", model.CommentApproval).Order("id asc")
		}).
		Preload("RejectionComments", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("kind = ?", model.CommentRejection).Order("id asc")
		})
}

func activeKey(memberID, specialtyID uint) *string {
	key := fmt.Sprintf("%d:%d", memberID, specialtyID)
	return &key
}

// CreateUnique inserts the association unless a live one already exists for
// the same member and specialty. The count catches the common case; the
// unique index on active_key catches two creates racing past it.
func (r *AssociationRepository) CreateUnique(ctx context.Context, a *model.SpecialtyAssociation) error {
	a.ActiveKey = activeKey(a.MemberID, a.SpecialtyID)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.SpecialtyAssociation{}).
			Where("member_id = ? AND specialty_id = ?", a.MemberID, a.SpecialtyID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return util.ErrDuplicate
		}
		return tx.Omit("Reports", "ApprovalComments", "RejectionComments").Create(a).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: member %d already claims specialty %d", util.ErrDuplicate, a.MemberID, a.SpecialtyID)
	}
	return err
}

func (r *AssociationRepository) FindByID(ctx context.Context, id string) (*model.SpecialtyAssociation, error) {
	var a model.SpecialtyAssociation
	err := withChildren(r.DB.WithContext(ctx)).First(&a, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "association "+id)
	}
	return &a, nil
}

func (r *AssociationRepository) FindByMemberAndSpecialty(ctx context.Context, memberID, specialtyID uint) (*model.SpecialtyAssociation, error) {
	var a model.SpecialtyAssociation
	err := withChildren(r.DB.WithContext(ctx)).
		Where("member_id = ? AND specialty_id = ?", memberID, specialtyID).
		First(&a).Error
	if err != nil {
		return nil, translate(err, "association")
	}
	return &a, nil
}

func (r *AssociationRepository) ListByMember(ctx context.Context, memberID uint) ([]model.SpecialtyAssociation, error) {
	var list []model.SpecialtyAssociation
	err := withChildren(r.DB.WithContext(ctx)).
		Where("member_id = ?", memberID).
		Order("created_at asc").
		Find(&list).Error
	return list, err
}

// ListByMemberAndQuiz returns the member's active associations whose
// specialty is gated by quizID.
func (r *AssociationRepository) ListByMemberAndQuiz(ctx context.Context, memberID, quizID uint) ([]model.SpecialtyAssociation, error) {
	var list []model.SpecialtyAssociation
	err := withChildren(r.DB.WithContext(ctx)).
		Joins("JOIN specialties s ON s.id = specialty_associations.specialty_id AND s.deleted_at IS NULL").
		Where("specialty_associations.member_id = ? AND s.quiz_id = ?", memberID, quizID).
		Find(&list).Error
	return list, err
}

// Transition is the set of changes one workflow step makes.
type Transition struct {
	Reports  []model.ReportEntry
	Comments []model.DecisionComment
}

// SaveTransition writes the association's workflow columns if its version is
// still expectedVersion, and appends the new child rows in the same
// transaction. ErrVersionConflict is returned when the row moved.
func (r *AssociationRepository) SaveTransition(ctx context.Context, a *model.SpecialtyAssociation, expectedVersion int, t Transition) error {
	now := time.Now()
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.SpecialtyAssociation{}).
			Where("id = ? AND version = ?", a.ID, expectedVersion).
			Updates(map[string]interface{}{
				"approval_status":       a.ApprovalStatus,
				"is_quiz_approved":      a.IsQuizApproved,
				"counselor_approval":    a.CounselorApproval,
				"counselor_approval_at": a.CounselorApprovalAt,
				"lead_approval":         a.LeadApproval,
				"lead_approval_at":      a.LeadApprovalAt,
				"director_approval":     a.DirectorApproval,
				"director_approval_at":  a.DirectorApprovalAt,
				"version":               expectedVersion + 1,
				"updated_at":            now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}

		for i := range t.Reports {
			t.Reports[i].AssociationID = a.ID
			if err := tx.Create(&t.Reports[i]).Error; err != nil {
				return err
			}
		}
		for i := range t.Comments {
			t.Comments[i].AssociationID = a.ID
			if err := tx.Create(&t.Comments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.Version = expectedVersion + 1
	a.UpdatedAt = now
	return nil
}

// Delete soft-deletes the claim and releases its active key.
func (r *AssociationRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Model(&model.SpecialtyAssociation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active_key": nil,
			"deleted_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "association "+id)
	}
	return nil
}
