package odt

import (
	"odtflow/bizerror"
	"odtflow/domain"
	"odtflow/domain/flow"
	"odtflow/event"
	"odtflow/persistence"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var ReviewQualityFunc = ReviewQuality

// ReviewQuality records a quality verdict on an active project. Approval
// unlocks the quality gate for the current production stage; a rejection
// locks it again and keeps the reviewer notes.
func ReviewQuality(id types.ID, r *domain.QualityReview, s *session.Session) (*domain.Project, error) {
	if !s.Perms.HasSystemRole() && !s.Perms.HasDeptRole(flow.StageQualityControl.Name) {
		return nil, bizerror.ErrForbidden
	}

	now := types.CurrentTimestamp()
	var updated domain.Project
	var ev *event.EventRecord

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		project := domain.Project{}
		if err := tx.Where(&domain.Project{ID: id}).First(&project).Error; err != nil {
			return err
		}
		if !project.Status.IsActive() {
			return bizerror.ErrProjectStatusInvalid
		}

		q := tx.Model(&domain.Project{}).Where("id = ?", id).
			Update(map[string]interface{}{
				"quality_approved": r.Approved,
				"quality_notes":    r.Notes,
			})
		if q.Error != nil {
			return q.Error
		}
		if q.RowsAffected != 1 {
			return bizerror.ErrProjectStatusInvalid
		}

		verdict := "rejected"
		if r.Approved {
			verdict = "approved"
		}
		var err error
		ev, err = event.CreateEvent(event.SourceTypeProject, id, describeProject(&project),
			event.EventCategoryQualityReviewed, []event.UpdatedProperty{{
				PropertyName: "qualityApproved", PropertyDesc: "qualityApproved",
				OldValue: boolString(project.QualityApproved), OldValueDesc: boolString(project.QualityApproved),
				NewValue: boolString(r.Approved), NewValueDesc: verdict,
			}}, &s.Identity, now, tx)
		if err != nil {
			return err
		}

		return tx.Where(&domain.Project{ID: id}).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	if ev != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &updated, nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
