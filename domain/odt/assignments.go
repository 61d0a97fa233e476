package odt

import (
	"odtflow/account"
	"odtflow/bizerror"
	"odtflow/domain"
	"odtflow/domain/flow"
	"odtflow/event"
	"odtflow/persistence"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var AssignStageFunc = AssignStage

// AssignStage seats a named user on one stage of a project, replacing any
// previous assignee in place. Reassignment is restricted to system admins
// and the leaders of the target stage's department.
func AssignStage(id types.ID, a *domain.StageAssigning, s *session.Session) (*domain.StageAssignment, error) {
	if !s.Perms.HasSystemRole() && !s.Perms.HasLeaderRole(a.Stage) {
		return nil, bizerror.ErrForbidden
	}

	now := types.CurrentTimestamp()
	var assignment domain.StageAssignment
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

		stages := flow.ResolveFlow(project.SelectedAreas)
		if flow.IndexOf(stages, a.Stage) < 0 {
			return bizerror.ErrInvalidStage
		}

		assignee := account.User{}
		if err := tx.Where(&account.User{ID: a.AssigneeID}).First(&assignee).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return bizerror.ErrNotFound
			}
			return err
		}
		assigneeName := assignee.DisplayName()

		previous := domain.StageAssignment{}
		perr := tx.Where(&domain.StageAssignment{ProjectID: id, Stage: a.Stage}).First(&previous).Error
		if perr != nil && perr != gorm.ErrRecordNotFound {
			return perr
		}

		if err := replaceAssignment(tx, id, a.Stage, assignee.ID, assigneeName, now); err != nil {
			return err
		}
		assignment = domain.StageAssignment{ProjectID: id, Stage: a.Stage,
			AssigneeID: assignee.ID, AssigneeName: assigneeName, AssignTime: now}

		note := "Stage " + a.Stage + " assigned to " + assigneeName
		if previous.AssigneeID > 0 {
			note = "Stage " + a.Stage + " reassigned from " + previous.AssigneeName + " to " + assigneeName
		}
		if err := createSystemComment(tx, id, note, &s.Identity, now); err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeProject, id, describeProject(&project),
			event.EventCategoryAssignmentChanged, []event.UpdatedProperty{{
				PropertyName: "assignment." + a.Stage, PropertyDesc: "assignment." + a.Stage,
				OldValue: previous.AssigneeName, OldValueDesc: previous.AssigneeName,
				NewValue: assigneeName, NewValueDesc: assigneeName,
			}}, &s.Identity, now, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if ev != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &assignment, nil
}
