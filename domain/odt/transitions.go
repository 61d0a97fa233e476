package odt

import (
	"strings"

	"odtflow/account"
	"odtflow/bizerror"
	"odtflow/domain"
	"odtflow/domain/flow"
	"odtflow/domain/stage"
	"odtflow/event"
	"odtflow/idgen"
	"odtflow/persistence"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	AdvanceProjectFunc    = AdvanceProject
	CancelProjectFunc     = CancelProject
	ReactivateProjectFunc = ReactivateProject
)

// AdvanceProject moves a project to the next stage of its resolved flow,
// closing the open tracking entry and opening the next one. A project in a
// production stage is held back until quality approval is granted. Reaching
// the end of the flow finishes the project.
func AdvanceProject(id types.ID, s *session.Session) (*domain.Project, error) {
	now := types.CurrentTimestamp()
	var updated domain.Project
	var ev *event.EventRecord

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		project := domain.Project{}
		if err := tx.Where(&domain.Project{ID: id}).First(&project).Error; err != nil {
			return err
		}
		if !canActOnStage(s, project.CurrentStage) {
			return bizerror.ErrForbidden
		}
		if !project.Status.IsActive() {
			return bizerror.ErrProjectStatusInvalid
		}
		if project.CurrentStageCategory == stage.Production && !project.QualityApproved {
			return bizerror.ErrQualityGateBlocked
		}

		stages := flow.ResolveFlow(project.SelectedAreas)
		if flow.IndexOf(stages, project.CurrentStage) < 0 {
			return bizerror.ErrInvalidStage
		}

		if err := closeOpenTrackingEntry(tx, &project, now); err != nil {
			return err
		}

		next, hasNext := flow.NextStage(stages, project.CurrentStage)
		if !hasNext {
			q := tx.Model(&domain.Project{}).
				Where("id = ? AND current_stage = ?", id, project.CurrentStage).
				Update(map[string]interface{}{
					"current_stage":          domain.FinishedStage,
					"current_stage_category": stage.None,
					"status":                 domain.StatusFinished,
					"delivered_time":         now,
				})
			if q.Error != nil {
				return q.Error
			}
			if q.RowsAffected != 1 {
				return bizerror.ErrProjectStatusInvalid
			}
			var err error
			ev, err = event.CreateEvent(event.SourceTypeProject, id, describeProject(&project),
				event.EventCategoryFinished, []event.UpdatedProperty{stageChange(project.CurrentStage, domain.FinishedStage)},
				&s.Identity, now, tx)
			if err != nil {
				return err
			}
		} else {
			q := tx.Model(&domain.Project{}).
				Where("id = ? AND current_stage = ?", id, project.CurrentStage).
				Update(map[string]interface{}{
					"current_stage":          next.Name,
					"current_stage_category": next.Category,
					"quality_approved":       false,
				})
			if q.Error != nil {
				return q.Error
			}
			if q.RowsAffected != 1 {
				return bizerror.ErrProjectStatusInvalid
			}
			if err := tx.Create(&domain.TrackingEntry{
				ID:            idgen.NextID(idWorker),
				ProjectID:     id,
				Stage:         next.Name,
				StageCategory: next.Category,
				BeginTime:     now,
			}).Error; err != nil {
				return err
			}
			if err := autoAssignLeader(tx, id, next.Name, now); err != nil {
				return err
			}
			var err error
			ev, err = event.CreateEvent(event.SourceTypeProject, id, describeProject(&project),
				event.EventCategoryStageAdvanced, []event.UpdatedProperty{stageChange(project.CurrentStage, next.Name)},
				&s.Identity, now, tx)
			if err != nil {
				return err
			}
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

// CancelProject terminates an active project with a mandatory reason and
// leaves a system comment on the record.
func CancelProject(id types.ID, c *domain.ProjectCancelling, s *session.Session) (*domain.Project, error) {
	if !canManageProjects(s) {
		return nil, bizerror.ErrForbidden
	}
	reason := strings.TrimSpace(c.Reason)
	if reason == "" {
		return nil, bizerror.ErrCancelReasonRequired
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

		if err := closeOpenTrackingEntry(tx, &project, now); err != nil {
			return err
		}

		q := tx.Model(&domain.Project{}).
			Where("id = ? AND status IN (?)", id,
				[]domain.ProjectStatus{domain.StatusNormal, domain.StatusUrgent, domain.StatusOverdue}).
			Update(map[string]interface{}{
				"status":        domain.StatusCancelled,
				"cancel_reason": reason,
			})
		if q.Error != nil {
			return q.Error
		}
		if q.RowsAffected != 1 {
			return bizerror.ErrProjectStatusInvalid
		}

		if err := createSystemComment(tx, id, "Order cancelled: "+reason, &s.Identity, now); err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeProject, id, describeProject(&project),
			event.EventCategoryCancelled, []event.UpdatedProperty{{
				PropertyName: "status", PropertyDesc: "status",
				OldValue: string(project.Status), OldValueDesc: string(project.Status),
				NewValue: string(domain.StatusCancelled), NewValueDesc: string(domain.StatusCancelled),
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

// ReactivateProject brings a terminal project back into its flow at the
// requested stage with a fresh target date. The stage must belong to the
// project's resolved flow.
func ReactivateProject(id types.ID, r *domain.ProjectReactivating, s *session.Session) (*domain.Project, error) {
	if !canManageProjects(s) {
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
		if !project.Status.IsTerminal() {
			return bizerror.ErrProjectStatusInvalid
		}

		stages := flow.ResolveFlow(project.SelectedAreas)
		target, found := flow.FindStage(stages, r.Stage)
		if !found {
			return bizerror.ErrInvalidStage
		}

		q := tx.Model(&domain.Project{}).
			Where("id = ? AND status IN (?)", id,
				[]domain.ProjectStatus{domain.StatusCancelled, domain.StatusFinished}).
			Update(map[string]interface{}{
				"status":                 domain.StatusNormal,
				"current_stage":          target.Name,
				"current_stage_category": target.Category,
				"cancel_reason":          "",
				"target_date":            r.TargetDate,
				"quality_approved":       false,
				"delivered_time":         types.Timestamp{},
			})
		if q.Error != nil {
			return q.Error
		}
		if q.RowsAffected != 1 {
			return bizerror.ErrProjectStatusInvalid
		}

		if err := tx.Create(&domain.TrackingEntry{
			ID:            idgen.NextID(idWorker),
			ProjectID:     id,
			Stage:         target.Name,
			StageCategory: target.Category,
			BeginTime:     now,
		}).Error; err != nil {
			return err
		}
		if err := autoAssignLeader(tx, id, target.Name, now); err != nil {
			return err
		}

		note := "Order reactivated at stage " + target.Name
		if strings.TrimSpace(r.Instructions) != "" {
			note += ": " + r.Instructions
		}
		if err := createSystemComment(tx, id, note, &s.Identity, now); err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeProject, id, describeProject(&project),
			event.EventCategoryReactivated, []event.UpdatedProperty{stageChange(project.CurrentStage, target.Name)},
			&s.Identity, now, tx)
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

// closeOpenTrackingEntry seals the newest tracking entry of the project when
// it is still open. Zero EndTime means open, so the entry is matched by id
// rather than by a NULL end_time predicate.
func closeOpenTrackingEntry(tx *gorm.DB, project *domain.Project, now types.Timestamp) error {
	last := domain.TrackingEntry{}
	err := tx.Where(&domain.TrackingEntry{ProjectID: project.ID}).
		Order("begin_time DESC, id DESC").First(&last).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if !last.EndTime.Time().IsZero() {
		return nil
	}
	return tx.Model(&domain.TrackingEntry{}).Where("id = ?", last.ID).
		Update("end_time", now).Error
}

// autoAssignLeader seats the department leader on the stage a project just
// entered, replacing any prior assignee. Stages without a configured leader
// keep whatever assignment they had.
func autoAssignLeader(tx *gorm.DB, projectID types.ID, stageName string, now types.Timestamp) error {
	leader, err := account.FindDepartmentLeaderFunc(stageName)
	if err != nil {
		return err
	}
	if leader == nil {
		return nil
	}
	return replaceAssignment(tx, projectID, stageName, leader.ID, leader.DisplayName(), now)
}

func replaceAssignment(tx *gorm.DB, projectID types.ID, stageName string,
	assigneeID types.ID, assigneeName string, now types.Timestamp) error {

	q := tx.Model(&domain.StageAssignment{}).
		Where("project_id = ? AND stage = ?", projectID, stageName).
		Update(map[string]interface{}{
			"assignee_id":   assigneeID,
			"assignee_name": assigneeName,
			"assign_time":   now,
		})
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected == 0 {
		return tx.Create(&domain.StageAssignment{
			ProjectID: projectID, Stage: stageName,
			AssigneeID: assigneeID, AssigneeName: assigneeName, AssignTime: now,
		}).Error
	}
	return nil
}

func createSystemComment(tx *gorm.DB, projectID types.ID, text string,
	identity *session.Identity, now types.Timestamp) error {

	return tx.Create(&domain.Comment{
		ID:         idgen.NextID(idWorker),
		ProjectID:  projectID,
		AuthorID:   identity.ID,
		AuthorName: identity.Nickname,
		AuthorRole: identity.Department,
		Text:       text,
		System:     true,
		CreateTime: now,
	}).Error
}

func stageChange(from, to string) event.UpdatedProperty {
	return event.UpdatedProperty{
		PropertyName: "currentStage", PropertyDesc: "currentStage",
		OldValue: from, OldValueDesc: from,
		NewValue: to, NewValueDesc: to,
	}
}
