package odt

import (
	"errors"
	"fmt"

	"odtflow/bizerror"
	"odtflow/domain"
	"odtflow/domain/flow"
	"odtflow/event"
	"odtflow/idgen"
	"odtflow/persistence"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateProjectFunc = CreateProject
	DetailProjectFunc = DetailProject
	QueryProjectsFunc = QueryProjects
	UpdateProjectFunc = UpdateProject
	LoadProjectsFunc  = LoadProjects
)

const identifierSequence = "odt"

// CreateProject registers a new order, resolves its stage flow from the
// selected areas, opens the first tracking entry and seeds one assignment
// slot per production area.
func CreateProject(c *domain.ProjectCreation, s *session.Session) (*domain.ProjectDetail, error) {
	if !canManageProjects(s) {
		return nil, bizerror.ErrForbidden
	}
	if err := flow.ValidateAreas(c.SelectedAreas); err != nil {
		return nil, err
	}

	now := types.CurrentTimestamp()
	initStage := flow.StageAccounts

	project := domain.Project{
		ID: idgen.NextID(idWorker),

		Company:         c.Company,
		Brand:           c.Brand,
		Product:         c.Product,
		MaterialType:    c.MaterialType,
		MaterialSubtype: c.MaterialSubtype,
		Brief:           c.Brief,

		CurrentStage:         initStage.Name,
		CurrentStageCategory: initStage.Category,
		Status:               domain.StatusNormal,

		BeginDate:  now.Time().Format("2006-01-02"),
		TargetDate: c.TargetDate,

		EstimatedCost: c.EstimatedCost,
		Billable:      c.Billable,

		SelectedAreas: append(domain.Areas{}, c.SelectedAreas...),

		CreateTime:  now,
		CreatorID:   s.Identity.ID,
		CreatorName: s.Identity.Nickname,
	}

	var ev *event.EventRecord
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if c.Identifier != "" {
			if err := checkIdentifierFree(tx, c.Identifier); err != nil {
				return err
			}
			project.Identifier = c.Identifier
		} else {
			identifier, err := nextProjectIdentifier(tx)
			if err != nil {
				return err
			}
			project.Identifier = identifier
		}

		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		if err := tx.Create(&domain.TrackingEntry{
			ID:            idgen.NextID(idWorker),
			ProjectID:     project.ID,
			Stage:         initStage.Name,
			StageCategory: initStage.Category,
			BeginTime:     now,
		}).Error; err != nil {
			return err
		}
		for _, area := range project.SelectedAreas {
			if err := tx.Create(&domain.StageAssignment{ProjectID: project.ID, Stage: area}).Error; err != nil {
				return err
			}
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeProject, project.ID, describeProject(&project),
			event.EventCategoryCreated, nil, &s.Identity, now, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if ev != nil {
		event.InvokeHandlersFunc(ev)
	}

	return &domain.ProjectDetail{
		Project:     project,
		Flow:        flow.ResolveFlow(project.SelectedAreas),
		Tracking:    []domain.TrackingEntry{{ProjectID: project.ID, Stage: initStage.Name, StageCategory: initStage.Category, BeginTime: now}},
		Assignments: emptyAssignments(&project),
		Comments:    []domain.Comment{},
		Links:       []domain.Link{},
	}, nil
}

func emptyAssignments(p *domain.Project) []domain.StageAssignment {
	assignments := make([]domain.StageAssignment, 0, len(p.SelectedAreas))
	for _, area := range p.SelectedAreas {
		assignments = append(assignments, domain.StageAssignment{ProjectID: p.ID, Stage: area})
	}
	return assignments
}

func checkIdentifierFree(tx *gorm.DB, identifier string) error {
	var count int
	if err := tx.Model(&domain.Project{}).Where(&domain.Project{Identifier: identifier}).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return bizerror.ErrIdentifierExisted
	}
	return nil
}

func nextProjectIdentifier(tx *gorm.DB) (string, error) {
	seq := domain.Sequence{Name: identifierSequence, NextValue: 1000}
	if err := tx.Where(&domain.Sequence{Name: identifierSequence}).FirstOrCreate(&seq).Error; err != nil {
		return "", err
	}
	q := tx.Model(&domain.Sequence{}).
		Where("name = ? AND next_value = ?", identifierSequence, seq.NextValue).
		Update("next_value", seq.NextValue+1)
	if q.Error != nil {
		return "", q.Error
	}
	if q.RowsAffected != 1 {
		return "", errors.New("identifier sequence was concurrently consumed")
	}
	return fmt.Sprintf("ODT-%d", seq.NextValue), nil
}

func describeProject(p *domain.Project) string {
	return p.Identifier + " " + p.Brand + " " + p.Product
}

// DetailProject assembles a project with its flow, tracking history,
// assignments, comments and links. Visible to every authenticated user.
func DetailProject(id types.ID, s *session.Session) (*domain.ProjectDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	detail := domain.ProjectDetail{}
	if err := db.Where(&domain.Project{ID: id}).First(&detail.Project).Error; err != nil {
		return nil, err
	}
	detail.Flow = flow.ResolveFlow(detail.SelectedAreas)

	if err := db.Where(&domain.TrackingEntry{ProjectID: id}).
		Order("begin_time ASC, id ASC").Find(&detail.Tracking).Error; err != nil {
		return nil, err
	}
	if err := db.Where(&domain.StageAssignment{ProjectID: id}).
		Order("stage ASC").Find(&detail.Assignments).Error; err != nil {
		return nil, err
	}
	if err := db.Where(&domain.Comment{ProjectID: id}).
		Order("create_time ASC, id ASC").Find(&detail.Comments).Error; err != nil {
		return nil, err
	}
	if err := db.Where(&domain.Link{ProjectID: id}).
		Order("create_time ASC, id ASC").Find(&detail.Links).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// QueryProjects lists active projects by default; History switches to the
// terminal set, MyTasks narrows to projects waiting on the caller, and
// Pendings surfaces unassigned work of the caller's department.
func QueryProjects(q *domain.ProjectQuery, s *session.Session) ([]domain.Project, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	query := db.Model(&domain.Project{})
	if q.History {
		query = query.Where("status IN (?)", []domain.ProjectStatus{domain.StatusCancelled, domain.StatusFinished})
	} else {
		query = query.Where("status IN (?)", []domain.ProjectStatus{domain.StatusNormal, domain.StatusUrgent, domain.StatusOverdue})
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Keyword != "" {
		keyword := "%" + q.Keyword + "%"
		query = query.Where("identifier LIKE ? OR company LIKE ? OR brand LIKE ? OR product LIKE ?",
			keyword, keyword, keyword, keyword)
	}
	if q.MyTasks {
		query = query.Joins("JOIN stage_assignments ON stage_assignments.project_id = projects.id"+
			" AND stage_assignments.stage = projects.current_stage").
			Where("stage_assignments.assignee_id = ?", s.Identity.ID)
	}
	if q.Pendings {
		query = query.Where("projects.current_stage = ?", s.Identity.Department).
			Where("NOT EXISTS (SELECT 1 FROM stage_assignments WHERE stage_assignments.project_id = projects.id"+
				" AND stage_assignments.stage = projects.current_stage AND stage_assignments.assignee_id > 0)")
	}

	var projects []domain.Project
	if err := query.Order("create_time DESC, id DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// LoadProjects pages through all projects regardless of status, for index
// synchronization and reporting.
func LoadProjects(page, size int) ([]domain.Project, error) {
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	var projects []domain.Project
	if err := db.Order("id ASC").Offset((page - 1) * size).Limit(size).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateProject patches descriptive and billing properties. Stage movement
// is out of its reach, that always goes through AdvanceProject.
func UpdateProject(id types.ID, u *domain.ProjectUpdating, s *session.Session) (*domain.Project, error) {
	if !canManageProjects(s) {
		return nil, bizerror.ErrForbidden
	}

	changes := map[string]interface{}{}
	if u.Company != "" {
		changes["company"] = u.Company
	}
	if u.Brand != "" {
		changes["brand"] = u.Brand
	}
	if u.Product != "" {
		changes["product"] = u.Product
	}
	if u.MaterialType != "" {
		changes["material_type"] = u.MaterialType
	}
	if u.MaterialSubtype != "" {
		changes["material_subtype"] = u.MaterialSubtype
	}
	if u.Brief != "" {
		changes["brief"] = u.Brief
	}
	if u.TargetDate != "" {
		changes["target_date"] = u.TargetDate
	}
	if u.EstimatedCost > 0 {
		changes["estimated_cost"] = u.EstimatedCost
	}
	if u.Billable != nil {
		changes["billable"] = *u.Billable
	}
	if u.NoBillingReason != "" {
		changes["no_billing_reason"] = u.NoBillingReason
	}
	if u.Paid != nil {
		changes["paid"] = *u.Paid
	}
	if u.Status != "" {
		changes["status"] = u.Status
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
		if u.Status != "" && !u.Status.IsActive() {
			return bizerror.ErrProjectStatusInvalid
		}

		if len(changes) > 0 {
			q := tx.Model(&domain.Project{}).Where(&domain.Project{ID: id}).Update(changes)
			if q.Error != nil {
				return q.Error
			}
			if q.RowsAffected != 1 {
				return bizerror.ErrProjectStatusInvalid
			}
		}
		if err := tx.Where(&domain.Project{ID: id}).First(&updated).Error; err != nil {
			return err
		}

		props := updatedProperties(&project, &updated)
		if len(props) == 0 {
			return nil
		}
		var err error
		ev, err = event.CreateEvent(event.SourceTypeProject, id, describeProject(&updated),
			event.EventCategoryPropertyUpdated, props, &s.Identity, now, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if ev != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &updated, nil
}

func updatedProperties(before, after *domain.Project) []event.UpdatedProperty {
	var props []event.UpdatedProperty
	appendChange := func(name, oldValue, newValue string) {
		if oldValue != newValue {
			props = append(props, event.UpdatedProperty{
				PropertyName: name, PropertyDesc: name,
				OldValue: oldValue, OldValueDesc: oldValue,
				NewValue: newValue, NewValueDesc: newValue,
			})
		}
	}
	appendChange("company", before.Company, after.Company)
	appendChange("brand", before.Brand, after.Brand)
	appendChange("product", before.Product, after.Product)
	appendChange("materialType", before.MaterialType, after.MaterialType)
	appendChange("materialSubtype", before.MaterialSubtype, after.MaterialSubtype)
	appendChange("brief", before.Brief, after.Brief)
	appendChange("targetDate", before.TargetDate, after.TargetDate)
	appendChange("estimatedCost", fmt.Sprintf("%.2f", before.EstimatedCost), fmt.Sprintf("%.2f", after.EstimatedCost))
	appendChange("billable", fmt.Sprintf("%t", before.Billable), fmt.Sprintf("%t", after.Billable))
	appendChange("noBillingReason", before.NoBillingReason, after.NoBillingReason)
	appendChange("paid", fmt.Sprintf("%t", before.Paid), fmt.Sprintf("%t", after.Paid))
	appendChange("status", string(before.Status), string(after.Status))
	return props
}

// canManageProjects limits order administration to system admins and the
// intake department.
func canManageProjects(s *session.Session) bool {
	return s.Perms.HasSystemRole() || s.Perms.HasDeptRole(flow.StageAccounts.Name)
}

// canActOnStage reports whether the caller may drive a project residing in
// the named stage.
func canActOnStage(s *session.Session, stageName string) bool {
	if s.Perms.HasSystemRole() {
		return true
	}
	return s.Perms.HasDeptRole(stageName)
}
