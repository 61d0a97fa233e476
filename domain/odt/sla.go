package odt

import (
	"sort"
	"time"

	"odtflow/domain"
	"odtflow/domain/stage"
	"odtflow/persistence"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

type SLALevel string

const (
	SLALevelQuality SLALevel = "QUALITY"
	SLALevelGeneral SLALevel = "GENERAL"
)

// Residence thresholds in whole hours before a stage raises an alert.
// Quality control turns around faster than production work.
var (
	QualityThresholdHours = 24
	GeneralThresholdHours = 72
)

type SLAAlert struct {
	ProjectID  types.ID `json:"projectId"`
	Identifier string   `json:"identifier"`
	Brand      string   `json:"brand"`
	Product    string   `json:"product"`

	Stage          string         `json:"stage"`
	StageCategory  stage.Category `json:"stageCategory"`
	ResidenceHours int            `json:"residenceHours"`
	Level          SLALevel       `json:"level"`
}

var QuerySLAReportsFunc = QuerySLAReports

// EvaluateSLA judges a project's last tracking entry against the residence
// thresholds, counting whole elapsed hours since the entry began. The entry
// is measured whether or not it is closed; terminal projects never alert.
// It is pure; a nil result means the residence is within bounds.
func EvaluateSLA(project *domain.Project, last *domain.TrackingEntry, now time.Time) *SLAAlert {
	if last == nil || last.BeginTime.Time().IsZero() {
		return nil
	}
	if !project.Status.IsActive() {
		return nil
	}

	hours := int(now.Sub(last.BeginTime.Time()).Hours())
	alert := SLAAlert{
		ProjectID:  project.ID,
		Identifier: project.Identifier,
		Brand:      project.Brand,
		Product:    project.Product,

		Stage:          last.Stage,
		StageCategory:  last.StageCategory,
		ResidenceHours: hours,
	}

	if last.StageCategory == stage.Quality {
		if hours > QualityThresholdHours {
			alert.Level = SLALevelQuality
			return &alert
		}
		return nil
	}
	if hours > GeneralThresholdHours {
		alert.Level = SLALevelGeneral
		return &alert
	}
	return nil
}

// QuerySLAReports evaluates every active project's newest tracking entry
// and returns the breaches, longest residence first.
func QuerySLAReports(s *session.Session) ([]SLAAlert, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	var projects []domain.Project
	if err := db.Where("status IN (?)",
		[]domain.ProjectStatus{domain.StatusNormal, domain.StatusUrgent, domain.StatusOverdue}).
		Find(&projects).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	alerts := []SLAAlert{}
	for i := range projects {
		project := projects[i]
		var entries []domain.TrackingEntry
		if err := db.Where(&domain.TrackingEntry{ProjectID: project.ID}).
			Order("begin_time DESC, id DESC").Limit(1).Find(&entries).Error; err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			continue
		}
		if alert := EvaluateSLA(&project, &entries[0], now); alert != nil {
			alerts = append(alerts, *alert)
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].ResidenceHours > alerts[j].ResidenceHours
	})
	return alerts, nil
}

// ScanOverdueProjects is the hourly job behind the SLA board. Projects past
// their target date are flipped from Normal to Overdue; Urgent is never
// downgraded. Breaches are logged for the operations channel.
func ScanOverdueProjects() {
	db := persistence.ActiveDataSourceManager.GormDB(nil)

	today := time.Now().Format("2006-01-02")
	q := db.Model(&domain.Project{}).
		Where("status = ? AND target_date <> '' AND target_date < ?", domain.StatusNormal, today).
		Update("status", domain.StatusOverdue)
	if q.Error != nil {
		logrus.Warnf("overdue scan failed: %v\n", q.Error)
		return
	}
	if q.RowsAffected > 0 {
		logrus.Infof("overdue scan flagged %d projects\n", q.RowsAffected)
	}

	alerts, err := QuerySLAReportsFunc(&session.Session{Context: nil})
	if err != nil {
		logrus.Warnf("sla evaluation failed: %v\n", err)
		return
	}
	for _, alert := range alerts {
		logrus.WithFields(logrus.Fields{
			"project": alert.Identifier,
			"stage":   alert.Stage,
			"hours":   alert.ResidenceHours,
			"level":   alert.Level,
		}).Warn("sla breach")
	}
}
