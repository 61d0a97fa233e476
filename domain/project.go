package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"odtflow/domain/stage"

	"github.com/fundwit/go-commons/types"
)

type ProjectStatus string

const (
	StatusNormal    ProjectStatus = "Normal"
	StatusUrgent    ProjectStatus = "Urgent"
	StatusOverdue   ProjectStatus = "Overdue"
	StatusCancelled ProjectStatus = "Cancelled"
	StatusFinished  ProjectStatus = "Finished"
)

// FinishedStage is the sentinel stage a project carries once its flow is
// exhausted; it is never part of a resolved flow.
const FinishedStage = "Finished"

func (s ProjectStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusFinished
}

func (s ProjectStatus) IsActive() bool {
	return s == StatusNormal || s == StatusUrgent || s == StatusOverdue
}

// Areas is the ordered list of production departments chosen at creation,
// stored as a JSON column.
type Areas []string

func (t Areas) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (t *Areas) Scan(v interface{}) error {
	jsonString, ok := v.(string)
	if !ok {
		jsonByte, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", v, v)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), t)
}

type Project struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Identifier string `json:"identifier" gorm:"unique_index:identifier_unique"`

	Company          string `json:"company"`
	Brand            string `json:"brand"`
	Product          string `json:"product"`
	MaterialType     string `json:"materialType"`
	MaterialSubtype  string `json:"materialSubtype"`
	Brief            string `json:"brief" sql:"type:TEXT"`

	CurrentStage         string         `json:"currentStage"`
	CurrentStageCategory stage.Category `json:"currentStageCategory"`
	Status               ProjectStatus  `json:"status"`
	CancelReason         string         `json:"cancelReason"`

	BeginDate     string          `json:"beginDate"`
	TargetDate    string          `json:"targetDate"`
	DeliveredTime types.Timestamp `json:"deliveredTime" sql:"type:DATETIME(6)"`

	EstimatedCost   float64 `json:"estimatedCost" sql:"type:DECIMAL(12,2)"`
	Billable        bool    `json:"billable"`
	NoBillingReason string  `json:"noBillingReason"`
	Paid            bool    `json:"paid"`

	QualityApproved bool   `json:"qualityApproved"`
	QualityNotes    string `json:"qualityNotes"`

	SelectedAreas Areas `json:"selectedAreas" sql:"type:TEXT"`

	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	CreatorID   types.ID        `json:"creatorId"`
	CreatorName string          `json:"creatorName"`
}

type ProjectCreation struct {
	Identifier string `json:"identifier" binding:"omitempty,lte=32"`

	Company         string `json:"company" binding:"required,lte=128"`
	Brand           string `json:"brand" binding:"required,lte=128"`
	Product         string `json:"product" binding:"required,lte=128"`
	MaterialType    string `json:"materialType" binding:"required,lte=64"`
	MaterialSubtype string `json:"materialSubtype" binding:"omitempty,lte=64"`
	Brief           string `json:"brief" binding:"required"`

	TargetDate    string  `json:"targetDate" binding:"required"`
	EstimatedCost float64 `json:"estimatedCost" binding:"omitempty,gte=0"`
	Billable      bool    `json:"billable"`

	SelectedAreas []string `json:"selectedAreas" binding:"required,min=1"`
}

type ProjectUpdating struct {
	Company         string `json:"company" binding:"omitempty,lte=128"`
	Brand           string `json:"brand" binding:"omitempty,lte=128"`
	Product         string `json:"product" binding:"omitempty,lte=128"`
	MaterialType    string `json:"materialType" binding:"omitempty,lte=64"`
	MaterialSubtype string `json:"materialSubtype" binding:"omitempty,lte=64"`
	Brief           string `json:"brief"`

	TargetDate      string  `json:"targetDate"`
	EstimatedCost   float64 `json:"estimatedCost" binding:"omitempty,gte=0"`
	Billable        *bool   `json:"billable"`
	NoBillingReason string  `json:"noBillingReason"`
	Paid            *bool   `json:"paid"`

	Status ProjectStatus `json:"status" binding:"omitempty,oneof=Normal Urgent Overdue"`
}

type ProjectQuery struct {
	Keyword  string        `json:"keyword" form:"keyword"`
	Status   ProjectStatus `json:"status" form:"status"`
	History  bool          `json:"history" form:"history"`
	MyTasks  bool          `json:"myTasks" form:"myTasks"`
	Pendings bool          `json:"pendings" form:"pendings"`
}

type ProjectDetail struct {
	Project

	Flow        []stage.Stage     `json:"flow"`
	Tracking    []TrackingEntry   `json:"tracking"`
	Assignments []StageAssignment `json:"assignments"`
	Comments    []Comment         `json:"comments"`
	Links       []Link            `json:"links"`
}
