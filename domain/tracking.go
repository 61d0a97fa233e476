package domain

import (
	"odtflow/domain/stage"

	"github.com/fundwit/go-commons/types"
)

// TrackingEntry records the residence interval of a project in one stage.
// A zero EndTime marks the single open entry of an active project.
type TrackingEntry struct {
	ID        types.ID `json:"id" gorm:"primary_key"`
	ProjectID types.ID `json:"projectId" gorm:"index:idx_tracking_project"`

	Stage         string         `json:"stage"`
	StageCategory stage.Category `json:"stageCategory"`

	BeginTime types.Timestamp `json:"beginTime" sql:"type:DATETIME(6) NOT NULL"`
	EndTime   types.Timestamp `json:"endTime" sql:"type:DATETIME(6)"`
}

type StageAssignment struct {
	ProjectID types.ID `json:"projectId" gorm:"primary_key;auto_increment:false"`
	Stage     string   `json:"stage" gorm:"primary_key" sql:"type:VARCHAR(64) NOT NULL"`

	AssigneeID   types.ID        `json:"assigneeId"`
	AssigneeName string          `json:"assigneeName"`
	AssignTime   types.Timestamp `json:"assignTime" sql:"type:DATETIME(6)"`
}

type Comment struct {
	ID        types.ID `json:"id" gorm:"primary_key"`
	ProjectID types.ID `json:"projectId" gorm:"index:idx_comment_project"`

	AuthorID   types.ID `json:"authorId"`
	AuthorName string   `json:"authorName"`
	AuthorRole string   `json:"authorRole"`

	Text   string `json:"text" sql:"type:TEXT"`
	System bool   `json:"system"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type Link struct {
	ID        types.ID `json:"id" gorm:"primary_key"`
	ProjectID types.ID `json:"projectId" gorm:"index:idx_link_project"`

	URL         string `json:"url" sql:"type:TEXT"`
	Description string `json:"description"`

	CreatorID   types.ID        `json:"creatorId"`
	CreatorName string          `json:"creatorName"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type CommentCreation struct {
	Text string `json:"text" binding:"required"`
}

type LinkCreation struct {
	URL         string `json:"url" binding:"required,url"`
	Description string `json:"description" binding:"omitempty,lte=256"`
}

type StageAssigning struct {
	Stage      string   `json:"stage" binding:"required"`
	AssigneeID types.ID `json:"assigneeId" binding:"required"`
}

type QualityReview struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes" binding:"omitempty,lte=1024"`
}

type ProjectCancelling struct {
	Reason string `json:"reason" binding:"required"`
}

type ProjectReactivating struct {
	Stage        string `json:"stage" binding:"required"`
	TargetDate   string `json:"targetDate" binding:"required"`
	Instructions string `json:"instructions" binding:"omitempty,lte=1024"`
}
