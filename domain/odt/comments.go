package odt

import (
	"odtflow/bizerror"
	"odtflow/domain"
	"odtflow/idgen"
	"odtflow/persistence"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	CreateCommentFunc = CreateComment
	QueryCommentsFunc = QueryComments
)

// CreateComment appends a user comment to a project. Any authenticated user
// may comment, also on terminal projects.
func CreateComment(id types.ID, c *domain.CommentCreation, s *session.Session) (*domain.Comment, error) {
	now := types.CurrentTimestamp()
	comment := domain.Comment{
		ID:         idgen.NextID(idWorker),
		ProjectID:  id,
		AuthorID:   s.Identity.ID,
		AuthorName: s.Identity.Nickname,
		AuthorRole: s.Identity.Department,
		Text:       c.Text,
		CreateTime: now,
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkProjectExists(tx, id); err != nil {
			return err
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func QueryComments(id types.ID, s *session.Session) ([]domain.Comment, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var comments []domain.Comment
	if err := db.Where(&domain.Comment{ProjectID: id}).
		Order("create_time ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func checkProjectExists(tx *gorm.DB, id types.ID) error {
	var count int
	if err := tx.Model(&domain.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return bizerror.ErrNotFound
	}
	return nil
}
