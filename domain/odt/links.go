package odt

import (
	"odtflow/domain"
	"odtflow/idgen"
	"odtflow/persistence"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	CreateLinkFunc = CreateLink
	QueryLinksFunc = QueryLinks
)

// CreateLink attaches a deliverable or reference URL to a project.
func CreateLink(id types.ID, c *domain.LinkCreation, s *session.Session) (*domain.Link, error) {
	now := types.CurrentTimestamp()
	link := domain.Link{
		ID:          idgen.NextID(idWorker),
		ProjectID:   id,
		URL:         c.URL,
		Description: c.Description,
		CreatorID:   s.Identity.ID,
		CreatorName: s.Identity.Nickname,
		CreateTime:  now,
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkProjectExists(tx, id); err != nil {
			return err
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func QueryLinks(id types.ID, s *session.Session) ([]domain.Link, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var links []domain.Link
	if err := db.Where(&domain.Link{ProjectID: id}).
		Order("create_time ASC, id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
