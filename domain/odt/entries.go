package odt

import (
	"odtflow/domain"
	"odtflow/persistence"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var QueryTrackingEntriesFunc = QueryTrackingEntries

// QueryTrackingEntries returns the stage residence history of a project,
// oldest first. The last entry is open while the project is active.
func QueryTrackingEntries(id types.ID, s *session.Session) ([]domain.TrackingEntry, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var entries []domain.TrackingEntry
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkProjectExists(tx, id); err != nil {
			return err
		}
		return tx.Where(&domain.TrackingEntry{ProjectID: id}).
			Order("begin_time ASC, id ASC").Find(&entries).Error
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
