package event

import (
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	EventPersistCreateFunc = eventPersistCreate
)

// CreateEvent builds and persists an audit record inside the caller's
// transaction; the record is handed to registered handlers only after the
// transaction commits.
func CreateEvent(sourceType string, sourceId types.ID, sourceDesc string, category EventCategory,
	updatedProperties []UpdatedProperty, identity *session.Identity, timestamp types.Timestamp,
	db *gorm.DB) (*EventRecord, error) {

	record := EventRecord{
		Event: Event{
			SourceType: sourceType,
			SourceId:   sourceId,
			SourceDesc: sourceDesc,

			EventCategory:     category,
			UpdatedProperties: updatedProperties,

			CreatorId:   identity.ID,
			CreatorName: identity.Nickname,
		},
		Synced:    false,
		Timestamp: timestamp,
	}
	if err := EventPersistCreateFunc(&record, db); err != nil {
		return nil, err
	}
	return &record, nil
}

func eventPersistCreate(record *EventRecord, db *gorm.DB) error {
	return db.Create(record).Error
}

// QuerySourceEvents loads the audit trail of one source, newest first.
func QuerySourceEvents(sourceType string, sourceId types.ID, db *gorm.DB) ([]EventRecord, error) {
	var records []EventRecord
	if err := db.Where(&EventRecord{Event: Event{SourceType: sourceType, SourceId: sourceId}}).
		Order("timestamp DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
