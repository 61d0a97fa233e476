package odt

import (
	"odtflow/event"
	"odtflow/persistence"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
)

var QueryProjectEventsFunc = QueryProjectEvents

// QueryProjectEvents returns the audit trail of one project, newest first.
func QueryProjectEvents(id types.ID, s *session.Session) ([]event.EventRecord, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	return event.QuerySourceEvents(event.SourceTypeProject, id, db)
}
