package event_test

import (
	"errors"
	"testing"
	"time"

	"odtflow/event"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	. "github.com/onsi/gomega"
)

func TestCreateEvent(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should return error when failed to persist event", func(t *testing.T) {
		persistCreate := event.EventPersistCreateFunc
		defer func() {
			event.EventPersistCreateFunc = persistCreate
		}()
		testErr := errors.New("test error")
		event.EventPersistCreateFunc = func(record *event.EventRecord, tx *gorm.DB) error {
			return testErr
		}

		ret, err := event.CreateEvent(event.SourceTypeProject, 1234, "ODT-1234", event.EventCategoryCreated,
			nil, &session.Identity{ID: 333, Nickname: "User 333"},
			types.TimestampOfDate(2026, 1, 1, 12, 12, 12, 0, time.Local), &gorm.DB{Value: 10000})
		Expect(ret).To(BeNil())
		Expect(err).To(Equal(testErr))
	})

	t.Run("should be able to create events", func(t *testing.T) {
		persistCreate := event.EventPersistCreateFunc
		defer func() {
			event.EventPersistCreateFunc = persistCreate
		}()
		var persisted event.EventRecord
		var db *gorm.DB
		event.EventPersistCreateFunc = func(record *event.EventRecord, tx *gorm.DB) error {
			persisted = *record
			db = tx
			return nil
		}

		tx := &gorm.DB{Value: 10000}
		timestamp := types.TimestampOfDate(2026, 1, 1, 12, 12, 12, 0, time.Local)
		ret, err := event.CreateEvent(event.SourceTypeProject, 1234, "ODT-1234", event.EventCategoryStageAdvanced,
			[]event.UpdatedProperty{{PropertyName: "currentStage", OldValue: "Accounts", NewValue: "Design"}},
			&session.Identity{ID: 333, Nickname: "User 333"}, timestamp, tx)
		Expect(err).To(BeNil())

		expected := event.EventRecord{
			Event: event.Event{
				SourceType: event.SourceTypeProject, SourceId: 1234, SourceDesc: "ODT-1234",
				EventCategory: event.EventCategoryStageAdvanced,
				UpdatedProperties: []event.UpdatedProperty{
					{PropertyName: "currentStage", OldValue: "Accounts", NewValue: "Design"}},
				CreatorId: 333, CreatorName: "User 333",
			},
			Timestamp: timestamp,
			Synced:    false,
		}
		Expect(*ret).To(Equal(expected))
		Expect(persisted).To(Equal(expected))
		Expect(db).To(Equal(tx))
	})
}

func TestInvokeHandlers(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should collect results and skip unsupported events", func(t *testing.T) {
		defer func() {
			event.EventHandlers = nil
		}()
		event.EventHandlers = []event.EventHandler{
			func(e *event.EventRecord) *event.EventHandleResult {
				return nil
			},
			func(e *event.EventRecord) *event.EventHandleResult {
				return &event.EventHandleResult{Success: true, HandlerIdentifier: "handlerA"}
			},
			func(e *event.EventRecord) *event.EventHandleResult {
				return &event.EventHandleResult{Success: false, Message: "boom", HandlerIdentifier: "handlerB"}
			},
		}

		results := event.InvokeHandlersFunc(&event.EventRecord{})
		Expect(results).To(Equal([]event.EventHandleResult{
			{Success: true, HandlerIdentifier: "handlerA"},
			{Success: false, Message: "boom", HandlerIdentifier: "handlerB"},
		}))
	})
}
