package indices_test

import (
	"errors"
	"testing"
	"time"

	"odtflow/account"
	"odtflow/authority"
	"odtflow/bizerror"
	"odtflow/client/es"
	"odtflow/domain"
	"odtflow/domain/odt"
	"odtflow/event"
	"odtflow/indices"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestScheduleNewSyncRun(t *testing.T) {
	RegisterTestingT(t)

	t.Run("only system admin can schedule sync run", func(t *testing.T) {
		s := session.Session{Perms: authority.Permissions{"dept_Design"}}
		success, err := indices.ScheduleNewSyncRun(&s)
		Expect(err).To(Equal(bizerror.ErrForbidden))
		Expect(success).To(BeFalse())
	})

	t.Run("schedule sync run channel should work", func(t *testing.T) {
		defer func() {
			indices.IndicesFullSyncFunc = indices.IndicesFullSync
		}()
		indices.IndicesFullSyncFunc = func() error {
			time.Sleep(100 * time.Millisecond)
			return nil
		}

		s := session.Session{Perms: authority.Permissions{account.SystemAdminPermission.ID}}
		success, err := indices.ScheduleNewSyncRun(&s)
		Expect(err).To(BeNil())
		Expect(success).To(BeTrue())

		success, err = indices.ScheduleNewSyncRun(&s)
		Expect(err).To(BeNil())
		Expect(success).To(BeFalse())

		time.Sleep(200 * time.Millisecond)

		success, err = indices.ScheduleNewSyncRun(&s)
		Expect(err).To(BeNil())
		Expect(success).To(BeTrue())
		time.Sleep(200 * time.Millisecond)
	})
}

func TestIndicesFullSync(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should page through all projects", func(t *testing.T) {
		defer func() {
			odt.LoadProjectsFunc = odt.LoadProjects
			es.IndexFunc = es.Index
		}()

		pages := [][]domain.Project{
			{{ID: 1, Identifier: "ODT-1000"}, {ID: 2, Identifier: "ODT-1001"}},
			{{ID: 3, Identifier: "ODT-1002"}},
			{},
		}
		odt.LoadProjectsFunc = func(page, size int) ([]domain.Project, error) {
			Expect(size).To(Equal(indices.SyncBatchSize))
			return pages[page-1], nil
		}
		indexed := []types.ID{}
		es.IndexFunc = func(index string, id types.ID, doc interface{}, s *session.Session) error {
			Expect(index).To(Equal(indices.ProjectIndexName))
			indexed = append(indexed, id)
			return nil
		}

		Expect(indices.IndicesFullSync()).To(BeNil())
		Expect(indexed).To(Equal([]types.ID{1, 2, 3}))
	})
}

func TestIndexProjectEventHandle(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should only accept project events", func(t *testing.T) {
		Expect(indices.IndexProjectEventHandle(&event.EventRecord{Event: event.Event{SourceType: "NOT_ODT"}})).To(BeNil())
	})

	t.Run("should reindex the source project on events", func(t *testing.T) {
		defer func() {
			odt.DetailProjectFunc = odt.DetailProject
			es.IndexFunc = es.Index
		}()

		odt.DetailProjectFunc = func(id types.ID, s *session.Session) (*domain.ProjectDetail, error) {
			return &domain.ProjectDetail{Project: domain.Project{ID: id, Identifier: "ODT-1000"}}, nil
		}
		indexed := []types.ID{}
		es.IndexFunc = func(index string, id types.ID, doc interface{}, s *session.Session) error {
			indexed = append(indexed, id)
			return nil
		}

		result := indices.IndexProjectEventHandle(&event.EventRecord{Event: event.Event{
			SourceType: event.SourceTypeProject, SourceId: 123, EventCategory: event.EventCategoryStageAdvanced}})
		Expect(result.Success).To(BeTrue())
		Expect(result.HandlerIdentifier).To(Equal(indices.ProjectIndexEventHandlerName))
		Expect(indexed).To(Equal([]types.ID{123}))
	})

	t.Run("should report failures without panicking", func(t *testing.T) {
		defer func() {
			odt.DetailProjectFunc = odt.DetailProject
		}()

		odt.DetailProjectFunc = func(id types.ID, s *session.Session) (*domain.ProjectDetail, error) {
			return nil, errors.New("db is gone")
		}
		result := indices.IndexProjectEventHandle(&event.EventRecord{Event: event.Event{
			SourceType: event.SourceTypeProject, SourceId: 123, EventCategory: event.EventCategoryCreated}})
		Expect(result.Success).To(BeFalse())
		Expect(result.Message).To(ContainSubstring("db is gone"))
	})

	t.Run("should drop the document on delete events", func(t *testing.T) {
		defer func() {
			es.DeleteDocumentByIdFunc = es.DeleteDocumentById
		}()

		deleted := []types.ID{}
		es.DeleteDocumentByIdFunc = func(index string, id types.ID, s *session.Session) error {
			deleted = append(deleted, id)
			return nil
		}
		result := indices.IndexProjectEventHandle(&event.EventRecord{Event: event.Event{
			SourceType: event.SourceTypeProject, SourceId: 123, EventCategory: event.EventCategoryDeleted}})
		Expect(result.Success).To(BeTrue())
		Expect(deleted).To(Equal([]types.ID{123}))
	})
}
