package indices

import (
	"fmt"

	"odtflow/account"
	"odtflow/authority"
	"odtflow/client/es"
	"odtflow/domain"
	"odtflow/domain/odt"
	"odtflow/event"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var (
	ProjectIndexName = "odt_projects"

	ProjectIndexEventHandlerName = "projectIndexer"

	indexRobot = &session.Session{
		Token:    "index-robot",
		Identity: session.Identity{ID: 10, Name: "index-robot"},
		Perms:    authority.Permissions{account.SystemAdminPermission.ID},
	}
)

type ProjectDocument struct {
	domain.Project
}

type BatchActionError map[types.ID]error

func (e BatchActionError) Error() string {
	return fmt.Sprintf("%v", map[types.ID]error(e))
}

func IndexProjects(projects []domain.Project) error {
	docs := make([]ProjectDocument, 0, len(projects))
	for _, project := range projects {
		docs = append(docs, ProjectDocument{Project: project})
	}
	return saveProjectDocuments(docs)
}

func saveProjectDocuments(docs []ProjectDocument) error {
	errs := BatchActionError{}

	for _, doc := range docs {
		if err := es.IndexFunc(ProjectIndexName, doc.ID, doc, indexRobot); err != nil {
			errs[doc.ID] = err
			logrus.Warnf("index project %d %s %s\n", doc.ID, doc.Identifier, err)
		} else {
			logrus.Infof("index project %d %s successfully\n", doc.ID, doc.Identifier)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IndexProjectEventHandle keeps the search index in step with the audit
// stream: every project event triggers a reindex of its source.
func IndexProjectEventHandle(e *event.EventRecord) *event.EventHandleResult {
	if e.SourceType != event.SourceTypeProject {
		return nil
	}

	if e.EventCategory == event.EventCategoryDeleted {
		if err := es.DeleteDocumentByIdFunc(ProjectIndexName, e.Event.SourceId, indexRobot); err != nil {
			return &event.EventHandleResult{
				Message:           fmt.Sprintf("delete project index %d, %v", e.Event.SourceId, err),
				HandlerIdentifier: ProjectIndexEventHandlerName,
			}
		}
		return &event.EventHandleResult{Success: true, HandlerIdentifier: ProjectIndexEventHandlerName}
	}

	detail, err := odt.DetailProjectFunc(e.Event.SourceId, indexRobot)
	if err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("detail project when index project %d, %v", e.Event.SourceId, err),
			HandlerIdentifier: ProjectIndexEventHandlerName,
		}
	}
	if err := IndexProjects([]domain.Project{detail.Project}); err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("index project %d, %v", e.Event.SourceId, err),
			HandlerIdentifier: ProjectIndexEventHandlerName,
		}
	}
	return &event.EventHandleResult{Success: true, HandlerIdentifier: ProjectIndexEventHandlerName}
}
