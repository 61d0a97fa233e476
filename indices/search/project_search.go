package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"odtflow/client/es"
	"odtflow/domain"
	"odtflow/indices"
	"odtflow/session"
)

var (
	SearchProjectsFunc = SearchProjects
)

// SearchProjects runs the project query against the search index instead of
// the database, matching keywords across the naming fields.
func SearchProjects(q *domain.ProjectQuery, s *session.Session) ([]domain.Project, error) {
	filters := make([]es.H, 0, 4)

	if q.History {
		filters = append(filters, es.H{"terms": es.H{"status": []domain.ProjectStatus{
			domain.StatusCancelled, domain.StatusFinished}}})
	} else {
		filters = append(filters, es.H{"terms": es.H{"status": []domain.ProjectStatus{
			domain.StatusNormal, domain.StatusUrgent, domain.StatusOverdue}}})
	}
	if q.Status != "" {
		filters = append(filters, es.H{"term": es.H{"status": q.Status}})
	}
	if q.Keyword != "" {
		filters = append(filters, es.H{"multi_match": es.H{
			"query":    q.Keyword,
			"fields":   []string{"identifier", "company", "brand", "product"},
			"operator": "AND",
		}})
	}

	sorts := []es.H{{"createTime": es.H{"order": "desc"}}}

	root := es.H{"bool": es.H{"filter": filters}}
	r, err := es.SearchFunc(indices.ProjectIndexName, es.H{"size": 10000, "query": root, "sort": sorts}, s)
	if err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		doc := indices.ProjectDocument{}
		if err := json.NewDecoder(strings.NewReader(string(hit.Source))).Decode(&doc); err != nil {
			return nil, fmt.Errorf(string(hit.Source))
		}
		projects = append(projects, doc.Project)
	}
	return projects, nil
}
