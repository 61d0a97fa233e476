package search

import (
	"encoding/json"
	"testing"

	"odtflow/client/es"
	"odtflow/domain"
	"odtflow/indices"
	"odtflow/session"

	. "github.com/onsi/gomega"
)

func TestSearchProjects(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should build filters from the query and decode hits", func(t *testing.T) {
		defer func() {
			es.SearchFunc = es.Search
		}()

		var capturedIndex string
		var capturedQuery interface{}
		es.SearchFunc = func(index string, query interface{}, s *session.Session) (*es.ESSearchResult, error) {
			capturedIndex = index
			capturedQuery = query

			doc, err := json.Marshal(indices.ProjectDocument{Project: domain.Project{
				ID: 123, Identifier: "ODT-1000", Brand: "Sparkle", Status: domain.StatusNormal}})
			Expect(err).To(BeNil())
			return &es.ESSearchResult{Hits: es.ESSearchHits{
				Total: es.ESSearchHitsTotal{Value: 1},
				Hits:  []es.ESSearchHit{{Id: "123", Source: es.Source(doc)}},
			}}, nil
		}

		projects, err := SearchProjects(&domain.ProjectQuery{Keyword: "Sparkle"}, &session.Session{})
		Expect(err).To(BeNil())
		Expect(len(projects)).To(Equal(1))
		Expect(projects[0].Identifier).To(Equal("ODT-1000"))
		Expect(capturedIndex).To(Equal(indices.ProjectIndexName))

		body, err := json.Marshal(capturedQuery)
		Expect(err).To(BeNil())
		Expect(string(body)).To(ContainSubstring(`"multi_match"`))
		Expect(string(body)).To(ContainSubstring(`"Sparkle"`))
		Expect(string(body)).To(ContainSubstring(`"Normal"`))
	})

	t.Run("should filter terminal statuses for history queries", func(t *testing.T) {
		defer func() {
			es.SearchFunc = es.Search
		}()

		var capturedQuery interface{}
		es.SearchFunc = func(index string, query interface{}, s *session.Session) (*es.ESSearchResult, error) {
			capturedQuery = query
			return &es.ESSearchResult{}, nil
		}

		projects, err := SearchProjects(&domain.ProjectQuery{History: true}, &session.Session{})
		Expect(err).To(BeNil())
		Expect(len(projects)).To(BeZero())

		body, err := json.Marshal(capturedQuery)
		Expect(err).To(BeNil())
		Expect(string(body)).To(ContainSubstring(`"Cancelled"`))
		Expect(string(body)).To(ContainSubstring(`"Finished"`))
	})
}
