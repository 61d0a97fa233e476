package servehttp_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"odtflow/bizerror"
	"odtflow/domain"
	"odtflow/domain/odt"
	"odtflow/servehttp"
	"odtflow/session"
	"odtflow/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ProjectsRestAPI", func() {
	var router *gin.Engine

	BeforeEach(func() {
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		servehttp.RegisterProjectsRestAPI(router, func(c *gin.Context) {
			session.InjectSessionIntoGinContext(c, testinfra.BuildSession(10, "dept_Accounts"))
		})
	})

	Describe("handleCreateProject", func() {
		It("should create project and return 201", func() {
			var received *domain.ProjectCreation
			odt.CreateProjectFunc = func(c *domain.ProjectCreation, s *session.Session) (*domain.ProjectDetail, error) {
				received = c
				return &domain.ProjectDetail{Project: domain.Project{ID: 123, Identifier: "ODT-1000",
					Company: c.Company, Brand: c.Brand, CurrentStage: "Accounts", Status: domain.StatusNormal}}, nil
			}

			body := `{"company":"ACME","brand":"Sparkle","product":"Soda","materialType":"Video",` +
				`"brief":"b","targetDate":"2026-12-31","selectedAreas":["Design"]}`
			req := httptest.NewRequest(http.MethodPost, "/v1/projects", bytes.NewBufferString(body))
			status, respBody, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusCreated))
			Expect(respBody).To(ContainSubstring(`"identifier":"ODT-1000"`))
			Expect(received.Brand).To(Equal("Sparkle"))
			Expect(received.SelectedAreas).To(Equal([]string{"Design"}))
		})

		It("should return 400 when body is invalid", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/projects", bytes.NewBufferString(`{"company":"ACME"}`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`"code":"common.bad_param"`))
		})

		It("should map invalid areas to 400", func() {
			odt.CreateProjectFunc = func(c *domain.ProjectCreation, s *session.Session) (*domain.ProjectDetail, error) {
				return nil, bizerror.ErrAreasInvalid
			}
			body := `{"company":"ACME","brand":"Sparkle","product":"Soda","materialType":"Video",` +
				`"brief":"b","targetDate":"2026-12-31","selectedAreas":["Quality Control"]}`
			req := httptest.NewRequest(http.MethodPost, "/v1/projects", bytes.NewBufferString(body))
			status, respBody, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(respBody).To(MatchJSON(`{"code":"odt.areas_invalid","message":"selected areas are invalid","data":null}`))
		})
	})

	Describe("handleQueryProjects", func() {
		It("should pass filters through and return the list", func() {
			var received *domain.ProjectQuery
			odt.QueryProjectsFunc = func(q *domain.ProjectQuery, s *session.Session) ([]domain.Project, error) {
				received = q
				return []domain.Project{{ID: 123, Identifier: "ODT-1000", Status: domain.StatusNormal}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/v1/projects?keyword=Sparkle&myTasks=true", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"identifier":"ODT-1000"`))
			Expect(received.Keyword).To(Equal("Sparkle"))
			Expect(received.MyTasks).To(BeTrue())
		})
	})

	Describe("handleDetailProject", func() {
		It("should return 400 for a malformed id", func() {
			req := httptest.NewRequest(http.MethodGet, "/v1/projects/abc", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`"code":"common.bad_param"`))
		})

		It("should map missing project to 404", func() {
			odt.DetailProjectFunc = func(id types.ID, s *session.Session) (*domain.ProjectDetail, error) {
				return nil, bizerror.ErrNotFound
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/projects/404", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body).To(MatchJSON(`{"code":"common.record_not_found","message":"record not found","data":null}`))
		})
	})

	Describe("handleAdvanceProject", func() {
		It("should advance and return the updated project", func() {
			odt.AdvanceProjectFunc = func(id types.ID, s *session.Session) (*domain.Project, error) {
				Expect(id).To(Equal(types.ID(123)))
				return &domain.Project{ID: 123, CurrentStage: "Design", Status: domain.StatusNormal}, nil
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/projects/123/advancements", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"currentStage":"Design"`))
		})

		It("should map a blocked quality gate to 409", func() {
			odt.AdvanceProjectFunc = func(id types.ID, s *session.Session) (*domain.Project, error) {
				return nil, bizerror.ErrQualityGateBlocked
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/projects/123/advancements", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusConflict))
			Expect(body).To(MatchJSON(`{"code":"odt.quality_gate_blocked",` +
				`"message":"quality sign-off is required before leaving a production stage","data":null}`))
		})
	})

	Describe("handleCancelProject", func() {
		It("should map a missing reason to 400", func() {
			odt.CancelProjectFunc = func(id types.ID, c *domain.ProjectCancelling, s *session.Session) (*domain.Project, error) {
				return nil, bizerror.ErrCancelReasonRequired
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/projects/123/cancellation", bytes.NewBufferString(`{"reason":"  "}`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`"code":"odt.cancel_reason_required"`))
		})

		It("should cancel with a reason", func() {
			odt.CancelProjectFunc = func(id types.ID, c *domain.ProjectCancelling, s *session.Session) (*domain.Project, error) {
				Expect(c.Reason).To(Equal("client dropped"))
				return &domain.Project{ID: 123, Status: domain.StatusCancelled, CancelReason: c.Reason}, nil
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/projects/123/cancellation",
				bytes.NewBufferString(`{"reason":"client dropped"}`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"status":"Cancelled"`))
		})
	})

	Describe("handleAssignStage", func() {
		It("should map forbidden to 403", func() {
			odt.AssignStageFunc = func(id types.ID, a *domain.StageAssigning, s *session.Session) (*domain.StageAssignment, error) {
				return nil, bizerror.ErrForbidden
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/projects/123/assignments",
				bytes.NewBufferString(`{"stage":"Design","assigneeId":"500"}`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusForbidden))
			Expect(body).To(ContainSubstring(`"code":"security.forbidden"`))
		})
	})

	Describe("handleQueryTrackingEntries", func() {
		It("should return the tracking history", func() {
			odt.QueryTrackingEntriesFunc = func(id types.ID, s *session.Session) ([]domain.TrackingEntry, error) {
				return []domain.TrackingEntry{{ID: 1, ProjectID: id, Stage: "Accounts"}}, nil
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/projects/123/tracking", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"stage":"Accounts"`))
		})
	})

	Describe("handleCreateComment", func() {
		It("should create comment and return 201", func() {
			odt.CreateCommentFunc = func(id types.ID, c *domain.CommentCreation, s *session.Session) (*domain.Comment, error) {
				return &domain.Comment{ID: 9, ProjectID: id, Text: c.Text}, nil
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/projects/123/comments",
				bytes.NewBufferString(`{"text":"first draft shared"}`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusCreated))
			Expect(body).To(ContainSubstring(`"text":"first draft shared"`))
		})
	})
})
