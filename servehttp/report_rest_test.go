package servehttp_test

import (
	"net/http"
	"net/http/httptest"

	"odtflow/bizerror"
	"odtflow/domain"
	"odtflow/domain/odt"
	"odtflow/servehttp"
	"odtflow/session"
	"odtflow/testinfra"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ReportsRestAPI", func() {
	var router *gin.Engine

	BeforeEach(func() {
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		servehttp.RegisterReportsRestAPI(router, func(c *gin.Context) {
			session.InjectSessionIntoGinContext(c, testinfra.BuildSession(10, "dept_Accounts"))
		})
	})

	It("should export the project list as csv", func() {
		odt.QueryProjectsFunc = func(q *domain.ProjectQuery, s *session.Session) ([]domain.Project, error) {
			Expect(q.History).To(BeTrue())
			return []domain.Project{{
				Identifier: "ODT-1000", Company: "ACME", Brand: "Sparkle", Product: "Soda",
				Status: domain.StatusCancelled, CurrentStage: "Design",
				BeginDate: "2026-06-01", TargetDate: "2026-12-31",
				EstimatedCost: 1500, CancelReason: "client dropped",
			}}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/reports/projects.csv?history=true", nil)
		status, body, resp := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(resp.Header().Get("Content-Type")).To(ContainSubstring("text/csv"))
		Expect(resp.Header().Get("Content-Disposition")).To(ContainSubstring("projects.csv"))
		Expect(body).To(Equal("Identifier,Company,Brand,Product,Status,Stage,Begin Date,Target Date,Estimated Cost,Cancel Reason\n" +
			"ODT-1000,ACME,Sparkle,Soda,Cancelled,Design,2026-06-01,2026-12-31,1500.00,client dropped\n"))
	})
})
