package servehttp_test

import (
	"net/http"
	"net/http/httptest"

	"odtflow/bizerror"
	"odtflow/domain/odt"
	"odtflow/servehttp"
	"odtflow/session"
	"odtflow/testinfra"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("SLARestAPI", func() {
	var router *gin.Engine

	BeforeEach(func() {
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		servehttp.RegisterSLARestAPI(router, func(c *gin.Context) {
			session.InjectSessionIntoGinContext(c, testinfra.BuildSession(10, "dept_Accounts"))
		})
	})

	It("should list sla breaches", func() {
		odt.QuerySLAReportsFunc = func(s *session.Session) ([]odt.SLAAlert, error) {
			return []odt.SLAAlert{{ProjectID: 123, Identifier: "ODT-1000", Stage: "Design",
				ResidenceHours: 80, Level: odt.SLALevelGeneral}}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/sla-reports", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"identifier":"ODT-1000"`))
		Expect(body).To(ContainSubstring(`"level":"GENERAL"`))
	})
})
