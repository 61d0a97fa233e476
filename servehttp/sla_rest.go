package servehttp

import (
	"net/http"

	"odtflow/domain/odt"
	"odtflow/session"

	"github.com/gin-gonic/gin"
)

func RegisterSLARestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/sla-reports", middleWares...)
	g.GET("", handleQuerySLAReports)
}

func handleQuerySLAReports(c *gin.Context) {
	alerts, err := odt.QuerySLAReportsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, alerts)
}
