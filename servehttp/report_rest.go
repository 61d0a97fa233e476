package servehttp

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"odtflow/domain"
	"odtflow/domain/odt"
	"odtflow/session"

	"github.com/gin-gonic/gin"
)

func RegisterReportsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/reports", middleWares...)
	g.GET("projects.csv", handleExportProjectsCsv)
}

var csvHeader = []string{"Identifier", "Company", "Brand", "Product", "Status",
	"Stage", "Begin Date", "Target Date", "Estimated Cost", "Cancel Reason"}

// handleExportProjectsCsv streams the current query result as a CSV download
// for offline reporting.
func handleExportProjectsCsv(c *gin.Context) {
	query := domain.ProjectQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(err)
	}

	projects, err := odt.QueryProjectsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="projects.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.Write(csvHeader); err != nil {
		panic(err)
	}
	for _, p := range projects {
		record := []string{
			p.Identifier, p.Company, p.Brand, p.Product, string(p.Status),
			p.CurrentStage, p.BeginDate, p.TargetDate,
			fmt.Sprintf("%.2f", p.EstimatedCost), p.CancelReason,
		}
		if err := w.Write(record); err != nil {
			panic(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		panic(err)
	}
}
