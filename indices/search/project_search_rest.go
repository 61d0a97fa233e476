package search

import (
	"net/http"

	"odtflow/bizerror"
	"odtflow/domain"
	"odtflow/session"

	"github.com/gin-gonic/gin"
)

func RegisterProjectSearchRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/project-search", middleWares...)
	g.GET("", handleSearchProjects)
}

func handleSearchProjects(c *gin.Context) {
	query := domain.ProjectQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	projects, err := SearchProjectsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, projects)
}
