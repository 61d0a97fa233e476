package servehttp

import (
	"errors"
	"net/http"

	"odtflow/bizerror"
	"odtflow/domain"
	"odtflow/domain/odt"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterProjectsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/projects", middleWares...)
	g.GET("", handleQueryProjects)
	g.POST("", handleCreateProject)
	g.GET(":id", handleDetailProject)
	g.PUT(":id", handleUpdateProject)

	g.POST(":id/advancements", handleAdvanceProject)
	g.POST(":id/cancellation", handleCancelProject)
	g.POST(":id/reactivation", handleReactivateProject)
	g.POST(":id/quality-reviews", handleReviewQuality)
	g.POST(":id/assignments", handleAssignStage)

	g.GET(":id/tracking", handleQueryTrackingEntries)
	g.GET(":id/comments", handleQueryComments)
	g.POST(":id/comments", handleCreateComment)
	g.GET(":id/links", handleQueryLinks)
	g.POST(":id/links", handleCreateLink)
	g.GET(":id/events", handleQueryProjectEvents)
}

func parseProjectID(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return id
}

func handleQueryProjects(c *gin.Context) {
	query := domain.ProjectQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	projects, err := odt.QueryProjectsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, projects)
}

func handleCreateProject(c *gin.Context) {
	creation := domain.ProjectCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	detail, err := odt.CreateProjectFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, detail)
}

func handleDetailProject(c *gin.Context) {
	detail, err := odt.DetailProjectFunc(parseProjectID(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func handleUpdateProject(c *gin.Context) {
	updating := domain.ProjectUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	project, err := odt.UpdateProjectFunc(parseProjectID(c), &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, project)
}

func handleAdvanceProject(c *gin.Context) {
	project, err := odt.AdvanceProjectFunc(parseProjectID(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, project)
}

func handleCancelProject(c *gin.Context) {
	cancelling := domain.ProjectCancelling{}
	if err := c.ShouldBindBodyWith(&cancelling, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	project, err := odt.CancelProjectFunc(parseProjectID(c), &cancelling, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, project)
}

func handleReactivateProject(c *gin.Context) {
	reactivating := domain.ProjectReactivating{}
	if err := c.ShouldBindBodyWith(&reactivating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	project, err := odt.ReactivateProjectFunc(parseProjectID(c), &reactivating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, project)
}

func handleReviewQuality(c *gin.Context) {
	review := domain.QualityReview{}
	if err := c.ShouldBindBodyWith(&review, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	project, err := odt.ReviewQualityFunc(parseProjectID(c), &review, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, project)
}

func handleAssignStage(c *gin.Context) {
	assigning := domain.StageAssigning{}
	if err := c.ShouldBindBodyWith(&assigning, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	assignment, err := odt.AssignStageFunc(parseProjectID(c), &assigning, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, assignment)
}

func handleQueryTrackingEntries(c *gin.Context) {
	entries, err := odt.QueryTrackingEntriesFunc(parseProjectID(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, entries)
}

func handleQueryComments(c *gin.Context) {
	comments, err := odt.QueryCommentsFunc(parseProjectID(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, comments)
}

func handleCreateComment(c *gin.Context) {
	creation := domain.CommentCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	comment, err := odt.CreateCommentFunc(parseProjectID(c), &creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, comment)
}

func handleQueryLinks(c *gin.Context) {
	links, err := odt.QueryLinksFunc(parseProjectID(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, links)
}

func handleCreateLink(c *gin.Context) {
	creation := domain.LinkCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	link, err := odt.CreateLinkFunc(parseProjectID(c), &creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, link)
}

func handleQueryProjectEvents(c *gin.Context) {
	records, err := odt.QueryProjectEventsFunc(parseProjectID(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}
