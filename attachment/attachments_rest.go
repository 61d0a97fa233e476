package attachment

import (
	"errors"
	"net/http"

	"odtflow/bizerror"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

func RegisterAttachmentsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/projects/:id/attachments", middleWares...)
	g.GET("", handleListAttachments)
	g.POST("", handleCreateAttachment)
	g.GET(":name", handleDetailAttachment)
}

func parseProjectID(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return id
}

func handleListAttachments(c *gin.Context) {
	infos, err := ListAttachments(parseProjectID(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, infos)
}

func handleCreateAttachment(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	f, err := file.Open()
	if err != nil {
		panic(err)
	}
	defer f.Close()

	if err := CreateAttachment(parseProjectID(c), file.Filename, f,
		session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, &AttachmentInfo{Name: file.Filename, Size: file.Size})
}

func handleDetailAttachment(c *gin.Context) {
	bytes, err := DetailAttachment(parseProjectID(c), c.Param("name"),
		session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.Data(http.StatusOK, "application/octet-stream", bytes)
}
