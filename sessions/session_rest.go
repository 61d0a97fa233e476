package sessions

import (
	"net/http"
	"time"

	"odtflow/account"
	"odtflow/bizerror"
	"odtflow/session"

	"github.com/gin-gonic/gin"
)

func RegisterSessionHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/session", middleWares...)
	g.GET("", DetailSession)
}

// DetailSession refreshes the cached permissions of the current token and
// returns the session view.
func DetailSession(c *gin.Context) {
	sec := session.ExtractSessionFromGinContext(c)
	if sec.Token == "" {
		panic(bizerror.ErrUnauthenticated)
	}

	now := time.Now()
	ttl := session.TokenExpiration - now.Sub(sec.SigningTime)
	if ttl <= 0 {
		panic(bizerror.ErrUnauthenticated)
	}

	perms, identity := account.LoadPermFunc(sec.Identity.ID)
	s := session.Session{Token: sec.Token, Identity: identity, Perms: perms, SigningTime: sec.SigningTime}
	session.TokenCache.Set(sec.Token, &s, ttl)
	c.JSON(http.StatusOK, &s)
}
