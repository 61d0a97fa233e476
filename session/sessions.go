package session

import (
	"time"

	"odtflow/bizerror"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

const TokenExpiration = 24 * time.Hour

var TokenCache = cache.New(TokenExpiration, 1*time.Minute)

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

const (
	KeySecCtx   = "SecCtx"
	KeySecToken = "sec_token"
)

// ExtractSessionFromGinContext never returns nil; an anonymous session
// with only the request context is returned when no token was injected.
func ExtractSessionFromGinContext(ctx *gin.Context) *Session {
	value, found := ctx.Get(KeySecCtx)
	if found {
		if signed, ok := value.(*Session); ok && signed.Token != "" {
			s := signed.Clone()
			s.Context = ctx.Request.Context() // trace context
			return &s
		}
	}
	return &Session{Context: ctx.Request.Context()}
}

// SimpleAuthFilter rejects requests without a live signed token.
func SimpleAuthFilter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(KeySecToken)
		if err != nil {
			panic(bizerror.ErrUnauthenticated)
		}
		cached, found := TokenCache.Get(token)
		if !found {
			panic(bizerror.ErrUnauthenticated)
		}
		signed, ok := cached.(*Session)
		if !ok {
			panic(bizerror.ErrUnauthenticated)
		}
		InjectSessionIntoGinContext(ctx, signed)
		ctx.Next()
	}
}

func InjectSessionIntoGinContext(ctx *gin.Context, s *Session) {
	if s != nil && s.Token != "" {
		ctx.Set(KeySecCtx, s)
	}
}
