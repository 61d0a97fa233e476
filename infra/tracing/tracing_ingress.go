package tracing

import (
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// TracingIngress opens a server span per request, continuing an upstream
// trace when the caller carries one in its headers.
func TracingIngress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tracer := opentracing.GlobalTracer()
		upstreamCtx, _ := tracer.Extract(opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(ctx.Request.Header))

		operation := ctx.Request.Method + " " + ctx.FullPath()
		if ctx.FullPath() == "" {
			operation = ctx.Request.Method + " " + ctx.Request.URL.Path
		}
		serverSpan := tracer.StartSpan(operation, ext.RPCServerOption(upstreamCtx))
		ext.HTTPMethod.Set(serverSpan, ctx.Request.Method)
		ext.HTTPUrl.Set(serverSpan, ctx.Request.URL.String())
		defer func() {
			ext.HTTPStatusCode.Set(serverSpan, uint16(ctx.Writer.Status()))
			serverSpan.Finish()
		}()

		ctx.Request = ctx.Request.WithContext(opentracing.ContextWithSpan(ctx.Request.Context(), serverSpan))
		ctx.Next()
	}
}
