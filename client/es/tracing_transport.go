package es

import (
	"net/http"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// TracingTransport wraps a RoundTripper with a client span when the
// request context carries an active trace.
type TracingTransport struct {
	Transport http.RoundTripper
}

func (t *TracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	parentSpan := opentracing.SpanFromContext(req.Context())
	if parentSpan == nil {
		return t.Transport.RoundTrip(req)
	}

	tracer := parentSpan.Tracer()
	clientSpan := tracer.StartSpan(req.Method+" "+req.RequestURI, opentracing.ChildOf(parentSpan.Context()))
	defer clientSpan.Finish()

	ext.SpanKindRPCClient.Set(clientSpan)
	ext.HTTPMethod.Set(clientSpan, req.Method)
	ext.HTTPUrl.Set(clientSpan, req.URL.String())
	tracer.Inject(clientSpan.Context(), opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(req.Header))

	res, err := t.Transport.RoundTrip(req)
	if res == nil {
		ext.Error.Set(clientSpan, true)
		if err != nil {
			clientSpan.SetTag("error.detail", err.Error())
		}
		return res, err
	}

	ext.HTTPStatusCode.Set(clientSpan, uint16(res.StatusCode))
	ext.Error.Set(clientSpan, res.StatusCode >= 400)
	return res, err
}
