package tracing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// untracedPaths are polled by orchestration and scrapers and would drown the
// evaluation spans.
var untracedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// GinMiddleware starts a server span per API request, named after the route
// template so indicator ids do not explode span cardinality.
func GinMiddleware(serviceName string, opts ...otelgin.Option) gin.HandlerFunc {
	opts = append([]otelgin.Option{
		otelgin.WithFilter(func(r *http.Request) bool {
			return !untracedPaths[r.URL.Path]
		}),
		otelgin.WithSpanNameFormatter(routeSpanName),
	}, opts...)
	return otelgin.Middleware(serviceName, opts...)
}

func routeSpanName(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		return ""
	}
	return c.Request.Method + " " + route
}
