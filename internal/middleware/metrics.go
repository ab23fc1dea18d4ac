package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"terminal-terrace/atlas-forum/internal/metrics"
)

// Metrics 记录请求数和耗时，path 使用路由模板避免标签爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HttpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HttpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
