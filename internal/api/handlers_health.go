package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleHealthz answers the liveness probe: always 200 once the process
// has a router to serve requests with.
func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"live": s.engine.Live()})
}

// handleReadyz answers the readiness probe: 503 once the engine's degraded
// gate has tripped, so a load balancer stops routing traffic to a process
// that can no longer durably persist writes.
func (s *Server) handleReadyz(c *gin.Context) {
	status := s.engine.Status()
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"ready":               status.Ready,
		"degraded_reason":     status.DegradedReason,
		"collection_count":    status.CollectionCount,
		"resource_used_bytes": status.ResourceUsed,
		"resource_budget":     status.ResourceBudget,
		"wal_size_bytes":      status.PersistenceLag.WalSizeBytes,
		"wal_tail_open":       status.PersistenceLag.WalTailOpen,
	})
}
