package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vecdb-go/internal/apierr"
	"vecdb-go/internal/collection"
)

// UpsertPointRequest is the body for POST /collections/:name/points.
type UpsertPointRequest struct {
	Id      uint64             `json:"id" binding:"required"`
	Values  []float32          `json:"values" binding:"required"`
	Payload collection.Payload `json:"payload,omitempty"`
}

// PointResponse is returned by point read/write endpoints.
type PointResponse struct {
	Id      collection.PointId `json:"id"`
	Values  []float32          `json:"values"`
	Payload collection.Payload `json:"payload,omitempty"`
}

func (s *Server) handleUpsertPoint(c *gin.Context) {
	var req UpsertPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	outcome, apiErr := s.engine.UpsertPoint(c.Param("name"), req.Id, req.Values, req.Payload)
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}
	status := http.StatusOK
	if outcome == collection.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"id": req.Id, "created": outcome == collection.Created})
}

func (s *Server) handleGetPoint(c *gin.Context) {
	id, err := parsePointID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	values, payload, apiErr := s.engine.GetPoint(c.Param("name"), id)
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, PointResponse{Id: id, Values: values, Payload: payload})
}

func (s *Server) handleDeletePoint(c *gin.Context) {
	id, err := parsePointID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	removed, apiErr := s.engine.DeletePoint(c.Param("name"), id)
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}
	if !removed {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListPoints(c *gin.Context) {
	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", 0)

	ids, apiErr := s.engine.ListPointIds(c.Param("name"), offset, limit)
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ids": ids})
}

func parsePointID(raw string) (collection.PointId, *apierr.Error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apierr.InvalidArgument("invalid point id: " + raw)
	}
	return collection.PointId(id), nil
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
