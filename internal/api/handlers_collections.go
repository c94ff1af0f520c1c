package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateCollectionRequest is the body for POST /collections.
type CreateCollectionRequest struct {
	Name         string `json:"name" binding:"required"`
	Dimension    int    `json:"dimension" binding:"required"`
	StrictFinite bool   `json:"strict_finite"`
}

// CollectionResponse describes a collection in every response that returns
// one, matching engine.CollectionInfo.
type CollectionResponse struct {
	Name         string `json:"name"`
	Dimension    int    `json:"dimension"`
	StrictFinite bool   `json:"strict_finite"`
	PointCount   int    `json:"point_count"`
}

func (s *Server) handleCreateCollection(c *gin.Context) {
	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	info, apiErr := s.engine.CreateCollection(req.Name, req.Dimension, req.StrictFinite)
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, collectionResponse(info))
}

func (s *Server) handleListCollections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"collections": s.engine.ListCollections()})
}

func (s *Server) handleGetCollection(c *gin.Context) {
	info, apiErr := s.engine.GetCollection(c.Param("name"))
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, collectionResponse(info))
}

func (s *Server) handleDeleteCollection(c *gin.Context) {
	existed, apiErr := s.engine.DeleteCollection(c.Param("name"))
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}
	if !existed {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
