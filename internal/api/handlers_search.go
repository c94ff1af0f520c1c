package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vecdb-go/internal/apierr"
	"vecdb-go/internal/engine"
	"vecdb-go/internal/vecmath"
)

// SearchRequestBody is the body for POST /collections/:name/search.
type SearchRequestBody struct {
	Query        []float32  `json:"query" binding:"required"`
	TopK         int        `json:"top_k" binding:"required"`
	Metric       string     `json:"metric"`
	Mode         string     `json:"mode"`
	TargetRecall *float64   `json:"target_recall,omitempty"`
	Filter       *FilterDTO `json:"filter,omitempty"`
}

// SearchResultDTO is one ranked hit in a search response.
type SearchResultDTO struct {
	Id      uint64 `json:"id"`
	Score   float32 `json:"score"`
	Payload any    `json:"payload,omitempty"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req SearchRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	metric := vecmath.Metric(req.Metric)
	if metric == "" {
		metric = vecmath.MetricL2
	}
	if metric != vecmath.MetricL2 && metric != vecmath.MetricDot && metric != vecmath.MetricCosine {
		respondError(c, apierr.InvalidArgument("unknown metric: "+req.Metric))
		return
	}

	var mode engine.SearchMode
	switch req.Mode {
	case "":
	case string(engine.ModeExact):
		mode = engine.ModeExact
	case string(engine.ModeIVF):
		mode = engine.ModeIVF
	default:
		respondError(c, apierr.InvalidArgument("unknown mode: "+req.Mode))
		return
	}

	results, respMode, recallAtK, apiErr := s.engine.Search(c.Param("name"), engine.SearchRequest{
		Query:        req.Query,
		TopK:         req.TopK,
		Metric:       metric,
		Mode:         mode,
		TargetRecall: req.TargetRecall,
		Filter:       req.Filter.toFilter(),
	})
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}

	dtos := make([]SearchResultDTO, len(results))
	for i, r := range results {
		dtos[i] = SearchResultDTO{Id: uint64(r.Id), Score: r.Score, Payload: r.Payload}
	}
	c.JSON(http.StatusOK, gin.H{"results": dtos, "mode": respMode, "recall_at_k": recallAtK})
}
