package api

import (
	"vecdb-go/internal/collection"
	"vecdb-go/internal/collfilter"
	"vecdb-go/internal/engine"
)

func collectionResponse(info engine.CollectionInfo) CollectionResponse {
	return CollectionResponse{
		Name:         info.Name,
		Dimension:    info.Dimension,
		StrictFinite: info.StrictFinite,
		PointCount:   info.PointCount,
	}
}

// ClauseDTO is the wire shape of a single filter clause.
type ClauseDTO struct {
	Kind  string                    `json:"kind" binding:"required"`
	Field string                    `json:"field" binding:"required"`
	Value collection.MetadataValue  `json:"value,omitempty"`
	Gt    *float64                  `json:"gt,omitempty"`
	Gte   *float64                  `json:"gte,omitempty"`
	Lt    *float64                  `json:"lt,omitempty"`
	Lte   *float64                  `json:"lte,omitempty"`
}

// FilterDTO is the wire shape of a search request's filter tree.
type FilterDTO struct {
	Must               []ClauseDTO `json:"must,omitempty"`
	Should             []ClauseDTO `json:"should,omitempty"`
	MinimumShouldMatch *int        `json:"minimum_should_match,omitempty"`
}

func (dto *FilterDTO) toFilter() *collfilter.Filter {
	if dto == nil {
		return nil
	}
	return &collfilter.Filter{
		Must:               toClauses(dto.Must),
		Should:             toClauses(dto.Should),
		MinimumShouldMatch: dto.MinimumShouldMatch,
	}
}

func toClauses(dtos []ClauseDTO) []collfilter.Clause {
	if len(dtos) == 0 {
		return nil
	}
	clauses := make([]collfilter.Clause, len(dtos))
	for i, d := range dtos {
		clauses[i] = collfilter.Clause{
			Kind:  collfilter.ClauseKind(d.Kind),
			Field: d.Field,
			Value: d.Value,
			Gt:    d.Gt,
			Gte:   d.Gte,
			Lt:    d.Lt,
			Lte:   d.Lte,
		}
	}
	return clauses
}
