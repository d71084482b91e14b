package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/dictionary"
)

// DictionarySource exposes the active dictionary and tier table.
type DictionarySource interface {
	Dictionary() *dictionary.Dictionary
	TierTable() dictionary.TierTable
}

// DictionaryHandler serves the active phrase dictionary.
type DictionaryHandler struct {
	source DictionarySource
}

// NewDictionaryHandler wires the dictionary endpoint.
func NewDictionaryHandler(source DictionarySource) *DictionaryHandler {
	return &DictionaryHandler{source: source}
}

type dictionaryResponse struct {
	Categories []dictionary.Category        `json:"categories"`
	Tiers      dictionary.TierTable         `json:"tiers"`
}

// Get handles GET /api/v1/dictionary.
func (h *DictionaryHandler) Get(c *gin.Context) {
	respond(c, http.StatusOK, dictionaryResponse{
		Categories: h.source.Dictionary().Categories(),
		Tiers:      h.source.TierTable(),
	})
}
