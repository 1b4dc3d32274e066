package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/partshop/backend/internal/application/partner"
)

// PartyHandler serves /parties
type PartyHandler struct {
	BaseHandler
	partyService *partnerapp.PartyService
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(partyService *partnerapp.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

// Create creates a supplier or customer
func (h *PartyHandler) Create(c *gin.Context) {
	var req partnerapp.PartyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	party, err := h.partyService.Create(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, party)
}

func (h *PartyHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	party, err := h.partyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, party)
}

func (h *PartyHandler) List(c *gin.Context) {
	var filter partnerapp.PartyListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	parties, total, err := h.partyService.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, parties, total, filter.Page, filter.PageSize)
}

func (h *PartyHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.PartyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	party, err := h.partyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, party)
}

func (h *PartyHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.partyService.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
