package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/Domenick1991/fastboat/internal/service/catalog"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CatalogHandler struct {
	service catalog.CatalogUseCase
	log     logrus.FieldLogger
}

type catalogResponse struct {
	Tickets  []ticketResponse  `json:"tickets"`
	Packages []packageResponse `json:"packages"`
}

func NewCatalogHandler(service catalog.CatalogUseCase, log logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{service: service, log: log}
}

func (h *CatalogHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:type", h.listType)
	router.GET("/:type/:id", h.get)
}

func (h *CatalogHandler) list(c *gin.Context) {
	ctx := c.Request.Context()
	tickets, err := h.service.ListActiveTickets(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	packages, err := h.service.ListActivePackages(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, catalogResponse{
		Tickets:  ticketResponses(tickets),
		Packages: packageResponses(packages),
	})
}

func (h *CatalogHandler) listType(c *gin.Context) {
	t, ok := domain.ParseBookableType(c.Param("type"))
	if !ok {
		respondBadRequest(c, "unknown catalog type")
		return
	}

	ctx := c.Request.Context()
	switch t {
	case domain.BookableTicket:
		tickets, err := h.service.ListActiveTickets(ctx)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, ticketResponses(tickets))
	case domain.BookablePackage:
		packages, err := h.service.ListActivePackages(ctx)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, packageResponses(packages))
	}
}

// get serves the booking form preload: only active items are returned.
func (h *CatalogHandler) get(c *gin.Context) {
	t, ok := domain.ParseBookableType(c.Param("type"))
	if !ok {
		respondBadRequest(c, "unknown catalog type")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid id")
		return
	}

	item, err := h.service.GetActive(c.Request.Context(), domain.BookableRef{Type: t, ID: id})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookableResponse(item))
}

func ticketResponses(tickets []domain.Ticket) []ticketResponse {
	out := make([]ticketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, toTicketResponse(&tickets[i]))
	}
	return out
}

func packageResponses(packages []domain.TourPackage) []packageResponse {
	out := make([]packageResponse, 0, len(packages))
	for i := range packages {
		out = append(out, toPackageResponse(&packages[i]))
	}
	return out
}
