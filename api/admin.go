package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/fastboat/internal/service/admin"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	service admin.AdminUseCase
	log     logrus.FieldLogger
}

func NewAdminHandler(service admin.AdminUseCase, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{service: service, log: log}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/dashboard", h.dashboard)

	router.GET("/tickets", h.listTickets)
	router.POST("/tickets", h.createTicket)
	router.GET("/tickets/:id", h.showTicket)
	router.PUT("/tickets/:id", h.updateTicket)
	router.DELETE("/tickets/:id", h.deleteTicket)

	router.GET("/packages", h.listPackages)
	router.POST("/packages", h.createPackage)
	router.PUT("/packages/:id", h.updatePackage)

	router.POST("/bookings/:number/cancel", h.cancelBooking)
}

func (h *AdminHandler) dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dashboardResponse{
		Stats:          toStatsResponse(d.Stats),
		RecentBookings: toBookingResponses(d.Recent),
	})
}

func (h *AdminHandler) listTickets(c *gin.Context) {
	summaries, err := h.service.ListTickets(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]ticketResponse, 0, len(summaries))
	for i := range summaries {
		resp := toTicketResponse(&summaries[i].Ticket)
		count := summaries[i].BookingsCount
		resp.BookingsCount = &count
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) showTicket(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	details, err := h.service.GetTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ticketDetailsResponse{
		Ticket:   toTicketResponse(details.Ticket),
		Bookings: toBookingResponses(details.Bookings),
	})
}

func (h *AdminHandler) createTicket(c *gin.Context) {
	var req admin.TicketInput
	decodeErrs, ok := bindJSON(c, h.log, &req, false)
	if !ok {
		return
	}
	req.DecodeErrors = decodeErrs
	ticket, err := h.service.CreateTicket(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

func (h *AdminHandler) updateTicket(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req admin.TicketInput
	decodeErrs, ok := bindJSON(c, h.log, &req, false)
	if !ok {
		return
	}
	req.DecodeErrors = decodeErrs
	ticket, err := h.service.UpdateTicket(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func (h *AdminHandler) deleteTicket(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTicket(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) listPackages(c *gin.Context) {
	packages, err := h.service.ListPackages(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, packageResponses(packages))
}

func (h *AdminHandler) createPackage(c *gin.Context) {
	var req admin.PackageInput
	decodeErrs, ok := bindJSON(c, h.log, &req, false)
	if !ok {
		return
	}
	req.DecodeErrors = decodeErrs
	pkg, err := h.service.CreatePackage(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toPackageResponse(pkg))
}

func (h *AdminHandler) updatePackage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req admin.PackageInput
	decodeErrs, ok := bindJSON(c, h.log, &req, false)
	if !ok {
		return
	}
	req.DecodeErrors = decodeErrs
	pkg, err := h.service.UpdatePackage(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toPackageResponse(pkg))
}

func (h *AdminHandler) cancelBooking(c *gin.Context) {
	b, err := h.service.CancelBooking(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
