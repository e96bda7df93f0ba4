package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/report"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	GuestName string `json:"guest_name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	RoomType  string `json:"room_type" binding:"required"`
	CheckIn   string `json:"check_in" binding:"required"`
	CheckOut  string `json:"check_out" binding:"required"`
	Guests    int    `json:"guests"`
}

type bookingResponse struct {
	BookingID   string `json:"booking_id"`
	GuestName   string `json:"guest_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	RoomType    string `json:"room_type"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	Guests      int    `json:"guests"`
	Nights      int    `json:"nights"`
	TotalPrice  int64  `json:"total_price"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	CancelledAt string `json:"cancelled_at,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/export", h.export)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Guests <= 0 {
		req.Guests = 1
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		GuestName: req.GuestName,
		Email:     req.Email,
		Phone:     req.Phone,
		RoomType:  req.RoomType,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Guests:    req.Guests,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

// list returns every booking, or the matches of ?q= when given.
func (h *BookingHandler) list(c *gin.Context) {
	var (
		bookings []domain.Booking
		err      error
	)
	if q, ok := c.GetQuery("q"); ok {
		bookings, err = h.service.SearchBookings(c.Request.Context(), q)
	} else {
		bookings, err = h.service.ListBookings(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	cancelled, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func (h *BookingHandler) export(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := report.WriteBookingsXLSX(c.Writer, bookings); err != nil {
		_ = c.Error(err)
	}
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		BookingID:  b.BookingID,
		GuestName:  b.GuestName,
		Email:      b.Email,
		Phone:      b.Phone,
		RoomType:   b.RoomType,
		CheckIn:    b.CheckIn.String(),
		CheckOut:   b.CheckOut.String(),
		Guests:     b.Guests,
		Nights:     b.Nights,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
	if b.CancelledAt != nil {
		resp.CancelledAt = b.CancelledAt.Format(time.RFC3339)
	}
	return resp
}
