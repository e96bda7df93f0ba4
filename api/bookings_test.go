package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/dates"
	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) SearchBookings(ctx context.Context, query string) ([]domain.Booking, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Availability(ctx context.Context, checkIn, checkOut string) ([]domain.RoomAvailability, error) {
	args := m.Called(ctx, checkIn, checkOut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RoomAvailability), args.Error(1)
}

func (m *MockBookingUseCase) Catalog() domain.Catalog {
	return domain.DefaultCatalog()
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		BookingID:  "BK0001",
		GuestName:  "Alice",
		Email:      "alice@example.com",
		RoomType:   "single",
		CheckIn:    dates.MustParse("2024-01-01"),
		CheckOut:   dates.MustParse("2024-01-03"),
		Guests:     1,
		Nights:     2,
		TotalPrice: 4000,
		Status:     domain.BookingStatusConfirmed,
		CreatedAt:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := []byte(`{"guest_name":"Alice","email":"alice@example.com","room_type":"single","check_in":"2024-01-01","check_out":"2024-01-03"}`)
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	input := booking.CreateBookingInput{
		GuestName: "Alice",
		Email:     "alice@example.com",
		RoomType:  "single",
		CheckIn:   "2024-01-01",
		CheckOut:  "2024-01-03",
		Guests:    1,
	}
	mockService.On("CreateBooking", c.Request.Context(), input).Return(testBooking(), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "BK0001", response.BookingID)
	assert.Equal(t, "2024-01-03", response.CheckOut)
	assert.Equal(t, int64(4000), response.TotalPrice)
	assert.Equal(t, "confirmed", response.Status)
	assert.Empty(t, response.CancelledAt)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_Rejections(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid room type", err: domain.ErrInvalidRoomType, wantStatus: http.StatusBadRequest},
		{name: "invalid dates", err: domain.ErrInvalidDateFormat, wantStatus: http.StatusBadRequest},
		{name: "stay length", err: domain.ErrInvalidStayLength, wantStatus: http.StatusBadRequest},
		{name: "sold out", err: fmt.Errorf("single: %w", domain.ErrNoRoomsAvailable), wantStatus: http.StatusConflict},
		{name: "storage", err: errors.New("save bookings: disk full"), wantStatus: http.StatusInternalServerError},
	}

	gin.SetMode(gin.TestMode)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			body := []byte(`{"guest_name":"Alice","room_type":"single","check_in":"2024-01-01","check_out":"2024-01-03","guests":2}`)
			c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
			c.Request.Header.Set("Content-Type", "application/json")

			mockService.On("CreateBooking", c.Request.Context(), mock.AnythingOfType("booking.CreateBookingInput")).Return(nil, tc.err)

			handler.create(c)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "disk full")
			} else {
				assert.Contains(t, w.Body.String(), tc.err.Error())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestBookingHandler_create_BadBody(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader([]byte(`{"guest_name":"Alice"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_get(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "BK0404"}}
	c.Request = httptest.NewRequest("GET", "/bookings/BK0404", nil)

	mockService.On("GetBooking", c.Request.Context(), "BK0404").Return(nil, domain.ErrBookingNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "BK0001"}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/BK0001", nil)

	cancelledAt := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	cancelled := testBooking()
	cancelled.Status = domain.BookingStatusCancelled
	cancelled.CancelledAt = &cancelledAt

	mockService.On("CancelBooking", c.Request.Context(), "BK0001").Return(cancelled, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "cancelled", response.Status)
	assert.Equal(t, "2024-01-02T09:00:00Z", response.CancelledAt)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_list(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("all", func(t *testing.T) {
		mockService := &MockBookingUseCase{}
		handler := NewBookingHandler(mockService)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/bookings", nil)

		mockService.On("ListBookings", c.Request.Context()).Return([]domain.Booking{*testBooking()}, nil)

		handler.list(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response []bookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response, 1)
		assert.Equal(t, "BK0001", response[0].BookingID)
		mockService.AssertExpectations(t)
	})

	t.Run("search", func(t *testing.T) {
		mockService := &MockBookingUseCase{}
		handler := NewBookingHandler(mockService)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/bookings?q=ali", nil)

		mockService.On("SearchBookings", c.Request.Context(), "ali").Return([]domain.Booking{}, nil)

		handler.list(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
		mockService.AssertExpectations(t)
		mockService.AssertNotCalled(t, "ListBookings", mock.Anything)
	})
}

func TestBookingHandler_export(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/bookings/export", nil)

	mockService.On("ListBookings", c.Request.Context()).Return([]domain.Booking{*testBooking()}, nil)

	handler.export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
