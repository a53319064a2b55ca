package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/autospa/carwash-booking/internal/model"
	"github.com/autospa/carwash-booking/internal/repository"
)

func TestAdminStats(t *testing.T) {
	users := new(MockUserRepository)
	vehicles := new(MockVehicleRepository)
	bookings := new(MockBookingRepository)
	users.On("Count", mock.Anything).Return(int64(12), nil)
	bookings.On("Count", mock.Anything).Return(int64(40), nil)
	vehicles.On("Count", mock.Anything).Return(int64(8), nil)
	bookings.On("CountByStatus", mock.Anything).
		Return(map[string]int64{"pending": 30, "confirmed": 10}, nil)
	h := NewAdminHandler(users, vehicles, bookings)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/admin/stats", "")
	require.NoError(t, h.Stats(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp statsResp
	require.NoError(t, jsonUnmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(12), resp.TotalUsers)
	assert.Equal(t, int64(40), resp.TotalBookings)
	assert.Equal(t, int64(8), resp.TotalVehicles)
	assert.Equal(t, int64(30), resp.BookingsByStatus["pending"])
}

func TestAdminListUsersHidesHashes(t *testing.T) {
	users := new(MockUserRepository)
	users.On("List", mock.Anything).Return([]model.User{
		{ID: 1, Email: "ana@x.com", Name: "Ana", PasswordHash: "$2a$10$secret", Role: model.RoleClient},
	}, nil)
	h := NewAdminHandler(users, new(MockVehicleRepository), new(MockBookingRepository))

	c, rec := newJSONContext(t, http.MethodGet, "/v1/admin/users", "")
	require.NoError(t, h.ListUsers(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "$2a$10$secret")
}

func TestAdminDeleteUser(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("Delete", mock.Anything, uint64(4)).Return(nil)
		h := NewAdminHandler(users, new(MockVehicleRepository), new(MockBookingRepository))

		c, rec := newJSONContext(t, http.MethodDelete, "/v1/admin/users/4", "")
		c.SetParamNames("id")
		c.SetParamValues("4")
		require.NoError(t, h.DeleteUser(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("Delete", mock.Anything, uint64(99)).Return(repository.ErrNotFound)
		h := NewAdminHandler(users, new(MockVehicleRepository), new(MockBookingRepository))

		c, rec := newJSONContext(t, http.MethodDelete, "/v1/admin/users/99", "")
		c.SetParamNames("id")
		c.SetParamValues("99")
		require.NoError(t, h.DeleteUser(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		h := NewAdminHandler(new(MockUserRepository), new(MockVehicleRepository), new(MockBookingRepository))
		c, rec := newJSONContext(t, http.MethodDelete, "/v1/admin/users/abc", "")
		c.SetParamNames("id")
		c.SetParamValues("abc")
		require.NoError(t, h.DeleteUser(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminListBookingsIncludesGuests(t *testing.T) {
	bookings := new(MockBookingRepository)
	bookings.On("ListAll", mock.Anything).Return([]model.Booking{
		{ID: 1, UserID: uintPtr(1), Name: "Ana"},
		{ID: 2, UserID: nil, Name: "Walk In"},
	}, nil)
	h := NewAdminHandler(new(MockUserRepository), new(MockVehicleRepository), bookings)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/admin/bookings", "")
	require.NoError(t, h.ListBookings(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []model.Booking
	require.NoError(t, jsonUnmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Nil(t, got[1].UserID)
}
