package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/autospa/carwash-booking/internal/model"
)

// BookingUpdate carries the mutable booking fields. Nil pointers leave the
// corresponding column untouched. The contact and vehicle snapshots are
// frozen at creation time and have no update path.
type BookingUpdate struct {
	Date    *string
	Time    *string
	Service *string
	Status  *string
}

// BookingRepository persists bookings. Owner-scoped variants add the
// user_id predicate for non-admin callers; the unscoped variants back the
// admin surface.
type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	GetForOwner(ctx context.Context, id, userID uint64) (*model.Booking, error)
	Update(ctx context.Context, id uint64, owner *uint64, upd BookingUpdate) error
	Delete(ctx context.Context, id uint64, owner *uint64) error
	ListByOwner(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type bookingRepository struct{ db *sql.DB }

// NewBookingRepository builds a MySQL-backed booking repository.
func NewBookingRepository(db *sql.DB) BookingRepository { return &bookingRepository{db: db} }

const bookingColumns = "id,user_id,name,email,phone,booking_date,booking_time,service," +
	"vehicle_type,brand,model,license_plate,status,created_at,updated_at"

// Create inserts a booking and populates its generated ID. A nil UserID
// stores NULL, marking a guest booking.
func (r *bookingRepository) Create(ctx context.Context, b *model.Booking) error {
	if b.Status == "" {
		b.Status = model.BookingStatusPending
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings
		 (user_id, name, email, phone, booking_date, booking_time, service,
		  vehicle_type, brand, model, license_plate, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.UserID, b.Name, b.Email, b.Phone, b.Date, b.Time, b.Service,
		b.VehicleType, b.Brand, b.Model, b.LicensePlate, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches a booking without an owner predicate (admin path).
func (r *bookingRepository) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id))
}

// GetForOwner fetches a booking scoped to its owner. A booking owned by
// another user or not existing at all both yield ErrNotFound.
func (r *bookingRepository) GetForOwner(ctx context.Context, id, userID uint64) (*model.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? AND user_id=? LIMIT 1", id, userID))
}

func scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	var userID sql.NullInt64
	err := row.Scan(&b.ID, &userID, &b.Name, &b.Email, &b.Phone, &b.Date, &b.Time,
		&b.Service, &b.VehicleType, &b.Brand, &b.Model, &b.LicensePlate,
		&b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		b.UserID = &uid
	}
	return &b, nil
}

// Update applies the non-nil fields of upd. When owner is non-nil the
// statement carries the compound (id, owner) predicate so a non-owner
// cannot touch the row. Callers establish existence via GetForOwner or
// GetByID first, so zero affected rows here means unchanged values.
func (r *bookingRepository) Update(ctx context.Context, id uint64, owner *uint64, upd BookingUpdate) error {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 6)
	if upd.Date != nil {
		sets = append(sets, "booking_date=?")
		args = append(args, *upd.Date)
	}
	if upd.Time != nil {
		sets = append(sets, "booking_time=?")
		args = append(args, *upd.Time)
	}
	if upd.Service != nil {
		sets = append(sets, "service=?")
		args = append(args, *upd.Service)
	}
	if upd.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, *upd.Status)
	}
	if len(sets) == 0 {
		return nil
	}
	q := "UPDATE bookings SET " + strings.Join(sets, ", ") + ", updated_at=NOW() WHERE id=?"
	args = append(args, id)
	if owner != nil {
		q += " AND user_id=?"
		args = append(args, *owner)
	}
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// Delete removes a booking. With a non-nil owner the delete is scoped to
// that user and zero affected rows yields ErrNotFound, whether the row is
// missing or merely not theirs.
func (r *bookingRepository) Delete(ctx context.Context, id uint64, owner *uint64) error {
	q := "DELETE FROM bookings WHERE id=?"
	args := []interface{}{id}
	if owner != nil {
		q += " AND user_id=?"
		args = append(args, *owner)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOwner returns the given user's bookings, most recent slot first.
func (r *bookingRepository) ListByOwner(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id=? ORDER BY booking_date DESC, booking_time DESC",
		userID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListAll returns every booking across all owners, including guest
// bookings (admin path).
func (r *bookingRepository) ListAll(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings ORDER BY booking_date DESC, booking_time DESC")
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	defer rows.Close()
	bookings := []model.Booking{}
	for rows.Next() {
		var b model.Booking
		var userID sql.NullInt64
		if err := rows.Scan(&b.ID, &userID, &b.Name, &b.Email, &b.Phone, &b.Date, &b.Time,
			&b.Service, &b.VehicleType, &b.Brand, &b.Model, &b.LicensePlate,
			&b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			uid := uint64(userID.Int64)
			b.UserID = &uid
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// Count returns the total number of bookings.
func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings").Scan(&n)
	return n, err
}

// CountByStatus returns booking counts grouped by status.
func (r *bookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM bookings GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
