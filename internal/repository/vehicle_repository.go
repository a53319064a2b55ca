package repository

import (
	"context"
	"database/sql"

	"github.com/autospa/carwash-booking/internal/model"
)

// VehicleRepository persists vehicles. Every read and delete outside the
// admin surface is scoped to the owning user in the WHERE clause; a row
// owned by somebody else behaves exactly like a missing row.
type VehicleRepository interface {
	Create(ctx context.Context, v *model.Vehicle) error
	ListByOwner(ctx context.Context, userID uint64) ([]model.Vehicle, error)
	GetForOwner(ctx context.Context, id, userID uint64) (*model.Vehicle, error)
	Delete(ctx context.Context, id, userID uint64) error
	Count(ctx context.Context) (int64, error)
}

type vehicleRepository struct{ db *sql.DB }

// NewVehicleRepository builds a MySQL-backed vehicle repository.
func NewVehicleRepository(db *sql.DB) VehicleRepository { return &vehicleRepository{db: db} }

// Create inserts a vehicle and populates its generated ID. The owner id on
// the record comes from the verified identity, never from a request body.
func (r *vehicleRepository) Create(ctx context.Context, v *model.Vehicle) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO vehicles (user_id, type, brand, model, license_plate) VALUES (?,?,?,?,?)",
		v.UserID, v.Type, v.Brand, v.Model, v.LicensePlate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// ListByOwner returns all vehicles belonging to the given user.
func (r *vehicleRepository) ListByOwner(ctx context.Context, userID uint64) ([]model.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,user_id,type,brand,model,license_plate,created_at FROM vehicles WHERE user_id=? ORDER BY id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []model.Vehicle{}
	for rows.Next() {
		var v model.Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.Type, &v.Brand, &v.Model, &v.LicensePlate, &v.CreatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// GetForOwner fetches a single vehicle scoped to its owner. ErrNotFound
// covers both a missing id and an id owned by another user.
func (r *vehicleRepository) GetForOwner(ctx context.Context, id, userID uint64) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.QueryRowContext(ctx,
		"SELECT id,user_id,type,brand,model,license_plate,created_at FROM vehicles WHERE id=? AND user_id=? LIMIT 1",
		id, userID).Scan(&v.ID, &v.UserID, &v.Type, &v.Brand, &v.Model, &v.LicensePlate, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Delete removes a vehicle scoped to its owner. The compound predicate is
// evaluated atomically by the store; zero affected rows yields ErrNotFound.
func (r *vehicleRepository) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM vehicles WHERE id=? AND user_id=?", id, userID)
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

// Count returns the total number of vehicles across all users.
func (r *vehicleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vehicles").Scan(&n)
	return n, err
}
