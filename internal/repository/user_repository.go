package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/autospa/carwash-booking/internal/model"
)

// ProfileUpdate carries the mutable profile fields. Nil pointers leave the
// corresponding column untouched. Role and email are not represented here:
// they are immutable after registration.
type ProfileUpdate struct {
	Name         *string
	Phone        *string
	PasswordHash *string
}

// UserRepository defines persistence operations on the users table. The
// interface exists so that handlers can be exercised against mocks.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint64, upd ProfileUpdate) error
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct{ db *sql.DB }

// NewUserRepository builds a MySQL-backed user repository.
func NewUserRepository(db *sql.DB) UserRepository { return &userRepository{db: db} }

const userColumns = "id,email,name,password_hash,role,phone,created_at,updated_at"

// Create inserts a user and populates its generated ID. The caller is
// responsible for hashing the password and normalizing the email.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash, role, phone) VALUES (?,?,?,?,?)",
		u.Email, u.Name, u.PasswordHash, string(u.Role), u.Phone)
	if err != nil {
		// MySQL 1062 = duplicate entry for the unique email index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *userRepository) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

func (r *userRepository) scanOne(row *sql.Row) (*model.User, error) {
	var u model.User
	var role string
	var phone sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &phone, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	u.Phone = phone.String
	return &u, nil
}

// UpdateProfile applies the non-nil fields of upd to the user row. Calling
// it with no fields set is a no-op. Existence is checked by the caller via
// GetByID, so zero affected rows here (unchanged values) is not an error.
func (r *userRepository) UpdateProfile(ctx context.Context, id uint64, upd ProfileUpdate) error {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if upd.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.Phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, *upd.Phone)
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash=?")
		args = append(args, *upd.PasswordHash)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+", updated_at=NOW() WHERE id=?", args...)
	return err
}

// List returns all users ordered by creation time, newest first.
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		var role string
		var phone sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &phone, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Role = model.Role(role)
		u.Phone = phone.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// Delete removes a user inside a single transaction: owned vehicles are
// deleted, the owner reference on the user's bookings is set to NULL so
// booking history survives, then the user row goes. ErrNotFound is
// returned when no such user exists.
func (r *userRepository) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM vehicles WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE bookings SET user_id=NULL WHERE user_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
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
	return tx.Commit()
}

// Count returns the total number of registered users.
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}
