package storage

import (
	"context"
	"strings"
	"time"

	"github.com/rl1809/invenedu/internal/core/domain"
)

const selectUsers = `
	SELECT u.id, u.first_name, u.last_name, u.email, u.is_active, u.role, u.created_at,
	       (SELECT COUNT(*) FROM issuance_records r WHERE r.user_id = u.id)
	FROM users u`

func scanUser(s scanner) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.IsActive, &role, &u.CreatedAt, &u.IssuanceCount)
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, err
}

func (r *repo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.queryRow(ctx, selectUsers+" WHERE u.id = ?", id))
	if isNoRows(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, storeErr("get user", err)
	}
	return &u, nil
}

func (r *repo) UserEmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "user email", `SELECT COUNT(*) FROM users WHERE LOWER(email) = ?`,
		strings.ToLower(strings.TrimSpace(email)))
}

func (r *repo) CreateUser(ctx context.Context, u *domain.User) error {
	u.CreatedAt = dbTime(time.Now())

	_, err := r.exec(ctx, `
		INSERT INTO users (id, first_name, last_name, email, is_active, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.IsActive, string(u.Role), u.CreatedAt,
	)
	if err != nil {
		return storeErr("insert user", err)
	}
	return nil
}

// ListUsers matches term against names and email, ordered by last then first name.
func (r *repo) ListUsers(ctx context.Context, term string, activeOnly bool) ([]domain.User, error) {
	var (
		conds []string
		args  []any
	)
	if term = strings.TrimSpace(term); term != "" {
		conds = append(conds, `(LOWER(u.first_name) LIKE ? ESCAPE '!' OR LOWER(u.last_name) LIKE ? ESCAPE '!' OR LOWER(u.email) LIKE ? ESCAPE '!')`)
		p := likePattern(term)
		args = append(args, p, p, p)
	}
	if activeOnly {
		conds = append(conds, "u.is_active = ?")
		args = append(args, true)
	}

	rows, err := r.query(ctx, selectUsers+whereClause(conds)+" ORDER BY u.last_name, u.first_name, u.id", args...)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storeErr("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

func (r *repo) CountUsers(ctx context.Context) (int, error) {
	return r.count(ctx, "count users", `SELECT COUNT(*) FROM users`)
}
