package storage

import (
	"context"
	"database/sql"

	"github.com/rl1809/invenedu/internal/core/domain"
)

const selectIssuances = `
	SELECT r.id, r.item_id, i.name, r.user_id, u.first_name, u.last_name, u.email,
	       r.quantity_issued, r.issued_date, r.return_date, r.status, r.notes
	FROM issuance_records r
	JOIN inventory_items i ON i.id = r.item_id
	JOIN users u ON u.id = r.user_id`

func scanIssuance(s scanner) (domain.Issuance, error) {
	var (
		rec                 domain.Issuance
		firstName, lastName string
		returnDate          sql.NullTime
		status              string
	)
	err := s.Scan(&rec.ID, &rec.ItemID, &rec.ItemName, &rec.UserID, &firstName, &lastName, &rec.UserEmail,
		&rec.QuantityIssued, &rec.IssuedDate, &returnDate, &status, &rec.Notes)
	rec.UserName = firstName + " " + lastName
	rec.IssuedDate = rec.IssuedDate.UTC()
	rec.ReturnDate = timeFrom(returnDate)
	rec.Status = domain.IssuanceStatus(status)
	return rec, err
}

func (r *repo) GetIssuance(ctx context.Context, id int64) (*domain.Issuance, error) {
	rec, err := scanIssuance(r.queryRow(ctx, selectIssuances+" WHERE r.id = ?", id))
	if isNoRows(err) {
		return nil, domain.ErrIssuanceNotFound
	}
	if err != nil {
		return nil, storeErr("get issuance", err)
	}
	return &rec, nil
}

// LockIssuance reads the bare record row without joined names.
func (r *repo) LockIssuance(ctx context.Context, id int64) (*domain.Issuance, error) {
	var (
		rec        domain.Issuance
		returnDate sql.NullTime
		status     string
	)
	err := r.queryRow(ctx, `
		SELECT id, item_id, user_id, quantity_issued, issued_date, return_date, status, notes
		FROM issuance_records WHERE id = ?`+r.forUpdate(), id,
	).Scan(&rec.ID, &rec.ItemID, &rec.UserID, &rec.QuantityIssued, &rec.IssuedDate, &returnDate, &status, &rec.Notes)
	if isNoRows(err) {
		return nil, domain.ErrIssuanceNotFound
	}
	if err != nil {
		return nil, storeErr("lock issuance", err)
	}

	rec.IssuedDate = rec.IssuedDate.UTC()
	rec.ReturnDate = timeFrom(returnDate)
	rec.Status = domain.IssuanceStatus(status)
	return &rec, nil
}

func (r *repo) CreateIssuance(ctx context.Context, rec *domain.Issuance) error {
	rec.IssuedDate = dbTime(rec.IssuedDate)
	if rec.ReturnDate != nil {
		t := dbTime(*rec.ReturnDate)
		rec.ReturnDate = &t
	}

	id, err := r.insert(ctx, `
		INSERT INTO issuance_records (item_id, user_id, quantity_issued, issued_date, return_date, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ItemID, rec.UserID, rec.QuantityIssued, rec.IssuedDate, dbTimePtr(rec.ReturnDate),
		string(rec.Status), rec.Notes,
	)
	if err != nil {
		return storeErr("insert issuance", err)
	}
	rec.ID = id
	return nil
}

func (r *repo) UpdateIssuance(ctx context.Context, rec *domain.Issuance) error {
	if rec.ReturnDate != nil {
		t := dbTime(*rec.ReturnDate)
		rec.ReturnDate = &t
	}

	result, err := r.exec(ctx, `
		UPDATE issuance_records SET return_date = ?, status = ?, notes = ? WHERE id = ?`,
		dbTimePtr(rec.ReturnDate), string(rec.Status), rec.Notes, rec.ID,
	)
	if err != nil {
		return storeErr("update issuance", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("update issuance", err)
	}
	if rows == 0 {
		found, err := r.exists(ctx, "update issuance", `SELECT COUNT(*) FROM issuance_records WHERE id = ?`, rec.ID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrIssuanceNotFound
		}
	}
	return nil
}
