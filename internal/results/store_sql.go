package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLStore persists records in the results table; works against sqlite
// and postgres through the drivers internal/db registers.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) Save(ctx context.Context, r Record) (Record, error) {
	strengths, err := json.Marshal(r.Strengths)
	if err != nil {
		return Record{}, err
	}
	weaknesses, err := json.Marshal(r.Weaknesses)
	if err != nil {
		return Record{}, err
	}
	recs, err := json.Marshal(r.Recommendations)
	if err != nil {
		return Record{}, err
	}
	r.SavedAt = time.Now().Unix()

	if s.driver == "postgres" {
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO results (full_name,email,phone,age_group,role,role_name,success_rate,strengths_json,weaknesses_json,recommendations_json,saved_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id`,
			r.FullName, r.Email, r.Phone, r.AgeGroup, r.Role, r.RoleName, r.SuccessRate,
			string(strengths), string(weaknesses), string(recs), r.SavedAt,
		).Scan(&r.ID)
		if err != nil {
			return Record{}, fmt.Errorf("insert result: %w", err)
		}
		return r, nil
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO results (full_name,email,phone,age_group,role,role_name,success_rate,strengths_json,weaknesses_json,recommendations_json,saved_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		r.FullName, r.Email, r.Phone, r.AgeGroup, r.Role, r.RoleName, r.SuccessRate,
		string(strengths), string(weaknesses), string(recs), r.SavedAt)
	if err != nil {
		return Record{}, fmt.Errorf("insert result: %w", err)
	}
	r.ID, _ = res.LastInsertId()
	return r, nil
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Record, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT id,full_name,email,phone,age_group,role,role_name,success_rate,strengths_json,weaknesses_json,recommendations_json,saved_at
	      FROM results`
	args := []interface{}{}
	if opts.Role != "" {
		q += ` WHERE role=$1`
		args = append(args, string(opts.Role))
	}
	q += fmt.Sprintf(` ORDER BY id DESC LIMIT %d OFFSET %d`, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var r Record
		var strengths, weaknesses, recs string
		if err := rows.Scan(&r.ID, &r.FullName, &r.Email, &r.Phone, &r.AgeGroup,
			&r.Role, &r.RoleName, &r.SuccessRate, &strengths, &weaknesses, &recs, &r.SavedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(strengths), &r.Strengths)
		_ = json.Unmarshal([]byte(weaknesses), &r.Weaknesses)
		_ = json.Unmarshal([]byte(recs), &r.Recommendations)
		out = append(out, r)
	}
	return out, rows.Err()
}
