package sqlite

import (
	"context"
	"time"

	"github.com/parishtools/flock/internal/membership/domain"
	"github.com/parishtools/flock/internal/membership/store"
)

type profilesRepo struct {
	q querier
}

const profileColumns = `id, email, display_name, role, group_name, active, created_at, updated_at`

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id = ?`, id)
	return scanProfile(row)
}

func (r *profilesRepo) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE email = ?`, email)
	return scanProfile(row)
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO profiles (id, email, display_name, role, group_name, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.DisplayName, string(p.Role), p.Group,
		p.Active, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *profilesRepo) UpdateProfile(ctx context.Context, p domain.Profile) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE profiles
		SET email = ?, display_name = ?, role = ?, group_name = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		p.Email, p.DisplayName, string(p.Role), p.Group, p.Active, time.Now().UTC(), p.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *profilesRepo) SetProfileActive(ctx context.Context, id string, active bool) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE profiles
		SET active = ?, updated_at = ?
		WHERE id = ?`,
		active, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *profilesRepo) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		ORDER BY display_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *profilesRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func scanProfile(row rowScanner) (domain.Profile, error) {
	var (
		p    domain.Profile
		role string
	)

	err := row.Scan(
		&p.ID, &p.Email, &p.DisplayName, &role, &p.Group,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.Profile{}, err
	}
	p.Role = parsed

	return p, nil
}
