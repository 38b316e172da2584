package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/parishtools/flock/internal/membership/domain"
	"github.com/parishtools/flock/internal/membership/store"
)

type invitationsRepo struct {
	q querier
}

const invitationColumns = `id, token_hash, role, created_by, expires_at, active, used_by, used_at, created_at, updated_at`

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO invitations (id, token_hash, role, created_by, expires_at, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TokenHash, string(inv.Role), inv.CreatedBy,
		inv.ExpiresAt.UTC(), inv.Active, inv.CreatedAt.UTC(), inv.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations
		WHERE token_hash = ?`, hash)
	return scanInvitation(row)
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations
		WHERE id = ?`, id)
	return scanInvitation(row)
}

// MarkInvitationUsed is the single concurrency-sensitive write in the
// schema. The WHERE clause doubles as a compare-and-swap on used_by: when
// two redemptions race, exactly one UPDATE matches and the loser observes
// zero affected rows.
func (r *invitationsRepo) MarkInvitationUsed(ctx context.Context, id, usedBy string, usedAt time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations
		SET used_by = ?, used_at = ?, updated_at = ?
		WHERE id = ? AND used_by IS NULL`,
		usedBy, usedAt.UTC(), usedAt.UTC(), id,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrAlreadyUsed
	}
	return nil
}

func (r *invitationsRepo) SetInvitationActive(ctx context.Context, id string, active bool) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations
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

func (r *invitationsRepo) ListInvitationsByCreator(ctx context.Context, createdBy string) ([]domain.Invitation, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations
		WHERE created_by = ?
		ORDER BY created_at DESC`, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvitations(rows)
}

func (r *invitationsRepo) ListInvitations(ctx context.Context) ([]domain.Invitation, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvitations(rows)
}

func (r *invitationsRepo) DeleteInvitationsExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM invitations
		WHERE expires_at < ? AND used_by IS NULL`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var (
		inv    domain.Invitation
		role   string
		usedBy sql.NullString
		usedAt sql.NullTime
	)

	err := row.Scan(
		&inv.ID, &inv.TokenHash, &role, &inv.CreatedBy, &inv.ExpiresAt,
		&inv.Active, &usedBy, &usedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.Invitation{}, err
	}
	inv.Role = parsed

	inv.UsedBy = mapNullString(usedBy)
	if usedAt.Valid {
		at := usedAt.Time
		inv.UsedAt = &at
	}
	return inv, nil
}

func collectInvitations(rows *sql.Rows) ([]domain.Invitation, error) {
	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
