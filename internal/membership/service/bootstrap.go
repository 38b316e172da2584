package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/parishtools/flock/internal/membership/domain"
	"github.com/parishtools/flock/internal/membership/store"
	"github.com/parishtools/flock/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("membership already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("invalid bootstrap token")
)

// BootstrapService creates the very first admin profile. Every other
// profile enters through an invitation, but someone has to mint the first
// invitation; that someone is created here, guarded by a deploy-time
// shared secret.
type BootstrapService struct {
	Store store.Store

	// Token is the deploy-time bootstrap secret. Empty disables
	// bootstrapping entirely.
	Token string
}

// Bootstrap creates the initial admin. It only succeeds while the profile
// table is empty, so it cannot be replayed after the first admin exists.
func (s *BootstrapService) Bootstrap(
	ctx context.Context,
	token string,
	id string,
	email string,
	displayName string,
) (domain.Profile, error) {
	log := slogx.FromContext(ctx)

	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		log.Warn("bootstrap attempted with invalid token")
		return domain.Profile{}, ErrBootstrapUnauthorized
	}

	if id == "" || email == "" {
		return domain.Profile{}, ErrInvalidInvitationRequest
	}

	now := time.Now().UTC()
	admin := domain.Profile{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		Role:        domain.RoleAdmin,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The emptiness check and the insert share a transaction so two
	// concurrent bootstrap calls cannot both succeed.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Profiles().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		return tx.Profiles().CreateProfile(ctx, admin)
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			log.Warn("bootstrap attempted after initial admin exists")
			return domain.Profile{}, ErrBootstrapAlready
		}
		log.Error("bootstrap failed", slog.Any("error", err))
		return domain.Profile{}, err
	}

	log.Info("initial admin created",
		slog.String("profile_id", admin.ID),
		slog.String("email", admin.Email),
	)
	return admin, nil
}
