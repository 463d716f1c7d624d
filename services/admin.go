package services

import (
	"context"
	"errors"
	"strings"

	"CareDesk/models"
	"CareDesk/util"

	"github.com/rs/zerolog/log"
)

// CreateAdmin seeds an administrator account. The HTTP API never assigns
// role admin, so this is only reachable from the command line.
func (s *AuthService) CreateAdmin(ctx context.Context, req models.CreateAdminRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := util.NormalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, util.BadRequest(util.NAME_EMAIL_PASSWORD_NEEDED)
	}
	if len(req.Password) < minPasswordLength {
		return nil, util.BadRequest(util.PASSWORD_TOO_SHORT)
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, util.Internal(util.GENERIC_ERROR, err)
	}
	admin := &models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     util.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, util.ErrEmailExists) {
			return nil, err
		}
		return nil, util.Internal(util.GENERIC_ERROR, err)
	}
	log.Info().Str("userId", admin.ID.Hex()).Msg("admin created")
	return admin, nil
}
