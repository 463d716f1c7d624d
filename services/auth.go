package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"CareDesk/config/jwt"
	"CareDesk/config/redis"
	"CareDesk/models"
	"CareDesk/repository"
	"CareDesk/util"

	"github.com/rs/zerolog/log"
)

type AuthService struct {
	users  UserStore
	tokens *jwt.Manager
	cache  redis.Cache
}

func NewAuthService(users UserStore, tokens *jwt.Manager, cache redis.Cache) *AuthService {
	return &AuthService{users: users, tokens: tokens, cache: cache}
}

/*
* Normalize the email and report whether an account already uses it
 */
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	email = util.NormalizeEmail(email)
	if email == "" {
		return false, util.BadRequest(util.EMAIL_REQUIRED)
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("checkEmail lookup failed")
		return false, util.Internal("Server error while checking email.", err)
	}
	return exists, nil
}

/*
* Validate required fields and reject a taken email
* Parse the optional date of birth
* Hash the password and save the user as a patient
* Issue a bearer token for the new account
 */
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	name := strings.TrimSpace(req.Name)
	email := util.NormalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, "", util.BadRequest(util.NAME_EMAIL_PASSWORD_NEEDED)
	}
	if len(req.Password) < minPasswordLength {
		return nil, "", util.BadRequest(util.PASSWORD_TOO_SHORT)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("register email lookup failed")
		return nil, "", util.Internal(util.GENERIC_ERROR, err)
	}
	if exists {
		return nil, "", util.ErrEmailExists
	}

	dob, err := util.ParseOptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, "", err
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("hash password failed")
		return nil, "", util.Internal(util.GENERIC_ERROR, err)
	}

	user := &models.User{
		Name:                  name,
		Email:                 email,
		Password:              hashed,
		Role:                  util.RolePatient,
		PhoneNumber:           strings.TrimSpace(req.PhoneNumber),
		DateOfBirth:           dob,
		Gender:                strings.TrimSpace(req.Gender),
		BloodType:             strings.TrimSpace(req.BloodType),
		HeightCm:              req.HeightCm.Value,
		WeightKg:              req.WeightKg.Value,
		StreetAddress:         strings.TrimSpace(req.StreetAddress),
		City:                  strings.TrimSpace(req.City),
		State:                 strings.TrimSpace(req.State),
		ZipCode:               strings.TrimSpace(req.ZipCode),
		EmergencyContactName:  strings.TrimSpace(req.EmergencyContactName),
		EmergencyContactPhone: strings.TrimSpace(req.EmergencyContactPhone),
		EmergencyRelationship: strings.TrimSpace(req.EmergencyRelationship),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, util.ErrEmailExists) {
			return nil, "", err
		}
		log.Error().Err(err).Msg("save user failed")
		return nil, "", util.Internal(util.GENERIC_ERROR, err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	log.Info().Str("userId", user.ID.Hex()).Msg("patient registered")
	return user, token, nil
}

/*
* Refuse early when the email already has too many failed attempts
* Fetch the user by email, 404 when unknown
* Verify the password and count the failure when it does not match
* Clear the counter and issue a token on success
 */
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	email := util.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, "", util.BadRequest(util.MISSING_REQUIRED_FIELDS)
	}

	if s.tooManyAttempts(ctx, email) {
		return nil, "", util.TooManyRequests(util.TOO_MANY_LOGIN_ATTEMPTS)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", util.NotFound(util.USER_NOT_FOUND + ".")
		}
		log.Error().Err(err).Msg("login lookup failed")
		return nil, "", util.Internal(util.GENERIC_ERROR, err)
	}

	if err := verifyPassword(user.Password, req.Password); err != nil {
		attempts := s.incrementLoginAttempts(ctx, email)
		log.Warn().Str("email", email).Int64("attempts", attempts).Msg("login failed")
		return nil, "", util.Unauthorized(util.AUTHENTICATION_FAILED)
	}
	s.resetLoginAttempts(ctx, email)

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

/*
* Revoke the token id until the token would have expired anyway
 */
func (s *AuthService) Logout(ctx context.Context, p models.Principal) error {
	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 || p.TokenID == "" {
		return nil
	}
	if err := s.cache.SetCache(ctx, util.RevokedTokenKey+p.TokenID, true, ttl); err != nil {
		log.Error().Err(err).Msg("token revocation failed")
		return util.Internal(util.GENERIC_ERROR, err)
	}
	return nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	token, _, err := s.tokens.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("token generation failed")
		return "", util.Internal(util.GENERIC_ERROR, err)
	}
	return token, nil
}

func attemptsKey(email string) string {
	return util.LoginAttemptsKey + email
}

// Cache failures never block a login.
func (s *AuthService) tooManyAttempts(ctx context.Context, email string) bool {
	var n int64
	found, err := s.cache.GetCache(ctx, attemptsKey(email), &n)
	if err != nil {
		log.Warn().Err(err).Msg("read login attempts failed")
		return false
	}
	return found && n >= util.MaxLoginAttempts
}

func (s *AuthService) incrementLoginAttempts(ctx context.Context, email string) int64 {
	n, err := s.cache.Incr(ctx, attemptsKey(email), util.LoginAttemptsSpan*time.Minute)
	if err != nil {
		log.Warn().Err(err).Msg("increment login attempts failed")
	}
	return n
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, email string) {
	if err := s.cache.DeleteCache(ctx, attemptsKey(email)); err != nil {
		log.Warn().Err(err).Msg("reset login attempts failed")
	}
}
