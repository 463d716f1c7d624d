package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"CareDesk/config/redis"
	"CareDesk/models"
	"CareDesk/repository"
	"CareDesk/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const rosterTTL = 15 * time.Minute

type DoctorService struct {
	users UserStore
	cache redis.Cache
	// tokenTTL bounds how long a removed doctor's tokens stay revoked.
	tokenTTL time.Duration
}

func NewDoctorService(users UserStore, cache redis.Cache, tokenTTL time.Duration) *DoctorService {
	return &DoctorService{users: users, cache: cache, tokenTTL: tokenTTL}
}

/*
* Serve the public roster from cache when present
* On a miss load it from the db and fill the cache
 */
func (s *DoctorService) ListPublic(ctx context.Context) ([]models.DoctorSummary, error) {
	var cached []models.DoctorSummary
	found, err := s.cache.GetCache(ctx, util.PublicDoctorsKey, &cached)
	if err != nil {
		log.Warn().Err(err).Msg("read roster cache failed")
	}
	if found && err == nil {
		return cached, nil
	}
	doctors, err := s.RefreshRoster(ctx)
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

// RefreshRoster reloads the public roster and writes it to the cache.
func (s *DoctorService) RefreshRoster(ctx context.Context) ([]models.DoctorSummary, error) {
	doctors, err := s.users.ListDoctorSummaries(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list doctors failed")
		return nil, util.Internal(util.GENERIC_ERROR, err)
	}
	if err := s.cache.SetCache(ctx, util.PublicDoctorsKey, doctors, rosterTTL); err != nil {
		log.Warn().Err(err).Msg("write roster cache failed")
	}
	return doctors, nil
}

func (s *DoctorService) InvalidateRoster(ctx context.Context) {
	if err := s.cache.DeleteCache(ctx, util.PublicDoctorsKey); err != nil {
		log.Warn().Err(err).Msg("invalidate roster cache failed")
	}
}

func (s *DoctorService) ListAll(ctx context.Context) ([]models.User, error) {
	doctors, err := s.users.ListByRole(ctx, util.RoleDoctor)
	if err != nil {
		log.Error().Err(err).Msg("list doctors failed")
		return nil, util.Internal("Failed to load doctors", err)
	}
	return doctors, nil
}

/*
* Name, email and password are required
* Reject a taken email, hash the password and save with role doctor
* Drop the cached roster so the booking form sees the new doctor
 */
func (s *DoctorService) Create(ctx context.Context, req models.CreateDoctorRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := util.NormalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, util.BadRequest(util.NAME_EMAIL_PASSWORD_NEEDED)
	}
	if len(req.Password) < minPasswordLength {
		return nil, util.BadRequest(util.PASSWORD_TOO_SHORT)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("doctor email lookup failed")
		return nil, util.Internal("Failed to add doctor", err)
	}
	if exists {
		return nil, util.ErrEmailExists
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("hash password failed")
		return nil, util.Internal("Failed to add doctor", err)
	}
	doctor := &models.User{
		Name:        name,
		Email:       email,
		Password:    hashed,
		Role:        util.RoleDoctor,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Specialty:   strings.TrimSpace(req.Specialty),
	}
	if err := s.users.Create(ctx, doctor); err != nil {
		if errors.Is(err, util.ErrEmailExists) {
			return nil, err
		}
		log.Error().Err(err).Msg("save doctor failed")
		return nil, util.Internal("Failed to add doctor", err)
	}
	s.InvalidateRoster(ctx)
	log.Info().Str("doctorId", doctor.ID.Hex()).Msg("doctor created")
	return doctor, nil
}

/*
* Parse the id, a malformed id cannot match any doctor
* Delete only when the record holds role doctor
* Revoke every token already issued to the doctor
* Drop the cached roster
 */
func (s *DoctorService) Delete(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, util.NotFound(util.DOCTOR_NOT_FOUND)
	}
	doctor, err := s.users.DeleteByIDAndRole(ctx, oid, util.RoleDoctor)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NotFound(util.DOCTOR_NOT_FOUND)
		}
		log.Error().Err(err).Msg("delete doctor failed")
		return nil, util.Internal("Failed to delete doctor", err)
	}
	if err := s.cache.SetCache(ctx, util.RevokedUserKey+doctor.ID.Hex(), true, s.tokenTTL); err != nil {
		log.Error().Err(err).Str("doctorId", id).Msg("revoke doctor tokens failed")
	}
	s.InvalidateRoster(ctx)
	log.Info().Str("doctorId", id).Msg("doctor deleted")
	return doctor, nil
}
