package services

import (
	"context"
	"errors"

	"CareDesk/models"
	"CareDesk/repository"
	"CareDesk/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileFields is the allow-list for profile edits. Email, password and
// role never change through this path.
var ProfileFields = []string{
	"phoneNumber",
	"dateOfBirth",
	"gender",
	"bloodType",
	"heightCm",
	"weightKg",
	"streetAddress",
	"city",
	"state",
	"zipCode",
	"emergencyContactName",
	"emergencyContactPhone",
	"emergencyRelationship",
	"specialty",
}

// rosterFields are the profile fields shown in the public doctor roster.
var rosterFields = map[string]bool{"phoneNumber": true, "specialty": true}

type UserService struct {
	users   UserStore
	doctors *DoctorService
}

func NewUserService(users UserStore, doctors *DoctorService) *UserService {
	return &UserService{users: users, doctors: doctors}
}

func canAccessUser(p models.Principal, id string) bool {
	return p.Is(util.RoleAdmin) || p.UserID == id
}

func (s *UserService) GetProfile(ctx context.Context, p models.Principal, id string) (*models.User, error) {
	if !canAccessUser(p, id) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, util.NotFound(util.USER_NOT_FOUND)
	}
	user, err := s.users.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NotFound(util.USER_NOT_FOUND)
		}
		log.Error().Err(err).Msg("fetch user failed")
		return nil, util.Internal(util.GENERIC_ERROR, err)
	}
	return user, nil
}

/*
* Pick only allow-listed keys out of the payload
* Dates and numbers are parsed, everything else must be a string
 */
func buildProfileUpdate(data map[string]interface{}) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	for _, f := range ProfileFields {
		raw, ok := data[f]
		if !ok {
			continue
		}
		switch f {
		case "dateOfBirth":
			s, err := util.StringValue(raw)
			if err != nil {
				return nil, util.BadRequest(util.INVALID_DATE)
			}
			dob, err := util.ParseOptionalDate(s)
			if err != nil {
				return nil, err
			}
			fields[f] = dob
		case "heightCm", "weightKg":
			v, err := util.ToFloat(raw)
			if err != nil {
				return nil, err
			}
			fields[f] = v
		default:
			s, err := util.StringValue(raw)
			if err != nil {
				return nil, util.BadRequest(f + " must be a string")
			}
			fields[f] = s
		}
	}
	return fields, nil
}

/*
* Only the owner or an admin may edit a profile
* Build the $set from the allow-list
* Write and return the updated record
* Drop the cached roster when a doctor's public fields changed
 */
func (s *UserService) UpdateProfile(ctx context.Context, p models.Principal, id string, data map[string]interface{}) (*models.User, error) {
	if !canAccessUser(p, id) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, util.NotFound(util.USER_NOT_FOUND)
	}
	fields, err := buildProfileUpdate(data)
	if err != nil {
		return nil, err
	}

	var user *models.User
	if len(fields) == 0 {
		user, err = s.users.FindByID(ctx, oid)
	} else {
		user, err = s.users.Update(ctx, oid, fields)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NotFound(util.USER_NOT_FOUND)
		}
		log.Error().Err(err).Msg("update user failed")
		return nil, util.Internal(util.GENERIC_ERROR, err)
	}

	if user.Role == util.RoleDoctor && s.doctors != nil {
		for f := range fields {
			if rosterFields[f] {
				s.doctors.InvalidateRoster(ctx)
				break
			}
		}
	}
	return user, nil
}
