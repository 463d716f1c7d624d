package repository

import (
	"context"
	"time"

	"CareDesk/config/db"
	"CareDesk/models"
	"CareDesk/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepository(database *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.OpenCollections(database, util.UserCollection), now: time.Now}
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	user := &models.User{}
	if err := db.FindOne(ctx, r.coll, filter, user); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

/*
* Stamp createdAt/updatedAt and insert
* A duplicate key on the unique email index is reported as EMAIL_EXISTS
 */
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := r.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	id, err := db.CreateOne(ctx, r.coll, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return util.ErrEmailExists
		}
		return err
	}
	user.ID = id
	return nil
}

func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error) {
	set := bson.M{"updatedAt": r.now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	user := &models.User{}
	err := db.FindOneAndUpdate(ctx, r.coll, bson.M{"_id": id}, bson.M{"$set": set}, user)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListByRole returns users of a role, newest first.
func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return db.FindAll[models.User](ctx, r.coll, bson.M{"role": role}, opts)
}

func (r *UserRepository) ListDoctorSummaries(ctx context.Context) ([]models.DoctorSummary, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "name": 1, "email": 1, "specialty": 1, "phoneNumber": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})
	return db.FindAll[models.DoctorSummary](ctx, r.coll, bson.M{"role": util.RoleDoctor}, opts)
}

// DeleteByIDAndRole removes the user only when it holds role.
func (r *UserRepository) DeleteByIDAndRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	user := &models.User{}
	err := db.FindOneAndDelete(ctx, r.coll, bson.M{"_id": id, "role": role}, user)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
