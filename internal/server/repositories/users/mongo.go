package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thecloudydeveloper/expense-tracker/internal/common"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/models"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/shared/db"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: database.Collection(db.UsersCollection)}
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return user, nil
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	user := &models.User{}
	err := r.collection.FindOne(ctx, filter).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *MongoRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"password": passwordHash}})
}

func (r *MongoRepository) UpdateIncome(ctx context.Context, id primitive.ObjectID, income float64) (*models.User, error) {
	user := &models.User{}
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"income": income}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *MongoRepository) SetVerificationCode(ctx context.Context, id primitive.ObjectID, code string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"verificationCode": code}})
}

func (r *MongoRepository) ConfirmVerification(ctx context.Context, id primitive.ObjectID, code string) (bool, error) {
	// The pending code is part of the filter, so the update matches at most
	// once; a repeat call sees no pending code and matches nothing.
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "verificationCode": code},
		bson.M{
			"$set":   bson.M{"isVerified": true},
			"$unset": bson.M{"verificationCode": ""},
		},
	)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) AttachExpenses(ctx context.Context, id primitive.ObjectID, expenseIDs []primitive.ObjectID) error {
	return r.updateOne(ctx, id, bson.M{
		"$addToSet": bson.M{"expenses": bson.M{"$each": expenseIDs}},
	})
}

func (r *MongoRepository) DetachExpense(ctx context.Context, id, expenseID primitive.ObjectID) error {
	return r.updateOne(ctx, id, bson.M{
		"$pull": bson.M{"expenses": expenseID},
	})
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
