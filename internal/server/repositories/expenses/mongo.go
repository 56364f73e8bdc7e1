package expenses

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/thecloudydeveloper/expense-tracker/internal/common"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/models"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/shared/db"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: database.Collection(db.ExpensesCollection)}
}

func (r *MongoRepository) Insert(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	res, err := r.collection.InsertOne(ctx, expense)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		expense.ID = id
	}
	return expense, nil
}

func (r *MongoRepository) InsertMany(ctx context.Context, batch []models.Expense) ([]models.Expense, error) {
	docs := make([]interface{}, len(batch))
	for i := range batch {
		docs[i] = batch[i]
	}

	res, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for i, insertedID := range res.InsertedIDs {
		if id, ok := insertedID.(primitive.ObjectID); ok {
			batch[i].ID = id
		}
	}
	return batch, nil
}

func (r *MongoRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Expense, error) {
	if len(ids) == 0 {
		return []models.Expense{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cursor.Close(ctx)

	results := []models.Expense{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return results, nil
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

func (r *MongoRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
