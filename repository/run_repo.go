package repository

import (
	"context"
	"log"

	"github.com/tieubaoca/docinsight-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type RunRepo interface {
	CreateRun(ctx context.Context, run *types.AnalysisRun) error
	GetRun(ctx context.Context, id string) (*types.AnalysisRun, error)
	ListRuns(ctx context.Context, status []string, createdFrom int64, limit, offset int) ([]*types.AnalysisRun, error)
	UpdateRun(ctx context.Context, run *types.AnalysisRun) error
	DeleteRun(ctx context.Context, id string) error
}

type runRepo struct {
	collection *mongo.Collection
}

func NewRunRepo(db *mongo.Database) RunRepo {
	// check if collection does not exist, create one
	collectionNames, err := db.ListCollectionNames(context.Background(), bson.D{})
	if err != nil {
		panic(err)
	}
	collectionExists := false
	for _, name := range collectionNames {
		if name == "runs" {
			collectionExists = true
			break
		}
	}
	collection := db.Collection("runs")
	if !collectionExists {
		indexes := []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "status", Value: 1},
				},
			},
			{
				Keys: bson.D{
					{Key: "created_at", Value: -1},
				},
			},
		}

		_, err = collection.Indexes().CreateMany(context.Background(), indexes)
		if err != nil {
			log.Printf("Error creating indexes: %v", err)
			return nil
		}
	}

	return &runRepo{
		collection: collection,
	}
}

func (r *runRepo) CreateRun(ctx context.Context, run *types.AnalysisRun) error {
	_, err := r.collection.InsertOne(ctx, run)
	return err
}

func (r *runRepo) GetRun(ctx context.Context, id string) (*types.AnalysisRun, error) {
	var run types.AnalysisRun
	err := r.collection.FindOne(ctx, map[string]string{"_id": id}).Decode(&run)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *runRepo) ListRuns(ctx context.Context, status []string, createdFrom int64, limit, offset int) ([]*types.AnalysisRun, error) {
	filter := make(map[string]interface{})
	if len(status) > 0 {
		filter["status"] = map[string]interface{}{"$in": status}
	}
	if createdFrom > 0 {
		filter["created_at"] = map[string]interface{}{"$gte": createdFrom}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts = opts.SetSkip(int64(offset))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []*types.AnalysisRun
	for cursor.Next(ctx) {
		var run types.AnalysisRun
		if err := cursor.Decode(&run); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, nil
}

func (r *runRepo) UpdateRun(ctx context.Context, run *types.AnalysisRun) error {
	_, err := r.collection.ReplaceOne(ctx, map[string]string{"_id": run.ID}, run)
	return err
}

func (r *runRepo) DeleteRun(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, map[string]string{"_id": id})
	return err
}
