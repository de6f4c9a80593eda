package migrations

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sinag/internal/constants"
)

// EnsureEvaluationIndexes creates the indexes the evaluation result store
// queries by. The collection itself is created on first insert.
func EnsureEvaluationIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection(constants.EvaluationResultsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "submission_id", Value: 1}, {Key: "indicator_code", Value: 1}},
			Options: options.Index().SetName("idx_evaluation_results_submission_indicator").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "indicator_code", Value: 1}, {Key: "evaluated_at", Value: -1}},
			Options: options.Index().SetName("idx_evaluation_results_indicator_evaluated_at"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_evaluation_results_status"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	return nil
}
