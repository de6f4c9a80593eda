package assessment

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sinag/internal/config"
	"sinag/internal/constants"
	"sinag/pkg/circuitbreaker"
	"sinag/pkg/metrics"
)

// ResultStore persists evaluation results.
type ResultStore interface {
	SaveResult(ctx context.Context, result *EvaluationResult) error
	GetResults(ctx context.Context, submissionID string) ([]EvaluationResult, error)
}

// MongoResultStore keeps one document per submission and indicator; saving
// again replaces the earlier result.
type MongoResultStore struct {
	collection *mongo.Collection
	cb         *circuitbreaker.Wrapper
}

func NewResultStore(db *mongo.Database, cbCfg config.CircuitBreakerConfig) *MongoResultStore {
	return &MongoResultStore{
		collection: db.Collection(constants.EvaluationResultsCollection),
		cb:         circuitbreaker.FromConfig("mongodb-results", cbCfg),
	}
}

func (s *MongoResultStore) SaveResult(ctx context.Context, result *EvaluationResult) error {
	start := time.Now()
	_, err := circuitbreaker.Call(ctx, s.cb, func() (*mongo.UpdateResult, error) {
		filter := bson.M{
			"submission_id":  result.SubmissionID,
			"indicator_code": result.IndicatorCode,
		}
		return s.collection.ReplaceOne(ctx, filter, result, options.Replace().SetUpsert(true))
	})
	observe("save_result", start, err)
	if err != nil {
		return fmt.Errorf("failed to save evaluation result: %w", err)
	}
	return nil
}

func (s *MongoResultStore) GetResults(ctx context.Context, submissionID string) ([]EvaluationResult, error) {
	start := time.Now()
	results, err := circuitbreaker.Call(ctx, s.cb, func() ([]EvaluationResult, error) {
		opts := options.Find().SetSort(bson.D{{Key: "indicator_code", Value: 1}})
		cursor, err := s.collection.Find(ctx, bson.M{"submission_id": submissionID}, opts)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var results []EvaluationResult
		if err := cursor.All(ctx, &results); err != nil {
			return nil, err
		}
		return results, nil
	})
	observe("get_results", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to find evaluation results: %w", err)
	}
	return results, nil
}

// State reports the result store's circuit breaker state.
func (s *MongoResultStore) State() string {
	return s.cb.StateName()
}

func observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.IncDatabaseQuery("validation", "mongodb", operation, status)
	metrics.ObserveDatabaseQueryDuration("validation", "mongodb", operation, time.Since(start))
}
