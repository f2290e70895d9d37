// Seeds a synthetic population dataset into the health_records
// collection so the comparator has something to aggregate in
// development environments.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"heartcheck/internal/cache"
	"heartcheck/internal/model"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "heartcheck"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	coll := client.Database(dbName).Collection("health_records")

	rng := rand.New(rand.NewSource(42))
	count := 500
	docs := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		gender := model.GenderFemale
		if rng.Intn(2) == 0 {
			gender = model.GenderMale
		}
		docs = append(docs, model.HistoryRecord{
			ID:          primitive.NewObjectID().Hex(),
			Gender:      gender,
			Age:         f(normal(rng, 48, 15, 18, 90)),
			SystolicBP:  f(normal(rng, 128, 18, 85, 210)),
			DiastolicBP: f(normal(rng, 79, 11, 50, 130)),
			Cholesterol: f(normal(rng, 195, 35, 110, 340)),
			HDL:         f(normal(rng, 52, 14, 22, 100)),
			BMI:         f(normal(rng, 26.8, 4.5, 16, 48)),
		})
	}

	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		log.Fatalf("Failed to insert records: %v", err)
	}
	fmt.Printf("Seeded %d health records into %s.health_records\n", len(res.InsertedIDs), dbName)

	// The cached population stats are stale now; drop them so the next
	// request recomputes from the fresh dataset.
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()
	if err := cache.NewStatsCache(rdb, 0).Invalidate(ctx); err != nil {
		log.Printf("Failed to invalidate stats cache: %v", err)
	} else {
		fmt.Println("Invalidated cached population stats")
	}
}

func f(v float64) *float64 { return &v }

// normal draws a clamped, rounded sample so the dataset looks like real
// survey data rather than a textbook distribution.
func normal(rng *rand.Rand, mean, stddev, lo, hi float64) float64 {
	v := rng.NormFloat64()*stddev + mean
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return float64(int(v*10)) / 10
}
