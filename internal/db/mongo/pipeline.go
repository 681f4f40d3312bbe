package mongo

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kailas-cloud/vecagent/internal/db"
)

func knnPipeline(q *db.KNNQuery) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$search", Value: bson.D{
			{Key: "cosmosSearch", Value: bson.D{
				{Key: "vector", Value: q.Vector},
				{Key: "path", Value: q.Field},
				{Key: "k", Value: q.K},
			}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "searchScore"}}},
			{Key: "document", Value: "$$ROOT"},
		}}},
	}
}

func vectorIndexCommand(collection string, def *db.VectorIndexDefinition) (bson.D, error) {
	opts, err := cosmosSearchOptions(def)
	if err != nil {
		return nil, err
	}
	return bson.D{
		{Key: "createIndexes", Value: collection},
		{Key: "indexes", Value: bson.A{
			bson.D{
				{Key: "name", Value: def.Name},
				{Key: "key", Value: bson.D{{Key: def.Field, Value: "cosmosSearch"}}},
				{Key: "cosmosSearchOptions", Value: opts},
			},
		}},
	}, nil
}

func cosmosSearchOptions(def *db.VectorIndexDefinition) (bson.D, error) {
	opts := bson.D{{Key: "kind", Value: def.Kind}}
	switch def.Kind {
	case "vector-ivf":
		opts = append(opts, bson.E{Key: "numLists", Value: def.NumLists})
	case "vector-hnsw":
		opts = append(opts,
			bson.E{Key: "m", Value: def.M},
			bson.E{Key: "efConstruction", Value: def.EFConstruction},
		)
	case "vector-diskann":
		opts = append(opts,
			bson.E{Key: "maxDegree", Value: def.MaxDegree},
			bson.E{Key: "lBuild", Value: def.LBuild},
		)
	default:
		return nil, fmt.Errorf("unsupported index kind %q: %w", def.Kind, db.ErrInvalidConfig)
	}
	return append(opts,
		bson.E{Key: "dimensions", Value: def.Dimensions},
		bson.E{Key: "similarity", Value: def.Similarity},
	), nil
}
