package mongo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kailas-cloud/vecagent/internal/db"
)

func lookup(d bson.D, key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func TestKNNPipeline(t *testing.T) {
	q := &db.KNNQuery{Field: "DescriptionVector", Vector: []float32{0.1, 0.2}, K: 3}
	p := knnPipeline(q)

	if len(p) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(p))
	}
	search, ok := lookup(p[0], "$search")
	if !ok {
		t.Fatal("first stage must be $search")
	}
	cosmos, ok := lookup(search.(bson.D), "cosmosSearch")
	if !ok {
		t.Fatal("missing cosmosSearch")
	}
	if path, _ := lookup(cosmos.(bson.D), "path"); path != "DescriptionVector" {
		t.Errorf("path = %v", path)
	}
	if k, _ := lookup(cosmos.(bson.D), "k"); k != 3 {
		t.Errorf("k = %v", k)
	}

	project, ok := lookup(p[1], "$project")
	if !ok {
		t.Fatal("second stage must be $project")
	}
	if doc, _ := lookup(project.(bson.D), "document"); doc != "$$ROOT" {
		t.Errorf("document projection = %v", doc)
	}
}

func TestCosmosSearchOptions(t *testing.T) {
	base := db.VectorIndexDefinition{
		Name: "vectorIndex", Field: "DescriptionVector", Dimensions: 1536, Similarity: "COS",
		NumLists: 10, M: 16, EFConstruction: 64, MaxDegree: 20, LBuild: 10,
	}
	tests := []struct {
		kind string
		keys []string
		skip []string
	}{
		{"vector-ivf", []string{"numLists"}, []string{"m", "maxDegree"}},
		{"vector-hnsw", []string{"m", "efConstruction"}, []string{"numLists", "lBuild"}},
		{"vector-diskann", []string{"maxDegree", "lBuild"}, []string{"numLists", "m"}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			def := base
			def.Kind = tt.kind
			opts, err := cosmosSearchOptions(&def)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if kind, _ := lookup(opts, "kind"); kind != tt.kind {
				t.Errorf("kind = %v", kind)
			}
			for _, k := range append(tt.keys, "dimensions", "similarity") {
				if _, ok := lookup(opts, k); !ok {
					t.Errorf("missing %s", k)
				}
			}
			for _, k := range tt.skip {
				if _, ok := lookup(opts, k); ok {
					t.Errorf("unexpected %s for %s", k, tt.kind)
				}
			}
		})
	}
}

func TestVectorIndexCommand(t *testing.T) {
	def := &db.VectorIndexDefinition{
		Name: "vectorIndex", Field: "DescriptionVector", Kind: "vector-ivf",
		Dimensions: 1536, Similarity: "COS", NumLists: 10,
	}
	cmd, err := vectorIndexCommand("hotels", def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd[0].Key != "createIndexes" || cmd[0].Value != "hotels" {
		t.Errorf("command must start with createIndexes: %v", cmd[0])
	}
	indexes, _ := lookup(cmd, "indexes")
	spec := indexes.(bson.A)[0].(bson.D)
	key, _ := lookup(spec, "key")
	if v, _ := lookup(key.(bson.D), "DescriptionVector"); v != "cosmosSearch" {
		t.Errorf("key = %v", key)
	}
}

func TestCosmosSearchOptions_Unsupported(t *testing.T) {
	_, err := cosmosSearchOptions(&db.VectorIndexDefinition{Kind: "vector-flat"})
	if !errors.Is(err, db.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
