package search

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/tools"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/chat"
	"github.com/kailas-cloud/vecagent/internal/domain/search/result"
	"github.com/kailas-cloud/vecagent/internal/domain/toolcall"
	"github.com/kailas-cloud/vecagent/internal/logger"
	"github.com/kailas-cloud/vecagent/internal/metrics"
)

const toolDescription = `REQUIRED TOOL. Call it for every hotel search, recommendation or lookup; it is the only access to the hotel database.

Runs a semantic vector similarity search over the hotels collection in Azure DocumentDB and returns matches ranked by score, with name, description, category, tags, rating, address and parking details.

Arguments:
- query (string, required): a specific natural language description of the hotel wanted, for example "budget hotel near downtown with free parking and wifi" rather than "hotel".
- nearestNeighbors (integer, required): how many hotels to return, between 1 and 20. Prefer 3 to 5 for narrow requests and 10 to 15 for broad ones.

Never answer a hotel question without calling this tool first.`

var _ tools.Tool = (*Tool)(nil)

// Tool binds a natural language query to the embedding provider and the vector store.
// It also satisfies the langchaingo tools.Tool interface.
type Tool struct {
	repo     Repository
	embed    Embedder
	defaultK int
	logger   *zap.Logger
}

// NewTool creates the search tool. defaultK is used when a call omits nearestNeighbors.
func NewTool(repo Repository, embed Embedder, defaultK int, logger *zap.Logger) *Tool {
	if defaultK <= 0 {
		defaultK = domain.DefaultNearestNeighbors
	}
	return &Tool{repo: repo, embed: embed, defaultK: defaultK, logger: logger}
}

// Search embeds query and returns up to k hits, best first.
func (t *Tool) Search(ctx context.Context, query string, k int) ([]result.Result, error) {
	emb, err := t.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("generate embedding: %w", err)
	}
	if len(emb.Embedding) == 0 {
		return nil, fmt.Errorf("generate embedding: empty vector: %w", domain.ErrEmbeddingProviderError)
	}

	results, err := t.repo.VectorSearch(ctx, emb.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	metrics.VectorSearchResults.Observe(float64(len(results)))
	return results, nil
}

// Execute runs the search and formats the hits. Failures come back as a
// readable message instead of an error, because tool output always goes to the model.
func (t *Tool) Execute(ctx context.Context, query string, k int) string {
	log := logger.FromContextOr(ctx, t.logger)

	results, err := t.Search(ctx, query, k)
	if err != nil {
		log.Error("Search tool failed",
			zap.String("query", query),
			zap.Int("k", k),
			zap.Error(err),
		)
		return "Search failed: " + err.Error()
	}

	for i, r := range results {
		log.Info("Search hit",
			zap.Int("rank", i+1),
			zap.String("hotel", r.Name()),
			zap.Float64("score", r.Score()),
		)
	}
	if len(results) == 0 {
		return "No hotels matched the query."
	}
	return FormatResults(results)
}

// Definition describes the tool for a chat completion request.
func (t *Tool) Definition() chat.ToolDefinition {
	return chat.ToolDefinition{
		Name:        toolcall.SearchToolName,
		Description: toolDescription,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Natural language description of the desired hotel characteristics",
				},
				"nearestNeighbors": map[string]any{
					"type":        "integer",
					"description": "Number of results to return (1-20)",
					"default":     domain.DefaultNearestNeighbors,
					"minimum":     domain.MinNearestNeighbors,
					"maximum":     domain.MaxNearestNeighbors,
				},
			},
			"required": []string{"query", "nearestNeighbors"},
		},
	}
}

// Name implements tools.Tool.
func (t *Tool) Name() string { return toolcall.SearchToolName }

// Description implements tools.Tool.
func (t *Tool) Description() string { return toolDescription }

// Call implements tools.Tool. input is the JSON argument object the model sends.
// Malformed arguments are returned as an error; search failures are not.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	args, err := toolcall.Decode(input)
	if err != nil {
		return "", err //nolint:wrapcheck // already wraps domain.ErrMalformedToolArguments
	}
	return t.Execute(ctx, args.Query, args.ResolveK(t.defaultK)), nil
}
