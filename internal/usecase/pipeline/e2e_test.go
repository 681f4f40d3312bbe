package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/chat"
	"github.com/kailas-cloud/vecagent/internal/domain/hotel"
	"github.com/kailas-cloud/vecagent/internal/domain/search/result"
	"github.com/kailas-cloud/vecagent/internal/domain/toolcall"
	"github.com/kailas-cloud/vecagent/internal/usecase/agent"
	"github.com/kailas-cloud/vecagent/internal/usecase/search"
)

// fakeModel answers planner calls (tools attached) with a search tool call and
// synthesizer calls by recommending the first hotel named in the tool summary.
type fakeModel struct {
	refined      string
	plannerCalls int
	synthPrompt  string
}

func (m *fakeModel) Complete(_ context.Context, req chat.Request) (chat.Response, error) {
	if len(req.Tools) > 0 {
		m.plannerCalls++
		return chat.Response{
			Choices:      1,
			FinishReason: chat.FinishToolCalls,
			ToolCalls: []chat.ToolCall{{
				ID:        "call_1",
				Type:      "function",
				Name:      toolcall.SearchToolName,
				Arguments: fmt.Sprintf(`{"query":%q}`, m.refined),
			}},
			Usage: chat.Usage{TotalTokens: 120},
		}, nil
	}

	m.synthPrompt = req.Messages[len(req.Messages)-1].Content
	var names []string
	for _, line := range strings.Split(m.synthPrompt, "\n") {
		if name, ok := strings.CutPrefix(line, "HotelName: "); ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return chat.Response{Choices: 1, Content: "No hotels matched.", FinishReason: chat.FinishStop}, nil
	}
	answer := "1. COMPARISON SUMMARY: " + strings.Join(names, ", ") + " differ mostly on price.\n" +
		"2. BEST OVERALL: • " + names[0] + " is the cheapest option close to downtown.\n" +
		"3. ALTERNATIVE PICKS: • " + names[len(names)-1] + " if parking matters more."
	return chat.Response{Choices: 1, Content: answer, FinishReason: chat.FinishStop, Usage: chat.Usage{TotalTokens: 80}}, nil
}

type fakeEmbedder struct{ gotText string }

func (e *fakeEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.gotText = text
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}, TotalTokens: 9}, nil
}

type fakeHotelRepo struct {
	hotels []hotel.Hotel
	gotK   int
}

func (r *fakeHotelRepo) VectorSearch(_ context.Context, _ []float32, k int) ([]result.Result, error) {
	r.gotK = k
	n := min(k, len(r.hotels))
	out := make([]result.Result, 0, n)
	for i := range n {
		out = append(out, result.New(r.hotels[i], 0.9-float64(i)*0.05))
	}
	return out, nil
}

func TestRun_EndToEnd(t *testing.T) {
	repo := &fakeHotelRepo{}
	for i, name := range []string{"Budget Inn Downtown", "City Saver Hotel", "Metro Lodge", "Old Town Rooms", "Harbor Hostel", "Riverside Motel", "Uptown Suites"} {
		repo.hotels = append(repo.hotels, hotel.Hotel{
			ID:          fmt.Sprint(i + 1),
			Name:        name,
			Description: "Affordable rooms a short walk from downtown.",
			Category:    "Budget",
			Tags:        []string{"wifi", "free breakfast"},
			Rating:      3.5,
			Address:     hotel.Address{City: "Seattle", Country: "USA"},
		})
	}
	emb := &fakeEmbedder{}
	model := &fakeModel{refined: "affordable budget hotel close to downtown city center"}

	tool := search.NewTool(repo, emb, 10, zap.NewNop())
	svc := New(
		agent.NewPlanner(model, tool, "planner", zap.NewNop()),
		agent.NewSynthesizer(model, "synthesizer", zap.NewNop()),
		"", 5, zap.NewNop(),
	)

	const userQuery = "cheap hotel near downtown"
	ans, err := svc.Run(context.Background(), userQuery, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if model.plannerCalls != 1 {
		t.Errorf("expected one planner call, got %d", model.plannerCalls)
	}
	if ans.SearchQuery == userQuery || emb.gotText != ans.SearchQuery {
		t.Errorf("search must run on a refined query, got %q (embedded %q)", ans.SearchQuery, emb.gotText)
	}
	if repo.gotK < domain.MinNearestNeighbors || repo.gotK > domain.MaxNearestNeighbors {
		t.Errorf("k outside bounds: %d", repo.gotK)
	}
	if repo.gotK != 5 {
		t.Errorf("omitted nearestNeighbors must fall back to the requested 5, got %d", repo.gotK)
	}

	records := search.CountBlocks(ans.ToolOutput)
	if records != repo.gotK || records > 5 {
		t.Errorf("tool output has %d records, repository returned %d", records, repo.gotK)
	}
	if got := search.CountBlocks(model.synthPrompt); got != 3 {
		t.Errorf("synthesizer must see 3 record blocks, got %d", got)
	}

	if ans.FinalAnswer == "" || len(strings.Fields(ans.FinalAnswer)) >= 220 {
		t.Errorf("answer must be short plain text, got %q", ans.FinalAnswer)
	}
	named := false
	for _, h := range repo.hotels {
		if strings.Contains(ans.FinalAnswer, h.Name) && strings.Contains(ans.ToolOutput, "HotelName: "+h.Name) {
			named = true
			break
		}
	}
	if !named {
		t.Errorf("answer must name a hotel from the tool output: %q", ans.FinalAnswer)
	}
	if strings.Contains(ans.FinalAnswer, "Uptown Suites") {
		t.Error("answer must only draw on records the synthesizer was shown")
	}

	if ans.Usage.PlannerTokens != 120 || ans.Usage.SynthesizerTokens != 80 {
		t.Errorf("unexpected usage: %+v", ans.Usage)
	}
}
