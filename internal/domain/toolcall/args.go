package toolcall

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/vecagent/internal/domain"
)

// SearchToolName is the single function the planner is allowed to call.
const SearchToolName = "search_hotels_collection"

// SearchArgs are the decoded arguments of a search tool call.
// A zero NearestNeighbors means the model omitted it.
type SearchArgs struct {
	Query            string `json:"query" validate:"required"`
	NearestNeighbors int    `json:"nearestNeighbors" validate:"omitempty,min=1,max=20"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses raw JSON tool arguments into SearchArgs.
// Any decode or validation failure wraps domain.ErrMalformedToolArguments.
func Decode(raw string) (SearchArgs, error) {
	var args SearchArgs
	if strings.TrimSpace(raw) == "" {
		return args, fmt.Errorf("empty arguments: %w", domain.ErrMalformedToolArguments)
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return SearchArgs{}, fmt.Errorf("decode %q: %v: %w", raw, err, domain.ErrMalformedToolArguments)
	}
	args.Query = strings.TrimSpace(args.Query)
	if err := validate.Struct(args); err != nil {
		return SearchArgs{}, fmt.Errorf("validate %q: %v: %w", raw, err, domain.ErrMalformedToolArguments)
	}
	return args, nil
}

// ResolveK returns the neighbor count the model asked for, or fallback when it did not ask.
func (a SearchArgs) ResolveK(fallback int) int {
	if a.NearestNeighbors > 0 {
		return a.NearestNeighbors
	}
	return fallback
}

// Encode renders the arguments as the JSON object a tool call carries.
func (a SearchArgs) Encode() (string, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode arguments: %v: %w", err, domain.ErrMalformedToolArguments)
	}
	return string(raw), nil
}
