// Package vecagent provides a Go client for the vecagent HTTP API.
//
//	client, _ := vecagent.New("http://localhost:8080", vecagent.WithAPIKey(key))
//	rec, err := client.Recommend(ctx, "quiet hotel near trails", 3)
//	if errors.Is(err, vecagent.ErrRateLimited) {
//	    // back off
//	}
//	fmt.Println(rec.Answer)
//
// Empty query and zero k use the server's configured defaults.
package vecagent
