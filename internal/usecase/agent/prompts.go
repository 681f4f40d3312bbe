package agent

import "fmt"

const plannerSystemPrompt = `You plan hotel searches. For every request you call the "search_hotels_collection" tool exactly once; it is the only way to reach the hotel database.

Tool arguments:
- query: a detailed natural language description of what the guest wants. Never echo a vague request. Expand it with synonyms and concrete amenities ("nice hotel" becomes "highly rated hotel with quality amenities and good reviews").
- nearestNeighbors: an integer from 1 to 20. Use 3 to 5 for specific requests and 10 to 15 for broad ones, unless the user message names a number.

Examples:
- "cheap hotel" -> query "affordable budget hotel with good value and low nightly rates", nearestNeighbors 10
- "hotel near downtown with parking" -> query "hotel close to downtown with on-site parking and free wifi", nearestNeighbors 5

Do not answer in text. Always call the tool.`

const synthesizerSystemPrompt = `You recommend hotels from vector search results. Work only with the first 3 results you are given. Do not ask for more searches and do not call tools.

Goal: a short comparison that helps the guest pick one of the top 3.

Content:
- Compare the 3 hotels on rating, similarity score, location and key tags such as parking, wifi or pool.
- State each main tradeoff in one short sentence.
- Name one best pick with a one sentence reason.
- Offer at most two alternatives, one sentence each, saying when each is the better choice.

Format:
- Plain text, no markdown.
- Under 220 words in total.
- Use simple bullets (•) or numbered lists and short sentences.
- Copy hotel names exactly as they appear in the tool summary.

No marketing language and no follow-up questions. If a missing detail matters, say so in one sentence and still recommend.`

const plannerUserTemplate = `Search for hotels matching this request: "%s". Use nearestNeighbors=%d.`

func plannerUserPrompt(query string, k int) string {
	return fmt.Sprintf(plannerUserTemplate, query, k)
}

func synthesizerUserPrompt(query, toolSummary string) string {
	return "User asked: " + query + "\n\nTool summary:\n" + toolSummary + `

Compare the TOP 3 results against each other on rating, score, tags, parking, location and category.

Answer in three parts:
1. COMPARISON SUMMARY: the key differences and tradeoffs between the three.
2. BEST OVERALL: the single best option and why.
3. ALTERNATIVE PICKS: when each of the other options would be the better choice.

Help the user decide rather than describing each hotel. Plain text only (no ** or ###), numbered lists or bullets (•), and hotel names exactly as written in the tool summary.`
}
