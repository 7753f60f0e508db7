// Package articles provides a Go client for the articles HTTP API.
//
//	client, _ := articles.New("http://localhost:8000")
//	a, _ := client.Create(ctx, articles.CreateInput{Title: "Go generics", Content: body})
//	_ = client.Embed(ctx, a.ID)
//	hits, _ := client.Search(ctx, "type parameters", 5)
//	summary, _ := client.Summarize(ctx, a.ID)
//
// Failed calls return *APIError, which matches the exported sentinels with errors.Is:
//
//	if errors.Is(err, articles.ErrNotFound) { ... }
package articles
