// Package prodex provides an embeddable Go client for the prodex product
// search engine backed by Redis with the RediSearch module.
//
// The client connects straight to the database and runs the same search,
// catalog and health logic as the HTTP service, without the HTTP hop:
//
//	client, err := prodex.New(ctx,
//	    prodex.WithRedis("localhost:6379", ""),
//	    prodex.WithEmbedder(myEmbedder),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	report, _ := client.LoadCatalog(ctx, "data/product_catalog.json")
//	res, _ := client.Search(ctx, prodex.SearchRequest{
//	    Query: "vitamin c serum",
//	    Mode:  prodex.ModeVector,
//	})
//
// Lexical search, product reads and customer loads work without an
// embedder; vector search and product loads require one.
package prodex
