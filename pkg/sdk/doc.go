// Package mechfind embeds the mechanic discovery engine in a Go program.
//
// The client opens the provider store directly (Valkey, Redis or SQLite)
// and runs searches in-process, with the same filtering and ranking as the
// HTTP and MCP servers.
//
//	client, _ := mechfind.New(ctx, mechfind.WithSQLite("providers.db"))
//	defer client.Close()
//
//	_ = client.Upsert(ctx, mechfind.Provider{ID: "m1", Name: "John's Auto", Rating: mechfind.Float(4.9)})
//	res, _ := client.Search(ctx, mechfind.Query{
//	    Text:   "brake",
//	    Origin: &mechfind.Point{Lat: 3.848, Lon: 11.502},
//	    Sort:   mechfind.SortByDistance,
//	})
//	for _, r := range res.Results {
//	    fmt.Println(r.Provider.Name, r.DistanceKm)
//	}
package mechfind
