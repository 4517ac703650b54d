// Package propmatch embeds the property recommendation engine in-process.
//
// The client owns a snapshot of listings and points of interest, scores them
// against investor profiles and returns ranked, justified recommendations.
// Score results are cached in memory, or in a shared Redis/Valkey when
// WithRedis or WithValkey is given.
//
//	client, _ := propmatch.New(ctx)
//	_ = client.LoadFiles(ctx, "data/properties.json", "data/pois.json")
//
//	needs, _ := propmatch.ParseNeeds([]string{"colegio", "transporte"})
//	recs, _ := client.Recommend(ctx, &propmatch.Profile{
//	    Budget:    propmatch.Budget{Min: 80000, Max: 150000, Currency: "USD"},
//	    Preferred: propmatch.Preferred{Zone: "Equipetrol"},
//	    Needs:     needs,
//	}, 10, 0)
package propmatch
