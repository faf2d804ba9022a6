// Package toolvec is a Redis-backed vector store with a function-call
// adapter for chat models.
//
// The store half persists documents as Redis hashes, embeds their content
// through a configured provider, and answers similarity searches with
// portable metadata filters translated to the native FT.SEARCH grammar:
//
//	client, err := toolvec.New(ctx,
//		toolvec.WithRedis("localhost:6379"),
//		toolvec.WithEmbedder(toolvec.NewOllamaEmbedder(toolvec.OllamaEmbedderConfig{
//			Host:  "http://localhost:11434",
//			Model: "nomic-embed-text",
//		})),
//		toolvec.WithVectorDim(768),
//		toolvec.WithField("country", toolvec.FieldTag),
//		toolvec.WithField("year", toolvec.FieldNumeric),
//		toolvec.WithInitializeSchema(),
//	)
//
//	results, err := client.Search(ctx, "grassland ecosystems", &toolvec.SearchOptions{
//		TopK:   5,
//		Filter: toolvec.And(toolvec.In("country", "UK", "NL"), toolvec.Gte("year", 2020)),
//	})
//
// The function-call half wraps plain Go functions as model-invocable tools.
// The input schema is derived from the argument type, and model-initiated
// calls are dispatched by name with strictly decoded JSON arguments:
//
//	tool, err := toolvec.NewTool("current_weather", "Get the weather for a city",
//		func(ctx context.Context, req WeatherRequest) (WeatherResponse, error) { ... })
//	tools := toolvec.NewTools()
//	_ = tools.Register(tool)
package toolvec
