// Package actionbias places and finds work items in a hierarchy of actions.
//
// An Engine combines a persistent item store with an embedding service and
// a classification oracle. It suggests parents for new items, runs hybrid
// vector and keyword search, and scores item content:
//
//	engine, err := actionbias.NewEngine("/path/to/db",
//	    actionbias.WithAIConfig(ai.NewConfig(ai.WithHost("http://localhost:11434"))))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	suggestions := engine.SuggestParents(ctx, item, placement.DefaultSuggestOptions())
package actionbias
