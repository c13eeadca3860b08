// Package lingotray provides a streaming AI translation engine.
//
// Lingotray accepts a piece of text, streams the translation back as
// incremental deltas from an AI provider (Anthropic, OpenAI, etc.), fences
// overlapping requests so only the most recent one is observable, and keeps a
// content-addressed cache of finished translations.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/lingotray"
//	    "github.com/ZaguanLabs/lingotray/cache"
//	    "github.com/ZaguanLabs/lingotray/provider"
//	)
//
//	func main() {
//	    p := provider.NewAnthropicProvider(provider.AnthropicConfig{
//	        APIKey: os.Getenv("ANTHROPIC_API_KEY"),
//	    })
//
//	    engine := lingotray.NewEngine(p,
//	        lingotray.WithCache(cache.NewMemoryStore(100, 30*24*time.Hour)),
//	    )
//
//	    events, err := engine.Translate(context.Background(), lingotray.Request{
//	        Text:  "hello",
//	        Model: lingotray.DefaultModel,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for ev := range events {
//	        switch ev.Type {
//	        case lingotray.EventDelta:
//	            fmt.Print(ev.Text)
//	        case lingotray.EventFailed:
//	            log.Fatal(ev.Err)
//	        }
//	    }
//	}
package lingotray
