// Package provider implements streaming translation backends.
package provider

import "github.com/ZaguanLabs/lingotray"

// StreamingProvider is the interface for streaming translation backends.
// This is an alias to the main package interface for convenience.
type StreamingProvider = lingotray.StreamingProvider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = lingotray.TranslateRequest

// EventStream is an alias to the main package type.
type EventStream = lingotray.EventStream

// StreamEvent is an alias to the main package type.
type StreamEvent = lingotray.StreamEvent
