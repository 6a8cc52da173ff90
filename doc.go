// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jsax implements an event-driven (SAX-style) JSON parser for
// chunked input.
//
// # Parsing
//
// A Parser consumes JSON text delivered as one or more byte chunks and
// invokes caller-supplied handlers as tokens are recognized. Chunk
// boundaries may fall anywhere, including the middle of a token: the parser
// carries the partial token over and resumes seamlessly on the next chunk.
//
// Construct a Parser with a Builder, registering a handler for each event of
// interest:
//
//	p, err := jsax.NewBuilder().
//	   ObjectStartHandler(func() error { depth++; return nil }).
//	   ObjectEndHandler(func() error { depth--; return nil }).
//	   StringValueHandler(func(v mem.RO) error {
//	      fmt.Println(v.StringCopy())
//	      return nil
//	   }).
//	   Build()
//
// Feed input with Parse, once per chunk, and declare the end of input with
// Finish:
//
//	for chunk := range chunks {
//	   if ok, err := p.Parse(chunk); err != nil {
//	      log.Fatalf("Parse failed: %v", err)
//	   } else if !ok {
//	      break // a handler cancelled the parse
//	   }
//	}
//	if _, err := p.Finish(); err != nil {
//	   log.Fatalf("Input incomplete: %v", err)
//	}
//
// # Handlers
//
// Handlers are plain functions (see the types in handler.go). A handler
// returns nil to continue, the sentinel Stop to cancel the parse, or any
// other error to fail it. String and key payloads are delivered as mem.RO
// views that borrow either the caller's chunk or parser-owned scratch; they
// are valid only during the call.
//
// String values without escapes are delivered zero-copy, directly out of the
// input bytes. Values containing escapes are unescaped into an internal
// buffer that is reused from token to token.
//
// Numbers are delivered either raw (NumberHandler, the original bytes) or
// parsed (IntegerHandler, FloatingHandler); the two styles are mutually
// exclusive and the choice is checked when the parser is built.
//
// # Reuse
//
// After a document completes (or fails), Reset returns the parser to its
// initial state while keeping its internal buffers, so a single parser can
// process a long sequence of documents with negligible per-document
// allocation. A Parser is not safe for concurrent use.
package jsax
