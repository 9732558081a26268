// Package server implements the candlecake share service.
//
// The service exposes the candle codec over HTTP so that pages and other
// tools can build and read share links without carrying the codec
// themselves, and optionally hands out short links stored in a cache
// backend.
//
// # Routes
//
//	GET  /healthz                 liveness probe
//	GET  /api/candles?candles=…   decode a token (never fails on bad tokens)
//	POST /api/encode              {"candles":[…]} → {"token","link"}
//	POST /api/links               {"candles":[…]} or {"token":…} → {"id","short","link"}
//	GET  /s/{id}                  302 to the full share link
//	GET  <share path>?candles=…   the arrangement a card page would render
//
// Errors are JSON bodies of the form {"code","message"}; see
// [httputil.WriteError].
//
// # Usage
//
//	srv, err := server.New(server.Config{Addr: ":8080", Origin: "https://cards.example", Path: "/cake"}, links, logger)
//	if err != nil {
//	    return err
//	}
//	return srv.Run(ctx) // returns after ctx is cancelled and requests drain
package server
