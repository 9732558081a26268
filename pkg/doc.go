// Package pkg provides the libraries behind candlecake, a birthday cake
// whose candles travel inside share links.
//
// # Overview
//
// A card shows a cake; clicking places candles, the arrangement is encoded
// into the candles query parameter of a share link, and blowing into the
// microphone puts the candles out. The pkg directory is organized into:
//
//  1. [candle] - The candle record and the token codec
//  2. [cake] - The live arrangement and the cake surface
//  3. [blow] - Volume sources and the blow detection policy
//  4. [shortlink], [cache] - Short links over pluggable storage
//  5. [server] - The HTTP share service
//  6. [config], [errors], [observability], [httputil], [buildinfo] - Ambient support
//
// # Data Flow
//
//	click (x, y)
//	     ↓
//	[cake] Surface.Place → Cake
//	     ↓
//	[candle] Encode → token → ShareLink
//	     ↓
//	recipient opens the link → FromURL → Cake
//	     ↓
//	[blow] Detector.Run(VolumeSource) → candles out
//
// # Quick Start
//
//	k := cake.New(cake.DefaultSurface())
//	k.Place(60, 90)
//	k.Place(120, 95)
//	link := k.ShareLink("https://cards.example", "/cake")
//
//	received := cake.FromToken(cake.DefaultSurface(), token)
//	d := &blow.Detector{Policy: blow.DefaultPolicy(), Source: blow.NewSamples(0.05, 0.6)}
//	sum, err := d.Run(ctx, received)
package pkg
