// Package candle encodes candle arrangements into URL-embeddable tokens.
//
// # Overview
//
// A [Candle] is a flame marker on the cake surface: a horizontal offset, a
// vertical offset and an extinguished flag. An arrangement is an ordered
// slice of candles. This package turns an arrangement into a compact token
// that can sit in a query parameter without escaping, turns tokens back into
// arrangements, and derives share links from them.
//
// # Token Format
//
// A token is the unpadded URL-safe base64 (RFC 4648 §5) of a JSON array:
//
//	[{"left":50,"top":24,"out":false},{"left":80,"top":24,"out":true}]
//
// The empty arrangement encodes to the empty string, and share links for it
// carry no query string at all.
//
// # Lenient Decoding
//
// [Decode] never fails. A token that is not base64 or not a JSON array
// decodes to no candles; a record with a missing or mistyped field is
// dropped while its neighbours survive in order. Use [Inspect] when the
// caller wants to know how much was discarded.
//
// # Share Links
//
//	link := candle.ShareLink("https://x.test", "/cake", candles)
//	// https://x.test/cake?candles=W3sibGVmdCI6NTAs...
//
//	candles := candle.FromURL(link)
package candle
