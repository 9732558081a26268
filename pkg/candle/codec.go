package candle

import (
	"bytes"
	"encoding/base64"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Param is the query parameter that carries a token in share links.
const Param = "candles"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// tokenEncoding is the transform applied on top of the JSON payload.
var tokenEncoding = base64.RawURLEncoding

// legacyEncodings are tried when a token does not decode with tokenEncoding
// and carries a character outside the raw URL alphabet. Older links were
// produced with padded base64.
var legacyEncodings = []*base64.Encoding{base64.URLEncoding, base64.StdEncoding}

// Report describes the outcome of decoding a token.
type Report struct {
	Candles   []Candle // Candles recovered, in token order
	Dropped   int      // Records discarded for a missing, mistyped or unreadable field
	Malformed bool     // The token as a whole could not be decoded
}

// Encode serializes candles into a URL-safe token.
//
// The empty arrangement encodes to "". Candles whose coordinates are NaN or
// infinite have no JSON form and are skipped; if nothing remains the token
// is "" as well.
func Encode(candles []Candle) string {
	records := make([]Candle, 0, len(candles))
	for _, c := range candles {
		if c.valid() {
			records = append(records, c)
		}
	}
	if len(records) == 0 {
		return ""
	}

	payload, err := json.Marshal(records)
	if err != nil {
		// Only finite floats and bools reach the encoder.
		return ""
	}
	return tokenEncoding.EncodeToString(payload)
}

// Decode parses a token produced by [Encode].
// It never fails: malformed input yields an empty slice and records with
// missing or mistyped fields are dropped.
func Decode(token string) []Candle {
	return Inspect(token).Candles
}

// Inspect decodes token like [Decode] and reports what was discarded.
func Inspect(token string) Report {
	if token == "" {
		return Report{Candles: []Candle{}}
	}

	payload, ok := decodeBase64(token)
	if !ok {
		return Report{Candles: []Candle{}, Malformed: true}
	}

	// The array is split before the records are read so that a value one
	// record cannot hold does not take its neighbours down with it.
	var records []jsoniter.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return Report{Candles: []Candle{}, Malformed: true}
	}

	rep := Report{Candles: make([]Candle, 0, len(records))}
	for _, raw := range records {
		c, ok := parseRecord(raw)
		if !ok {
			rep.Dropped++
			continue
		}
		rep.Candles = append(rep.Candles, c)
	}
	return rep
}

// decodeBase64 returns the JSON payload carried by token.
// Payloads holding NUL bytes are refused: the JSON reader stops at the first
// one, so zero bits appended to a token would otherwise go unnoticed.
func decodeBase64(token string) ([]byte, bool) {
	payload, err := tokenEncoding.DecodeString(token)
	if err != nil {
		if !strings.ContainsAny(token, "=+/") {
			return nil, false
		}
		for _, enc := range legacyEncodings {
			if payload, err = enc.DecodeString(token); err == nil {
				break
			}
		}
		if err != nil {
			return nil, false
		}
	}
	if bytes.IndexByte(payload, 0) >= 0 {
		return nil, false
	}
	return payload, true
}

// parseRecord converts one JSON array element into a Candle.
// left and top are required numbers; out is optional and defaults to lit.
// Elements that are not objects, or hold numbers outside the float64 range,
// are rejected.
func parseRecord(raw jsoniter.RawMessage) (Candle, bool) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return Candle{}, false
	}

	left, ok := m["left"].(float64)
	if !ok {
		return Candle{}, false
	}
	top, ok := m["top"].(float64)
	if !ok {
		return Candle{}, false
	}

	var out bool
	if raw, present := m["out"]; present {
		if out, ok = raw.(bool); !ok {
			return Candle{}, false
		}
	}

	return Candle{Left: left, Top: top, Out: out}, true
}

// ShareLink builds the absolute link that reproduces candles.
// The candles parameter is omitted when the arrangement encodes to "".
func ShareLink(origin, path string, candles []Candle) string {
	link := origin + path
	if token := Encode(candles); token != "" {
		link += "?" + Param + "=" + token
	}
	return link
}

// FromQuery reads the arrangement out of query values.
// A missing or malformed parameter means no candles.
func FromQuery(q url.Values) []Candle {
	return Decode(q.Get(Param))
}

// FromURL reads the arrangement out of a share link.
// Links that do not parse carry no candles.
func FromURL(raw string) []Candle {
	u, err := url.Parse(raw)
	if err != nil {
		return []Candle{}
	}
	return FromQuery(u.Query())
}
