package candle

import (
	"encoding/base64"
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var birthday = []Candle{
	{Left: 50, Top: 24, Out: false},
	{Left: 80, Top: 24, Out: true},
}

func rawToken(payload string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		candles []Candle
	}{
		{"single", []Candle{{Left: 20, Top: 60}}},
		{"birthday", birthday},
		{"duplicates", []Candle{{Left: 100, Top: 100}, {Left: 100, Top: 100}, {Left: 100, Top: 100, Out: true}}},
		{"fractional", []Candle{{Left: 33.333333333333336, Top: 0.1}, {Left: -5.5, Top: 1e-9}}},
		{"large", []Candle{{Left: 1e300, Top: -1e300}}},
		{"all out", []Candle{{Left: 1, Top: 2, Out: true}, {Left: 3, Top: 4, Out: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := Encode(tt.candles)
			if token == "" {
				t.Fatal("Encode returned empty token for non-empty input")
			}
			got := Decode(token)
			if diff := cmp.Diff(tt.candles, got); diff != "" {
				t.Errorf("Decode(Encode()) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTripManyCandles(t *testing.T) {
	var candles []Candle
	for i := range 200 {
		candles = append(candles, Candle{Left: float64(20 + i%190), Top: float64(60 + i%80), Out: i%3 == 0})
	}
	if got := Decode(Encode(candles)); !Equal(got, candles) {
		t.Errorf("round trip of %d candles lost data: got %d", len(candles), len(got))
	}
}

func TestReencodeIsIdempotent(t *testing.T) {
	inputs := [][]Candle{
		birthday,
		{{Left: 0.1, Top: 0.2}},
		{{Left: 123456.789, Top: -0.000001, Out: true}},
	}
	for _, cs := range inputs {
		first := Encode(cs)
		if second := Encode(Decode(first)); second != first {
			t.Errorf("Encode(Decode(%q)) = %q", first, second)
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("Encode(nil) = %q, want empty", got)
	}
	if got := Encode([]Candle{}); got != "" {
		t.Errorf("Encode([]) = %q, want empty", got)
	}
}

func TestEncodeSkipsNonFinite(t *testing.T) {
	cs := []Candle{
		{Left: math.NaN(), Top: 1},
		{Left: 50, Top: 24},
		{Left: 1, Top: math.Inf(1)},
	}
	got := Decode(Encode(cs))
	want := []Candle{{Left: 50, Top: 24}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("non-finite candles not skipped (-want +got):\n%s", diff)
	}

	if tok := Encode([]Candle{{Left: math.Inf(-1), Top: 0}}); tok != "" {
		t.Errorf("Encode of only non-finite candles = %q, want empty", tok)
	}
}

func TestTokenIsURLSafe(t *testing.T) {
	token := Encode(birthday)
	if strings.ContainsAny(token, "+/=?&# ") {
		t.Errorf("token %q contains characters that need escaping", token)
	}
	if url.QueryEscape(token) != token {
		t.Errorf("token %q changes under query escaping", token)
	}
}

func TestDecodeLenient(t *testing.T) {
	valid := Encode(birthday)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "not-a-valid-token"},
		{"trailing garbage", valid + "garbage"},
		{"truncated", valid[:len(valid)/2]},
		{"base64 of text", rawToken("hello world")},
		{"base64 of object", rawToken(`{"left":1,"top":2}`)},
		{"base64 of null", rawToken(`null`)},
		{"base64 of number", rawToken(`42`)},
		{"invalid characters", "!!!!"},
		{"trailing zero bytes", valid + "AA"},
		{"trailing zero triple", valid + "AAA"},
		{"trailing zero quad", valid + "AAAA"},
		{"trailing pad", valid + "="},
		{"zero bytes after array", rawToken("[{\"left\":1,\"top\":2}]\x00\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Candle
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Fatalf("Decode(%q) panicked: %v", tt.token, r)
					}
				}()
				got = Decode(tt.token)
			}()
			if got == nil {
				t.Fatalf("Decode(%q) returned nil, want empty slice", tt.token)
			}
			if len(got) != 0 {
				t.Errorf("Decode(%q) = %v, want empty", tt.token, got)
			}
		})
	}
}

func TestDecodePartialCorruption(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []Candle
		dropped int
	}{
		{
			name:    "missing left",
			payload: `[{"left":1,"top":2,"out":false},{"top":3,"out":true},{"left":4,"top":5,"out":true}]`,
			want:    []Candle{{Left: 1, Top: 2}, {Left: 4, Top: 5, Out: true}},
			dropped: 1,
		},
		{
			name:    "string number",
			payload: `[{"left":"1","top":2},{"left":7,"top":8}]`,
			want:    []Candle{{Left: 7, Top: 8}},
			dropped: 1,
		},
		{
			name:    "mistyped out",
			payload: `[{"left":1,"top":2,"out":"yes"},{"left":3,"top":4,"out":true}]`,
			want:    []Candle{{Left: 3, Top: 4, Out: true}},
			dropped: 1,
		},
		{
			name:    "missing out means lit",
			payload: `[{"left":1,"top":2}]`,
			want:    []Candle{{Left: 1, Top: 2}},
		},
		{
			name:    "non-object records",
			payload: `[null,1,"x",[],{"left":9,"top":9}]`,
			want:    []Candle{{Left: 9, Top: 9}},
			dropped: 4,
		},
		{
			name:    "unknown fields ignored",
			payload: `[{"left":1,"top":2,"color":"red"}]`,
			want:    []Candle{{Left: 1, Top: 2}},
		},
		{
			name:    "number out of range",
			payload: `[{"left":1e400,"top":1},{"left":7,"top":8}]`,
			want:    []Candle{{Left: 7, Top: 8}},
			dropped: 1,
		},
		{
			name:    "empty array",
			payload: `[]`,
			want:    []Candle{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Inspect(rawToken(tt.payload))
			if rep.Malformed {
				t.Fatal("Inspect reported a well-formed array as malformed")
			}
			if diff := cmp.Diff(tt.want, rep.Candles); diff != "" {
				t.Errorf("candles mismatch (-want +got):\n%s", diff)
			}
			if rep.Dropped != tt.dropped {
				t.Errorf("Dropped = %d, want %d", rep.Dropped, tt.dropped)
			}
		})
	}
}

func TestInspectMalformed(t *testing.T) {
	rep := Inspect("not-a-valid-token")
	if !rep.Malformed {
		t.Error("Malformed = false, want true")
	}
	if len(rep.Candles) != 0 || rep.Dropped != 0 {
		t.Errorf("Inspect = %+v, want no candles and no drops", rep)
	}

	if rep := Inspect(""); rep.Malformed {
		t.Error("empty token should not be reported as malformed")
	}
}

func TestDecodeLegacyPaddedTokens(t *testing.T) {
	// The leading space makes the padded forms end in "==".
	payload := []byte(` [{"left":50,"top":24,"out":false},{"left":80,"top":24,"out":true}]`)

	for name, enc := range map[string]*base64.Encoding{
		"std": base64.StdEncoding,
		"url": base64.URLEncoding,
	} {
		t.Run(name, func(t *testing.T) {
			token := enc.EncodeToString(payload)
			if !strings.HasSuffix(token, "==") {
				t.Fatalf("token %q is not padded", token)
			}
			got := Decode(token)
			if diff := cmp.Diff(birthday, got); diff != "" {
				t.Errorf("legacy token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShareLink(t *testing.T) {
	t.Run("with candles", func(t *testing.T) {
		got := ShareLink("https://x.test", "/cake", birthday)
		want := "https://x.test/cake?candles=" + Encode(birthday)
		if got != want {
			t.Errorf("ShareLink() = %q, want %q", got, want)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := ShareLink("https://x.test", "/cake", nil); got != "https://x.test/cake" {
			t.Errorf("ShareLink() = %q, want no query string", got)
		}
	})

	t.Run("reversible", func(t *testing.T) {
		link := ShareLink("http://localhost:8080", "/", birthday)
		if diff := cmp.Diff(birthday, FromURL(link)); diff != "" {
			t.Errorf("FromURL(ShareLink()) mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"no query", "https://x.test/cake", 0},
		{"other params", "https://x.test/cake?theme=dark", 0},
		{"malformed token", "https://x.test/cake?candles=%%%", 0},
		{"bad token value", "https://x.test/cake?candles=zzz", 0},
		{"unparseable url", "://bad", 0},
		{"valid", "https://x.test/cake?theme=dark&candles=" + Encode(birthday), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromURL(tt.raw)
			if got == nil {
				t.Fatal("FromURL returned nil")
			}
			if len(got) != tt.want {
				t.Errorf("FromURL(%q) returned %d candles, want %d", tt.raw, len(got), tt.want)
			}
		})
	}
}

func TestCountLit(t *testing.T) {
	if got := CountLit(birthday); got != 1 {
		t.Errorf("CountLit() = %d, want 1", got)
	}
	if got := CountLit(nil); got != 0 {
		t.Errorf("CountLit(nil) = %d, want 0", got)
	}
}
