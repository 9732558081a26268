package cli

import (
	"io"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/matzehuels/candlecake/pkg/candle"
	"github.com/matzehuels/candlecake/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// parseCandle parses "left,top" or "left,top,state" where state is one of
// lit, out, true or false (true meaning out).
func parseCandle(s string) (candle.Candle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return candle.Candle{}, errors.New(errors.ErrCodeInvalidCandle, "candle %q: want left,top[,lit|out]", s)
	}

	left, err := parseCoord(parts[0])
	if err != nil {
		return candle.Candle{}, errors.Wrap(errors.ErrCodeInvalidCandle, err, "candle %q: left", s)
	}
	top, err := parseCoord(parts[1])
	if err != nil {
		return candle.Candle{}, errors.Wrap(errors.ErrCodeInvalidCandle, err, "candle %q: top", s)
	}

	c := candle.Candle{Left: left, Top: top}
	if len(parts) == 3 {
		switch strings.ToLower(strings.TrimSpace(parts[2])) {
		case "lit", "false":
		case "out", "true":
			c.Out = true
		default:
			return candle.Candle{}, errors.New(errors.ErrCodeInvalidCandle, "candle %q: state must be lit or out", s)
		}
	}
	return c, nil
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New(errors.ErrCodeInvalidCandle, "coordinate must be finite")
	}
	return v, nil
}

// parseCandles parses every argument with parseCandle.
func parseCandles(args []string) ([]candle.Candle, error) {
	candles := make([]candle.Candle, 0, len(args))
	for _, a := range args {
		c, err := parseCandle(a)
		if err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}
	return candles, nil
}

// readCandlesJSON reads a JSON array of candles from path, or stdin for "-".
func readCandlesJSON(path string) ([]candle.Candle, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	var candles []candle.Candle
	if err := json.Unmarshal(data, &candles); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse candles from %s", path)
	}
	return candles, nil
}

// tokenArg accepts either a bare token or a share link and returns the
// token. Links without a candles parameter carry the empty token.
func tokenArg(arg string) string {
	arg = strings.TrimSpace(arg)
	if !strings.Contains(arg, "://") && !strings.Contains(arg, "?") {
		return arg
	}
	u, err := url.Parse(arg)
	if err != nil {
		return ""
	}
	return u.Query().Get(candle.Param)
}

// parseLevels parses a comma-separated list of volume levels.
func parseLevels(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	levels := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || v < 0 || v > 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "level %q must be a number in [0, 1]", f)
		}
		levels = append(levels, v)
	}
	if len(levels) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no levels given")
	}
	return levels, nil
}
