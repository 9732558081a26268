package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/candlecake/pkg/candle"
	"github.com/matzehuels/candlecake/pkg/errors"
	"github.com/matzehuels/candlecake/pkg/httputil"
	"github.com/matzehuels/candlecake/pkg/observability"
)

// arrangement is the body shared by the decode and page routes.
type arrangement struct {
	Candles   []candle.Candle `json:"candles"`
	Lit       int             `json:"lit"`
	Dropped   int             `json:"dropped,omitempty"`
	Malformed bool            `json:"malformed,omitempty"`
	Link      string          `json:"link"`
}

type encodeRequest struct {
	Candles []candle.Candle `json:"candles"`
}

type encodeResponse struct {
	Token string `json:"token"`
	Link  string `json:"link"`
}

type shortenRequest struct {
	Candles []candle.Candle `json:"candles,omitempty"`
	Token   string          `json:"token,omitempty"`
}

type shortenResponse struct {
	ID    string `json:"id"`
	Short string `json:"short"`
	Link  string `json:"link"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.inspect(r))
}

// handleCake answers the share path itself with what the page would render.
func (s *Server) handleCake(w http.ResponseWriter, r *http.Request) {
	a := s.inspect(r)
	a.Dropped, a.Malformed = 0, false
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (s *Server) inspect(r *http.Request) arrangement {
	token := r.URL.Query().Get(candle.Param)
	rep := candle.Inspect(token)
	observability.Codec().OnDecode(r.Context(), len(token), len(rep.Candles), rep.Dropped, rep.Malformed)
	if rep.Malformed || rep.Dropped > 0 {
		s.logger.Debug("Lenient decode", "token_len", len(token), "kept", len(rep.Candles), "dropped", rep.Dropped, "malformed", rep.Malformed)
	}
	return arrangement{
		Candles:   rep.Candles,
		Lit:       candle.CountLit(rep.Candles),
		Dropped:   rep.Dropped,
		Malformed: rep.Malformed,
		Link:      s.shareLink(rep.Candles),
	}
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var req encodeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	token := candle.Encode(req.Candles)
	observability.Codec().OnEncode(r.Context(), len(req.Candles), len(token))
	httputil.WriteJSON(w, http.StatusOK, encodeResponse{Token: token, Link: s.shareLink(req.Candles)})
}

func (s *Server) handleShorten(w http.ResponseWriter, r *http.Request) {
	if s.links == nil {
		httputil.WriteError(w, errors.New(errors.ErrCodeUnsupported, "short links are disabled"))
		return
	}

	var req shortenRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Token != "" && len(req.Candles) > 0 {
		httputil.WriteError(w, errors.New(errors.ErrCodeInvalidInput, "send either candles or token, not both"))
		return
	}

	// Tokens are normalised so that equivalent arrangements share an id.
	candles := req.Candles
	if req.Token != "" {
		candles = candle.Decode(req.Token)
	}
	token := candle.Encode(candles)

	id, err := s.links.Shorten(r.Context(), token)
	if err != nil {
		s.logError(r, "Shorten failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, shortenResponse{
		ID:    id,
		Short: s.cfg.Origin + "/s/" + id,
		Link:  s.linkFor(token),
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if s.links == nil {
		httputil.WriteError(w, errors.New(errors.ErrCodeUnsupported, "short links are disabled"))
		return
	}

	token, err := s.links.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logError(r, "Resolve failed", err)
		httputil.WriteError(w, err)
		return
	}
	http.Redirect(w, r, s.linkFor(token), http.StatusFound)
}

func (s *Server) shareLink(candles []candle.Candle) string {
	return candle.ShareLink(s.cfg.Origin, s.cfg.Path, candles)
}

// linkFor builds a share link around an already encoded token.
func (s *Server) linkFor(token string) string {
	link := s.cfg.Origin + s.cfg.Path
	if token != "" {
		link += "?" + candle.Param + "=" + token
	}
	return link
}

func (s *Server) logError(r *http.Request, msg string, err error) {
	if errors.HTTPStatus(err) >= http.StatusInternalServerError {
		s.logger.Error(msg, "path", r.URL.Path, "err", err)
	}
}
