package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradejournal/calc"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/mentor"
	"github.com/rustyeddy/tradejournal/pkg/id"
	"github.com/rustyeddy/tradejournal/stats"
	"github.com/rustyeddy/tradejournal/storage"
	"github.com/rustyeddy/tradejournal/trade"
)

// text accepts a JSON string or a bare number and keeps it as typed, so the
// trade normalizer sees exactly what the client sent.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
	default:
		*t = text(b)
	}
	return nil
}

type tradeRequest struct {
	Date       text `json:"date"`
	AssetClass text `json:"assetClass"`
	Symbol     text `json:"symbol"`
	Direction  text `json:"direction"`
	EntryPrice text `json:"entryPrice"`
	ExitPrice  text `json:"exitPrice"`
	Quantity   text `json:"quantity"`
	Status     text `json:"status"`
	Notes      text `json:"notes"`
	Fees       text `json:"fees"`
}

func (r tradeRequest) input() trade.Input {
	return trade.Input{
		Date:       string(r.Date),
		AssetClass: string(r.AssetClass),
		Symbol:     string(r.Symbol),
		Direction:  string(r.Direction),
		EntryPrice: string(r.EntryPrice),
		ExitPrice:  string(r.ExitPrice),
		Quantity:   string(r.Quantity),
		Status:     string(r.Status),
		Notes:      string(r.Notes),
		Fees:       string(r.Fees),
	}
}

func badRequest(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	var ve *trade.ValidationError
	if errors.As(err, &ve) {
		body["field"] = ve.Field
	}
	c.JSON(http.StatusBadRequest, body)
}

// persisted adds a warning to body when the change could not be saved. The
// change itself is kept, so the request still succeeds.
func persisted(c *gin.Context, body gin.H, err error) bool {
	if err == nil {
		return true
	}
	var se *storage.StorageError
	if errors.As(err, &se) {
		c.Error(err)
		body["warning"] = "journal not saved: " + se.Error()
		return true
	}
	return false
}

// query binds the optional trade filters from the URL.
func query(c *gin.Context) (stats.Query, bool) {
	var q stats.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return q, false
	}
	return q, true
}

func (s *Server) listTrades(c *gin.Context) {
	q, ok := query(c)
	if !ok {
		return
	}
	ts, err := s.app.FindTrades(q)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": ts})
}

// getTrade looks the id up first, so ids imported in other formats still
// resolve; only an unknown id that could never have been minted is a 400.
func (s *Server) getTrade(c *gin.Context) {
	tradeID := c.Param("id")
	t, ok := s.app.Trade(tradeID)
	switch {
	case ok:
		c.JSON(http.StatusOK, t)
	case !id.Valid(tradeID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed trade id", "field": "id"})
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "trade not found"})
	}
}

func (s *Server) addTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	t, err := s.app.AddTrade(c.Request.Context(), req.input())
	body := gin.H{"trade": t, "account": s.app.Account()}
	if !persisted(c, body, err) {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusCreated, body)
}

func (s *Server) deleteTrade(c *gin.Context) {
	removed, err := s.app.DeleteTrade(c.Request.Context(), c.Param("id"))
	body := gin.H{"deleted": removed, "account": s.app.Account()}
	if !persisted(c, body, err) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) getAccount(c *gin.Context) {
	c.JSON(http.StatusOK, s.app.Account())
}

type accountRequest struct {
	InitialBalance *float64 `json:"initialBalance"`
}

func (s *Server) setAccount(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.InitialBalance == nil {
		badRequest(c, &trade.ValidationError{Field: "initialBalance", Reason: "required", Err: trade.ErrMissingField})
		return
	}

	err := s.app.SetInitialBalance(c.Request.Context(), *req.InitialBalance)
	body := gin.H{"account": s.app.Account()}
	if !persisted(c, body, err) {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

type statsResponse struct {
	stats.Stats
	ProfitFactorLabel  string `json:"profitFactorLabel"`
	ProfitFactorFinite bool   `json:"profitFactorFinite"`
}

func (s *Server) getStats(c *gin.Context) {
	q, ok := query(c)
	if !ok {
		return
	}
	st, err := s.app.StatsFor(q)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, statsResponse{
		Stats:              st,
		ProfitFactorLabel:  st.ProfitFactor.String(),
		ProfitFactorFinite: st.ProfitFactor.IsFinite(),
	})
}

func (s *Server) getEquity(c *gin.Context) {
	curve := s.app.Curve()
	acct := s.app.Account()
	c.JSON(http.StatusOK, gin.H{
		"points":      curve,
		"maxDrawdown": stats.MaxDrawdown(curve),
		"returnPct":   stats.ReturnPct(acct.InitialBalance, acct.CurrentBalance),
	})
}

func (s *Server) getAnalysis(c *gin.Context) {
	c.JSON(http.StatusOK, s.app.Analysis())
}

// analyze blocks for the model round trip. Fallback messages are normal
// responses; only a request replaced by a newer one is a conflict.
func (s *Server) analyze(c *gin.Context) {
	st, err := s.app.Analyze(c.Request.Context())
	if errors.Is(err, mentor.ErrSuperseded) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.Error(err)
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) clearAnalysis(c *gin.Context) {
	s.app.ClearAnalysis()
	c.Status(http.StatusNoContent)
}

func (s *Server) calcPips(c *gin.Context) {
	var in calc.PipsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, calc.Pips(in))
}

func (s *Server) calcOptions(c *gin.Context) {
	var in calc.OptionsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	typ, err := calc.ParseOptionType(string(in.Type))
	if err != nil {
		badRequest(c, err)
		return
	}
	in.Type = typ
	c.JSON(http.StatusOK, gin.H{"type": in.Type, "pnl": calc.OptionsPnL(in)})
}

func (s *Server) calcSize(c *gin.Context) {
	var in calc.SizeInputs
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res, err := calc.PositionSize(in)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) export(c *gin.Context) {
	var buf bytes.Buffer
	var err error
	contentType := "text/plain; charset=utf-8"

	switch c.Param("format") {
	case "csv":
		var j *journal.CSVJournal
		if j, err = journal.NewCSVWriter(&buf, &bytes.Buffer{}); err == nil {
			err = journal.Record(j, s.app.Trades(), nil)
		}
		contentType = "text/csv; charset=utf-8"
	case "equity.csv":
		var j *journal.CSVJournal
		if j, err = journal.NewCSVWriter(&bytes.Buffer{}, &buf); err == nil {
			err = journal.Record(j, nil, s.app.Curve())
		}
		contentType = "text/csv; charset=utf-8"
	case "org":
		err = s.app.Summary().WriteOrg(&buf)
	case "yaml":
		err = journal.WriteYAML(&buf, s.app.Snapshot())
		contentType = "application/yaml"
	case "json":
		err = journal.WriteJSON(&buf, s.app.Snapshot())
		contentType = "application/json"
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown export format"})
		return
	}

	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
