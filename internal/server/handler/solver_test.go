package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmaffei/arbdesk/internal/service"
)

func newTestSolverHandler() *SolverHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSolverHandler(service.NewSolverService(0, logger), logger)
}

func TestSolveArbitrageEndpoint(t *testing.T) {
	h := newTestSolverHandler()

	body := `{
		"legs": [
			{"kind": "back", "odd": 2.10, "stake": 100},
			{"kind": "back", "odd": 2.05, "commission": 5}
		],
		"anchor_index": 0,
		"rounding": -1
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/solver/arbitrage", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SolveArbitrage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var result service.SolveResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	wantCover := 210.0 / 1.9975
	if math.Abs(result.Legs[1].Stake-wantCover) > 1e-6 {
		t.Fatalf("cover stake %.6f, want %.6f", result.Legs[1].Stake, wantCover)
	}
	if len(result.Summary.Profits) != 2 {
		t.Fatalf("got %d scenario profits", len(result.Summary.Profits))
	}
	if math.Abs(result.Summary.Profits[0]-result.Summary.Profits[1]) > 1e-6 {
		t.Fatalf("profits not levelled: %v", result.Summary.Profits)
	}
}

func TestSolveArbitrageBadAnchor(t *testing.T) {
	h := newTestSolverHandler()

	body := `{"legs": [{"kind": "back", "odd": 2.0, "stake": 100}], "anchor_index": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/solver/arbitrage", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SolveArbitrage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestSolveArbitrageMalformedBody(t *testing.T) {
	h := newTestSolverHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/solver/arbitrage", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.SolveArbitrage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestSolveFreebetEndpoint(t *testing.T) {
	h := newTestSolverHandler()

	// Freebet 100 at odd 5: target profit 400, single cover at eff 3.0
	// takes 200.
	body := `{
		"promo": {"kind": "back_freebet", "odd": 5.0, "stake": 100},
		"covers": [{"kind": "back", "odd": 3.0}],
		"rounding": -1
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/solver/freebet", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SolveFreebet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var result service.SolveResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if math.Abs(result.Legs[1].Stake-200) > 1e-6 {
		t.Fatalf("cover stake %.6f, want 200", result.Legs[1].Stake)
	}
}
