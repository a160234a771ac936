package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionpricing/internal/pricing/application"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	svc := application.NewPricingService(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	handler := NewPricingHandler(svc, "optionpricing")
	handler.RegisterRoutes(router)

	return router
}

func doPrice(t *testing.T, router *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/tools/"+ToolPriceOptionBlack76, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func referenceBody() map[string]any {
	dcf := 30.0 / 365.0
	return map[string]any{
		"forward_price":      5500,
		"strike":             5000,
		"dcf":                dcf,
		"df":                 math.Exp(-0.05 * dcf),
		"implied_volatility": 0.15,
		"option_type":        "call",
	}
}

func TestPriceOption_Success(t *testing.T) {
	router := newTestRouter()

	w := doPrice(t, router, referenceBody())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
		Model  string `json:"model"`
		Type   string `json:"type"`
		Inputs struct {
			Forward float64 `json:"forward"`
			Strike  float64 `json:"strike"`
		} `json:"inputs"`
		Pricing struct {
			Premium string `json:"premium"`
		} `json:"pricing"`
		Greeks struct {
			Delta          string `json:"delta"`
			Gamma          string `json:"gamma"`
			VegaPer1PctUSD string `json:"vega_per_1pct_usd"`
		} `json:"greeks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if resp.Status != "success" {
		t.Fatalf("status = %q", resp.Status)
	}
	if resp.Model != "Black '76" {
		t.Fatalf("model = %q", resp.Model)
	}
	if resp.Type != "CALL" {
		t.Fatalf("type = %q", resp.Type)
	}
	if resp.Inputs.Forward != 5500 || resp.Inputs.Strike != 5000 {
		t.Fatalf("inputs not echoed: %+v", resp.Inputs)
	}
	if resp.Pricing.Premium != "499.00" {
		t.Fatalf("premium = %q", resp.Pricing.Premium)
	}
	if resp.Greeks.Delta != "0.9833" {
		t.Fatalf("delta = %q", resp.Greeks.Delta)
	}
	if resp.Greeks.Gamma != "0.000137" {
		t.Fatalf("gamma = %q", resp.Greeks.Gamma)
	}
	if resp.Greeks.VegaPer1PctUSD != "51.22" {
		t.Fatalf("vega_per_1pct_usd = %q", resp.Greeks.VegaPer1PctUSD)
	}
}

// 边界拒绝：每个非法参数都必须得到结构化错误响应而不是传输层故障
func TestPriceOption_InvalidInputs(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name   string
		mutate func(map[string]any)
		expect string
	}{
		{"zero forward", func(b map[string]any) { b["forward_price"] = 0 }, "forward"},
		{"negative strike", func(b map[string]any) { b["strike"] = -5 }, "strike"},
		{"zero dcf", func(b map[string]any) { b["dcf"] = 0 }, "dcf"},
		{"zero df", func(b map[string]any) { b["df"] = 0 }, "df"},
		{"negative volatility", func(b map[string]any) { b["implied_volatility"] = -0.1 }, "volatility"},
		{"unknown type", func(b map[string]any) { b["option_type"] = "straddle" }, "straddle"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := referenceBody()
			tc.mutate(body)

			w := doPrice(t, router, body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}

			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal error response: %v", err)
			}
			if resp.Status != "error" {
				t.Fatalf("status = %q", resp.Status)
			}
			if resp.Message == "" {
				t.Fatal("error message must not be empty")
			}
			if !bytes.Contains([]byte(resp.Message), []byte(tc.expect)) {
				t.Fatalf("message %q does not identify %q", resp.Message, tc.expect)
			}
		})
	}
}

func TestPriceOption_MalformedBody(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/tools/"+ToolPriceOptionBlack76, bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if resp.Status != "error" {
		t.Fatalf("status = %q", resp.Status)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal health response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Fatalf("health status = %v", resp["status"])
	}
}

func TestRoot(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Service string   `json:"service"`
		Model   string   `json:"model"`
		Tools   []string `json:"tools"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal root response: %v", err)
	}
	if resp.Service != "optionpricing" {
		t.Fatalf("service = %q", resp.Service)
	}
	if resp.Model != "Black '76" {
		t.Fatalf("model = %q", resp.Model)
	}
	if len(resp.Tools) != 1 || resp.Tools[0] != ToolPriceOptionBlack76 {
		t.Fatalf("tools = %v", resp.Tools)
	}
}
