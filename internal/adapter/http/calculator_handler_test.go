package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
)

func calcRequest(t *testing.T, target string) (int, map[string]any) {
	t.Helper()
	e := newEchoWithValidator()
	req := httptest.NewRequest(stdhttp.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	if err := NewCalculatorHandler().GoldValue(e.NewContext(req, rec)); err != nil {
		t.Fatalf("GoldValue error: %v", err)
	}
	var body map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("bad json: %v", err)
		}
	}
	return rec.Code, body
}

func TestGoldValuePreview(t *testing.T) {
	code, body := calcRequest(t, "/calculator/gold-value?weight_grams=10&price_per_gram=3500&karat=18k")
	if code != stdhttp.StatusOK {
		t.Fatalf("status = %d, body %+v", code, body)
	}
	// 10g x 3500 x 0.75
	if got := body["estimated_value"].(float64); got != 26250 {
		t.Fatalf("estimated_value = %v, want 26250", got)
	}
	if got := body["purity_fraction"].(string); got != "0.75" {
		t.Fatalf("purity_fraction = %v, want 0.75", got)
	}
}

func TestGoldValuePreview_UnknownKaratFallsBack(t *testing.T) {
	code, body := calcRequest(t, "/calculator/gold-value?weight_grams=10&price_per_gram=3500&karat=19k")
	if code != stdhttp.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got := body["estimated_value"].(float64); got != 26250 {
		t.Fatalf("estimated_value = %v, want the 18k fallback 26250", got)
	}
}

func TestGoldValuePreview_RejectsMissingInputs(t *testing.T) {
	for name, target := range map[string]string{
		"no weight": "/calculator/gold-value?price_per_gram=3500&karat=18k",
		"no price":  "/calculator/gold-value?weight_grams=10&karat=18k",
		"no karat":  "/calculator/gold-value?weight_grams=10&price_per_gram=3500",
	} {
		code, _ := calcRequest(t, target)
		if code != stdhttp.StatusUnprocessableEntity {
			t.Fatalf("%s: status = %d, want 422", name, code)
		}
	}
}
