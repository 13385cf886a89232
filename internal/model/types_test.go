package model

import (
	"testing"
	"time"
)

func TestLinkMethod_Priority(t *testing.T) {
	// Fixed total order: cashtag > dict > synonym > ner.
	if MethodCashtag.Priority() <= MethodDict.Priority() {
		t.Errorf("cashtag priority %d not above dict %d", MethodCashtag.Priority(), MethodDict.Priority())
	}
	if MethodDict.Priority() <= MethodSynonym.Priority() {
		t.Errorf("dict priority %d not above synonym %d", MethodDict.Priority(), MethodSynonym.Priority())
	}
	if MethodSynonym.Priority() <= MethodNER.Priority() {
		t.Errorf("synonym priority %d not above ner %d", MethodSynonym.Priority(), MethodNER.Priority())
	}
	if LinkMethod("bogus").Priority() != 0 {
		t.Errorf("unknown method priority = %d, want 0", LinkMethod("bogus").Priority())
	}
}

func TestLinkMethod_Known(t *testing.T) {
	for _, m := range []LinkMethod{MethodCashtag, MethodDict, MethodSynonym, MethodNER} {
		if !m.Known() {
			t.Errorf("Known(%q) = false, want true", m)
		}
	}
	if LinkMethod("").Known() {
		t.Error("Known(\"\") = true, want false")
	}
}

func TestTicker_ValidAt(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		ticker Ticker
		at     time.Time
		want   bool
	}{
		{"open window", Ticker{Symbol: "AAPL"}, time.Now().UTC(), true},
		{"inside window", Ticker{Symbol: "X", ValidFrom: &from, ValidTo: &to}, from.AddDate(1, 0, 0), true},
		{"before valid_from", Ticker{Symbol: "X", ValidFrom: &from}, from.AddDate(-1, 0, 0), false},
		{"after valid_to", Ticker{Symbol: "X", ValidTo: &to}, to.AddDate(0, 0, 1), false},
		{"nil valid_to still valid", Ticker{Symbol: "X", ValidFrom: &from}, to.AddDate(10, 0, 0), true},
	}

	for _, tt := range tests {
		if got := tt.ticker.ValidAt(tt.at); got != tt.want {
			t.Errorf("%s: ValidAt = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValidateEmbedding(t *testing.T) {
	ok := EmbeddingRecord{ArticleID: 1, Embedding: make([]float32, 384), Model: "MiniLM-L6-v2", Dims: 384}
	if err := ValidateEmbedding(ok); err != nil {
		t.Errorf("ValidateEmbedding(ok) = %v, want nil", err)
	}

	short := EmbeddingRecord{ArticleID: 1, Embedding: make([]float32, 300), Model: "MiniLM-L6-v2", Dims: 384}
	if err := ValidateEmbedding(short); err == nil {
		t.Error("ValidateEmbedding(300-length vector, dims=384) = nil, want error")
	}

	zero := EmbeddingRecord{ArticleID: 1, Dims: 0}
	if err := ValidateEmbedding(zero); err == nil {
		t.Error("ValidateEmbedding(dims=0) = nil, want error")
	}
}

func TestValidationError_Message(t *testing.T) {
	err := Invalid("url", "required")
	if err.Field != "url" {
		t.Errorf("Field = %q, want %q", err.Field, "url")
	}
	if err.Error() != "invalid url: required" {
		t.Errorf("Error() = %q, want %q", err.Error(), "invalid url: required")
	}
}
