package store

import (
	"context"
	"testing"
	"time"
)

func fixedTime() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestLLMEvents_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "career-plan", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "assessment", InputTokens: 50, OutputTokens: 200, LatencyMs: 300, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "assessment", LatencyMs: 100, Success: false, ErrorMessage: "quota"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	// Newest first.
	if all[0].ErrorMessage != "quota" || all[0].Success {
		t.Errorf("expected failed event first, got %+v", all[0])
	}
	if all[2].RequestID == "" {
		t.Error("expected request id to be assigned")
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 event, got %d", len(limited))
	}

	byPurpose, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "career-plan"})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(byPurpose) != 1 || byPurpose[0].ResponseBody != "resp" {
		t.Fatalf("unexpected purpose filter result: %+v", byPurpose)
	}

	got, err := repo.GetLLMEvent(ctx, byPurpose[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != "req" {
		t.Fatalf("unexpected event: %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing event, got %+v", missing)
	}
}

func TestLLMEvents_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "evaluation", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "evaluation", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "assessment", InputTokens: 5, OutputTokens: 5, LatencyMs: 50, Success: false},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	purposes, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(purposes) != 2 {
		t.Fatalf("expected 2 purposes, got %d", len(purposes))
	}
	eval := purposes[1]
	if eval.Purpose != "evaluation" || eval.Calls != 2 || eval.InputTokens != 40 || eval.OutputTokens != 60 || eval.AvgLatencyMs != 200 {
		t.Errorf("unexpected evaluation usage: %+v", eval)
	}

	models, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(models) != 1 || models[0].Calls != 2 {
		t.Fatalf("expected failed calls excluded from model usage, got %+v", models)
	}
}
