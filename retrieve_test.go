package main

import "testing"

func testRetrievalConfig() Config {
	return Config{
		RetrievalTopN:       10,
		RetrievalFallbackN:  5,
		KeywordMatchScore:   2,
		KeywordPresentScore: 1,
		RowColumnBonus:      3,
	}
}

func TestScoreRuleNarrativeMentionRaisesScore(t *testing.T) {
	cfg := testRetrievalConfig()
	rule := RuleRecord{
		ID:          "CA1-0070",
		Field:       "Goodwill Deduction",
		RowColumn:   "R070, C010",
		Instruction: "Deduct goodwill from CET1 items.",
	}

	with := scoreRule(rule, "the bank holds goodwill of £5m", cfg)
	without := scoreRule(rule, "the bank issued new shares", cfg)

	if with <= without {
		t.Fatalf("expected narrative mention to raise score: with=%d without=%d", with, without)
	}
	if without == 0 {
		t.Fatal("expected keyword present in rule to score even without a narrative mention")
	}
}

func TestScoreRuleRowColumnBonus(t *testing.T) {
	cfg := testRetrievalConfig()
	rule := RuleRecord{
		ID:          "CA1-0010",
		Field:       "Common Equity Tier 1 Capital",
		RowColumn:   "R010, C010",
		Instruction: "Report CET1 items.",
	}

	plain := scoreRule(rule, "cet1 capital of £50m", cfg)
	withRef := scoreRule(rule, "cet1 capital of £50m reported in r010", cfg)

	if withRef != plain+cfg.RowColumnBonus {
		t.Fatalf("expected row/column bonus of %d: plain=%d withRef=%d", cfg.RowColumnBonus, plain, withRef)
	}
}

func TestRetrieveRulesDropsZeroScores(t *testing.T) {
	cfg := testRetrievalConfig()
	rules := []RuleRecord{
		{ID: "A", Field: "Goodwill Deduction", Instruction: "Deduct goodwill."},
		{ID: "B", Field: "Reporting Calendar", Instruction: "Submit by the 11th business day."},
	}

	got := RetrieveRules("goodwill of £5m on the balance sheet", rules, cfg)
	if len(got) != 1 || got[0].ID != "A" {
		t.Fatalf("expected only the goodwill rule, got %+v", got)
	}
}

func TestRetrieveRulesFallbackWhenNothingScores(t *testing.T) {
	cfg := testRetrievalConfig()
	var rules []RuleRecord
	for _, id := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		rules = append(rules, RuleRecord{ID: id, Field: "Calendar", Instruction: "Submit on time."})
	}

	got := RetrieveRules("completely unrelated narrative", rules, cfg)
	if len(got) != cfg.RetrievalFallbackN {
		t.Fatalf("expected fallback of %d rules, got %d", cfg.RetrievalFallbackN, len(got))
	}
	for i, rule := range got {
		if rule.ID != rules[i].ID {
			t.Fatalf("expected fallback to preserve corpus order, got %+v", got)
		}
	}
}

func TestRetrieveRulesFallbackSmallCorpus(t *testing.T) {
	cfg := testRetrievalConfig()
	rules := []RuleRecord{{ID: "A", Field: "Calendar", Instruction: "Submit on time."}}

	got := RetrieveRules("unrelated", rules, cfg)
	if len(got) != 1 {
		t.Fatalf("expected the whole corpus when smaller than fallback, got %d", len(got))
	}
}

func TestRetrieveRulesTopNCapAndStableOrder(t *testing.T) {
	cfg := testRetrievalConfig()
	var rules []RuleRecord
	for i := 0; i < 15; i++ {
		rules = append(rules, RuleRecord{
			ID:          string(rune('A' + i)),
			Field:       "Goodwill Deduction",
			Instruction: "Deduct goodwill.",
		})
	}

	got := RetrieveRules("goodwill write-off", rules, cfg)
	if len(got) != cfg.RetrievalTopN {
		t.Fatalf("expected %d rules, got %d", cfg.RetrievalTopN, len(got))
	}
	// Equal scores keep corpus order.
	for i, rule := range got {
		if rule.ID != rules[i].ID {
			t.Fatalf("expected stable tie-break on corpus order, position %d got %s", i, rule.ID)
		}
	}
}

func TestRetrieveRulesRanksStrongerMatchesFirst(t *testing.T) {
	cfg := testRetrievalConfig()
	rules := []RuleRecord{
		{ID: "weak", Field: "Tier 2 Capital", Instruction: "Report subordinated loans."},
		{ID: "strong", Field: "Goodwill Deduction", Instruction: "Deduct goodwill from CET1 items."},
	}

	got := RetrieveRules("the bank deducts goodwill from its cet1 capital", rules, cfg)
	if len(got) != 2 {
		t.Fatalf("expected both rules retrieved, got %d", len(got))
	}
	if got[0].ID != "strong" {
		t.Fatalf("expected the goodwill rule ranked first, got %s", got[0].ID)
	}
}
