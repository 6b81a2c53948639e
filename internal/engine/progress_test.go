package engine

import (
	"testing"
	"time"
)

func testDocument() *Document {
	subjects := demoSubjects()
	return &Document{
		Meta:       Meta{App: "LevelUp", Version: 1},
		Subjects:   subjects,
		Challenges: demoChallenges(subjects),
	}
}

func newTestEngine(doc *Document) *Engine {
	e := New(doc)
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	e.SetClock(func() time.Time { return base })
	return e
}

func newTestHero(id string) *Hero {
	return &Hero{
		ID:                      id,
		Name:                    "Hero " + id,
		Level:                   1,
		XPMax:                   DefaultXPMax,
		WeekXPMax:               DefaultWeekXPMax,
		NextChallengeMultiplier: 1,
		ChallengeCompletions:    map[string]CompletionRecord{},
	}
}

func TestApplyXPMultiLevelRollover(t *testing.T) {
	doc := testDocument()
	e := newTestEngine(doc)
	h := newTestHero("h1")

	res := e.ApplyXP(h, 250, SourceChallenge)

	if h.Level != 3 {
		t.Fatalf("level=%d, want 3", h.Level)
	}
	if h.XP != 50 {
		t.Fatalf("xp=%d, want 50", h.XP)
	}
	if res.LevelsGained != 2 {
		t.Fatalf("levels gained=%d, want 2", res.LevelsGained)
	}
	if len(h.PendingRewards) != 2 {
		t.Fatalf("pending rewards=%d, want 2", len(h.PendingRewards))
	}
	if h.PendingRewards[0].Level != 2 || h.PendingRewards[1].Level != 3 {
		t.Fatalf("pending levels=%d,%d, want 2,3", h.PendingRewards[0].Level, h.PendingRewards[1].Level)
	}
}

func TestApplyXPInvariantRange(t *testing.T) {
	doc := testDocument()
	e := newTestEngine(doc)
	h := newTestHero("h1")

	for _, delta := range []int{0, 1, 99, 100, 101, 250, 1000, -50} {
		e.ApplyXP(h, delta, SourceWeekly)
		if h.XP < 0 || h.XP >= h.XPMax {
			t.Fatalf("after delta %d: xp=%d out of [0,%d)", delta, h.XP, h.XPMax)
		}
	}
}

func TestApplyXPNegativeClampsAtZero(t *testing.T) {
	e := newTestEngine(testDocument())
	h := newTestHero("h1")
	h.XP = 30

	e.ApplyXP(h, -80, SourceWeekly)
	if h.XP != 0 {
		t.Fatalf("xp=%d, want 0", h.XP)
	}
	if h.Level != 1 {
		t.Fatalf("level=%d, want 1", h.Level)
	}
}

func TestApplyXPZeroXPMaxDisablesRollover(t *testing.T) {
	e := newTestEngine(testDocument())
	h := newTestHero("h1")
	h.XPMax = 0

	e.ApplyXP(h, 500, SourceChallenge)
	if h.Level != 1 {
		t.Fatalf("level=%d, want 1", h.Level)
	}
	if h.XP != 500 {
		t.Fatalf("xp=%d, want 500", h.XP)
	}
	if len(h.PendingRewards) != 0 {
		t.Fatalf("pending rewards=%d, want 0", len(h.PendingRewards))
	}
}

func TestApplyXPMultiplierOneShot(t *testing.T) {
	e := newTestEngine(testDocument())
	h := newTestHero("h1")
	h.NextChallengeMultiplier = 2

	res := e.ApplyXP(h, 10, SourceChallenge)
	if res.Applied != 20 {
		t.Fatalf("applied=%d, want 20", res.Applied)
	}
	if h.NextChallengeMultiplier != 1 {
		t.Fatalf("multiplier=%d, want 1", h.NextChallengeMultiplier)
	}

	res = e.ApplyXP(h, 10, SourceChallenge)
	if res.Applied != 10 {
		t.Fatalf("second applied=%d, want 10", res.Applied)
	}
}

func TestApplyXPMultiplierIgnoredForNonChallenge(t *testing.T) {
	e := newTestEngine(testDocument())
	h := newTestHero("h1")
	h.NextChallengeMultiplier = 2

	res := e.ApplyXP(h, 10, SourceWeekly)
	if res.Applied != 10 {
		t.Fatalf("applied=%d, want 10", res.Applied)
	}
	if h.NextChallengeMultiplier != 2 {
		t.Fatalf("multiplier=%d, want 2 (unconsumed)", h.NextChallengeMultiplier)
	}
}

func TestBonusMedalEligibility(t *testing.T) {
	doc := testDocument()
	e := newTestEngine(doc)
	h := newTestHero("h1")
	h.LevelStartAt = 1

	// Three completions inside the window: easy, medium, hard.
	h.ChallengeCompletions["ch-tech-01"] = CompletionRecord{At: 10, Points: 10}
	h.ChallengeCompletions["ch-tech-03"] = CompletionRecord{At: 11, Points: 20}
	h.ChallengeCompletions["ch-tech-05"] = CompletionRecord{At: 12, Points: 40}

	e.ApplyXP(h, 100, SourceChallenge)

	if h.Level != 2 {
		t.Fatalf("level=%d, want 2", h.Level)
	}
	if h.Medals != 1 {
		t.Fatalf("medals=%d, want 1 (bonus)", h.Medals)
	}
	if len(h.PendingRewards) != 1 || !h.PendingRewards[0].BonusMedal {
		t.Fatalf("expected a pending reward flagged bonusMedal")
	}
}

func TestBonusMedalRequiresMediumAndHard(t *testing.T) {
	doc := testDocument()
	e := newTestEngine(doc)
	h := newTestHero("h1")
	h.LevelStartAt = 1

	// Three completions but all easy/medium: no hard, no medal.
	h.ChallengeCompletions["ch-tech-01"] = CompletionRecord{At: 10, Points: 10}
	h.ChallengeCompletions["ch-tech-02"] = CompletionRecord{At: 11, Points: 10}
	h.ChallengeCompletions["ch-tech-03"] = CompletionRecord{At: 12, Points: 20}

	e.ApplyXP(h, 100, SourceChallenge)
	if h.Medals != 0 {
		t.Fatalf("medals=%d, want 0", h.Medals)
	}
	if len(h.PendingRewards) != 1 || h.PendingRewards[0].BonusMedal {
		t.Fatalf("pending reward should not carry bonusMedal")
	}
}

func TestAllowedStatsFromTopSubject(t *testing.T) {
	doc := testDocument()
	e := newTestEngine(doc)
	h := newTestHero("h1")
	h.LevelStartAt = 1

	// All window completions are Tecnología: heuristic gives INT+CRE.
	h.ChallengeCompletions["ch-tech-01"] = CompletionRecord{At: 10, Points: 10}
	h.ChallengeCompletions["ch-tech-03"] = CompletionRecord{At: 11, Points: 20}

	e.ApplyXP(h, 100, SourceChallenge)

	opts := h.PendingRewards[0].AutoStat.Options
	if len(opts) != 2 || opts[0] != StatINT || opts[1] != StatCRE {
		t.Fatalf("options=%v, want [INT CRE]", opts)
	}
}

func TestAllowedStatsLinkedStatsWin(t *testing.T) {
	doc := testDocument()
	doc.Subjects[0].LinkedStats = []StatKey{StatRES}
	e := newTestEngine(doc)
	h := newTestHero("h1")
	h.LevelStartAt = 1
	h.ChallengeCompletions["ch-tech-01"] = CompletionRecord{At: 10, Points: 10}

	e.ApplyXP(h, 100, SourceChallenge)

	opts := h.PendingRewards[0].AutoStat.Options
	if len(opts) != 1 || opts[0] != StatRES {
		t.Fatalf("options=%v, want [RES]", opts)
	}
}

func TestAllowedStatsDefaultAllWhenWindowEmpty(t *testing.T) {
	e := newTestEngine(testDocument())
	h := newTestHero("h1")

	e.ApplyXP(h, 100, SourceChallenge)

	opts := h.PendingRewards[0].AutoStat.Options
	if len(opts) != len(AllStats) {
		t.Fatalf("options=%v, want all five", opts)
	}
}

func TestWindowSkipsDeletedChallenges(t *testing.T) {
	doc := testDocument()
	e := newTestEngine(doc)
	h := newTestHero("h1")
	h.LevelStartAt = 1
	h.ChallengeCompletions["ghost"] = CompletionRecord{At: 10, Points: 40}

	p := e.WindowProgress(h)
	if p.Total != 0 {
		t.Fatalf("window total=%d, want 0 (ghost skipped)", p.Total)
	}
}

func TestWindowIgnoresCompletionsBeforeLevelStart(t *testing.T) {
	doc := testDocument()
	e := newTestEngine(doc)
	h := newTestHero("h1")
	h.LevelStartAt = 1000
	h.ChallengeCompletions["ch-tech-01"] = CompletionRecord{At: 500, Points: 10}
	h.ChallengeCompletions["ch-tech-03"] = CompletionRecord{At: 1500, Points: 20}

	p := e.WindowProgress(h)
	if p.Total != 1 {
		t.Fatalf("window total=%d, want 1", p.Total)
	}
}

func TestGuessStatsForName(t *testing.T) {
	cases := []struct {
		name string
		want []StatKey
	}{
		{"Matemáticas", []StatKey{StatINT}},
		{"Tecnología", []StatKey{StatINT, StatCRE}},
		{"Arte", []StatKey{StatCRE}},
		{"Español", []StatKey{StatSAB}},
		{"Inglés", []StatKey{StatCAR}},
		{"Tutoría", []StatKey{StatCAR, StatSAB}},
		{"Química", []StatKey{StatSAB}},
		{"", []StatKey{StatSAB}},
	}
	for _, tc := range cases {
		got := guessStatsForName(tc.name)
		if len(got) != len(tc.want) {
			t.Fatalf("%q: got %v, want %v", tc.name, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%q: got %v, want %v", tc.name, got, tc.want)
			}
		}
	}
}
