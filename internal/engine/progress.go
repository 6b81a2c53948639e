package engine

import (
	"regexp"
	"time"
)

// XPSource tags where an XP grant came from. Only challenge grants consume
// the one-shot multiplier.
type XPSource string

const (
	SourceChallenge XPSource = "challenge"
	SourceReward    XPSource = "reward"
	SourceWeekly    XPSource = "weekly"
)

// Engine owns every mutation of the canonical document. It does not persist
// or render; callers must save after each public operation.
type Engine struct {
	doc *Document
	now func() time.Time

	// claiming is the per-hero single-flight latch for reward claims.
	claiming map[string]bool
}

func New(doc *Document) *Engine {
	return &Engine{
		doc:      doc,
		now:      time.Now,
		claiming: map[string]bool{},
	}
}

// SetClock overrides the time source. Used by tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

func (e *Engine) Document() *Document { return e.doc }

func (e *Engine) nowMillis() int64 { return e.now().UnixMilli() }

// ApplyXPResult reports what a grant did, for callers that render feedback.
type ApplyXPResult struct {
	Applied        int
	MultiplierUsed int
	LevelsGained   int
}

// ApplyXP adds delta XP to the hero and runs the level-up rollover loop.
// A non-positive xpMax disables rollover entirely (the hero cannot level
// up); negative results clamp at zero. Each rollover iteration captures its
// own completion-window context before the window resets, so a single large
// grant that jumps several levels still evaluates every level's bonus medal
// and stat options against the right window.
func (e *Engine) ApplyXP(hero *Hero, delta int, source XPSource) ApplyXPResult {
	res := ApplyXPResult{MultiplierUsed: 1}

	if source == SourceChallenge && delta > 0 && hero.NextChallengeMultiplier > 1 {
		res.MultiplierUsed = hero.NextChallengeMultiplier
		delta *= hero.NextChallengeMultiplier
		hero.NextChallengeMultiplier = 1
	}
	res.Applied = delta

	// Initialize the window lazily so pre-existing completions are not
	// retroactively credited to a level that started before tracking.
	if hero.LevelStartAt <= 0 {
		hero.LevelStartAt = e.nowMillis()
	}

	hero.XP += delta
	if hero.XP < 0 {
		hero.XP = 0
	}

	for hero.XPMax > 0 && hero.XP >= hero.XPMax {
		ctx := e.completionWindow(hero)

		hero.XP -= hero.XPMax
		hero.Level++
		res.LevelsGained++

		if ctx.eligibleForMedal {
			hero.Medals++
		}
		hero.PendingRewards = append(hero.PendingRewards, PendingReward{
			Level:     hero.Level,
			CreatedAt: e.nowMillis(),
			AutoStat: AutoStat{
				Required: true,
				Options:  ctx.allowedStats,
			},
			BonusMedal: ctx.eligibleForMedal,
		})

		hero.LevelStartAt = e.nowMillis()
	}

	return res
}

// WindowProgress describes how far the hero is from the bonus medal for the
// level in progress.
type WindowProgress struct {
	Total        int
	NeedTotal    int
	NeedMedium   bool
	NeedHard     bool
	Eligible     bool
	AllowedStats []StatKey
}

// WindowProgress evaluates the current completion window without mutating
// anything.
func (e *Engine) WindowProgress(hero *Hero) WindowProgress {
	ctx := e.completionWindow(hero)
	need := 3 - ctx.total
	if need < 0 {
		need = 0
	}
	return WindowProgress{
		Total:        ctx.total,
		NeedTotal:    need,
		NeedMedium:   !ctx.hasMedium,
		NeedHard:     !ctx.hasHard,
		Eligible:     ctx.eligibleForMedal,
		AllowedStats: ctx.allowedStats,
	}
}

type windowContext struct {
	total            int
	hasMedium        bool
	hasHard          bool
	eligibleForMedal bool
	allowedStats     []StatKey
}

// completionWindow scans the hero's ledger for completions recorded since
// the current level began. Completions pointing at deleted challenges are
// skipped rather than failing.
func (e *Engine) completionWindow(hero *Hero) windowContext {
	since := hero.LevelStartAt

	var ctx windowContext
	subjCount := map[string]int{}
	for cid, rec := range hero.ChallengeCompletions {
		if rec.At <= 0 || rec.At < since {
			continue
		}
		ch, err := e.doc.Challenge(cid)
		if err != nil {
			continue
		}
		ctx.total++
		switch ch.Difficulty {
		case DifficultyMedium:
			ctx.hasMedium = true
		case DifficultyHard:
			ctx.hasHard = true
		}
		sid := ch.SubjectID
		if sid == "" {
			sid = ch.Subject
		}
		if sid != "" {
			subjCount[sid]++
		}
	}

	ctx.eligibleForMedal = ctx.total >= 3 && ctx.hasMedium && ctx.hasHard

	maxN := 0
	for _, n := range subjCount {
		if n > maxN {
			maxN = n
		}
	}

	allowed := map[StatKey]bool{}
	for sid, n := range subjCount {
		if n != maxN || n == 0 {
			continue
		}
		subj := e.doc.Subject(sid)
		var linked []StatKey
		switch {
		case subj != nil && len(subj.LinkedStats) > 0:
			linked = subj.LinkedStats
		case subj != nil:
			linked = guessStatsForName(subj.Name)
		default:
			linked = guessStatsForName("")
		}
		for _, k := range linked {
			allowed[k] = true
		}
	}
	if len(allowed) == 0 {
		for _, k := range AllStats {
			allowed[k] = true
		}
	}

	for _, k := range AllStats {
		if allowed[k] {
			ctx.allowedStats = append(ctx.allowedStats, k)
		}
	}
	return ctx
}

var (
	reSubjMath    = regexp.MustCompile(`(?i)(mat|mate|matem|math)`)
	reSubjTech    = regexp.MustCompile(`(?i)(tec|tecnolog|tech)`)
	reSubjArt     = regexp.MustCompile(`(?i)(art|arte|diseñ|disen|design)`)
	reSubjSpanish = regexp.MustCompile(`(?i)(españ|espan|lect|redac|leng|spanish)`)
	reSubjEnglish = regexp.MustCompile(`(?i)(ingl|english)`)
	reSubjCivics  = regexp.MustCompile(`(?i)(tutor|civ|conviv)`)
)

// guessStatsForName maps a subject name onto stat keys when the subject has
// no explicit linkedStats. Unrecognized names earn SAB.
func guessStatsForName(name string) []StatKey {
	switch {
	case reSubjMath.MatchString(name):
		return []StatKey{StatINT}
	case reSubjTech.MatchString(name):
		return []StatKey{StatINT, StatCRE}
	case reSubjArt.MatchString(name):
		return []StatKey{StatCRE}
	case reSubjSpanish.MatchString(name):
		return []StatKey{StatSAB}
	case reSubjEnglish.MatchString(name):
		return []StatKey{StatCAR}
	case reSubjCivics.MatchString(name):
		return []StatKey{StatCAR, StatSAB}
	default:
		return []StatKey{StatSAB}
	}
}
