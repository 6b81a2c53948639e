package engine

// ToggleResult reports what a completion toggle did.
type ToggleResult struct {
	Completed   bool
	Awarded     int
	LevelBefore int
	LevelAfter  int
}

// ToggleCompletion flips a challenge between completed and not-completed for
// one hero.
//
// Completing awards points × the one-shot multiplier (consumed here, before
// the XP grant, so it cannot apply twice), records the ledger entry with the
// exact amount awarded, snapshots a history row, grants an immediate medal
// for hard challenges, then feeds the XP through ApplyXP.
//
// Un-completing reverses the original awarded amount exactly (as recorded,
// not recomputed), walking levels back down when XP goes negative and
// flooring at zero on level 1. Rewards for levels no longer attained are
// pruned, not preserved.
func (e *Engine) ToggleCompletion(hero *Hero, ch *Challenge) ToggleResult {
	res := ToggleResult{LevelBefore: hero.Level}

	if hero.ChallengeCompletions == nil {
		hero.ChallengeCompletions = map[string]CompletionRecord{}
	}

	if rec, done := hero.ChallengeCompletions[ch.ID]; done {
		e.uncomplete(hero, ch, rec)
		res.Completed = false
		res.Awarded = -rec.Points
		res.LevelAfter = hero.Level
		return res
	}

	awarded := ch.Points
	if hero.NextChallengeMultiplier > 1 {
		awarded *= hero.NextChallengeMultiplier
		hero.NextChallengeMultiplier = 1
	}

	now := e.nowMillis()
	hero.ChallengeCompletions[ch.ID] = CompletionRecord{At: now, Points: awarded}

	if !hasHistoryEntry(hero, ch.ID) {
		hero.ChallengeHistory = append(hero.ChallengeHistory, HistoryEntry{
			ChallengeID: ch.ID,
			Title:       ch.Title,
			Subject:     ch.Subject,
			Difficulty:  ch.Difficulty,
			Points:      awarded,
			At:          now,
		})
	}

	// Hard challenges pay a medal immediately, separate from the per-level
	// bonus medal.
	if ch.Difficulty == DifficultyHard {
		hero.Medals++
	}

	e.ApplyXP(hero, awarded, SourceChallenge)

	res.Completed = true
	res.Awarded = awarded
	res.LevelAfter = hero.Level
	return res
}

func (e *Engine) uncomplete(hero *Hero, ch *Challenge, rec CompletionRecord) {
	delete(hero.ChallengeCompletions, ch.ID)

	for i, entry := range hero.ChallengeHistory {
		if entry.ChallengeID == ch.ID {
			hero.ChallengeHistory = append(hero.ChallengeHistory[:i], hero.ChallengeHistory[i+1:]...)
			break
		}
	}

	if ch.Difficulty == DifficultyHard && hero.Medals > 0 {
		hero.Medals--
	}

	// Inverse rollover: walk back whole levels while XP is in debt. Debt
	// left over at level 1 is forgiven (floor at zero).
	hero.XP -= rec.Points
	for hero.XP < 0 && hero.Level > 1 && hero.XPMax > 0 {
		hero.Level--
		hero.XP += hero.XPMax
	}
	if hero.XP < 0 {
		hero.XP = 0
	}

	// Drop rewards for levels the hero no longer holds. Bonus medals that
	// came with a pruned level-up go back too.
	kept := hero.PendingRewards[:0]
	for _, p := range hero.PendingRewards {
		if p.Level <= hero.Level {
			kept = append(kept, p)
			continue
		}
		if p.BonusMedal && hero.Medals > 0 {
			hero.Medals--
		}
	}
	hero.PendingRewards = kept

	keptHist := hero.RewardsHistory[:0]
	for _, r := range hero.RewardsHistory {
		if r.Level <= hero.Level {
			keptHist = append(keptHist, r)
		}
	}
	hero.RewardsHistory = keptHist
}

func hasHistoryEntry(hero *Hero, challengeID string) bool {
	for _, entry := range hero.ChallengeHistory {
		if entry.ChallengeID == challengeID {
			return true
		}
	}
	return false
}

// GrantWeekXP grants small-activity XP against the weekly quota. The grant
// is capped at the remaining quota; challenges never touch this counter.
func (e *Engine) GrantWeekXP(hero *Hero, amount int) int {
	if amount <= 0 {
		return 0
	}
	remaining := hero.WeekXPMax - hero.WeekXP
	if remaining <= 0 {
		return 0
	}
	grant := min(amount, remaining)
	hero.WeekXP += grant
	e.ApplyXP(hero, grant, SourceWeekly)
	return grant
}

// ResetWeek starts a fresh weekly quota.
func (e *Engine) ResetWeek(hero *Hero) {
	hero.WeekXP = 0
}
