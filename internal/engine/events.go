package engine

// Event gating. Unlock rules gate global progress and fail closed; an
// unknown rule type never unlocks. Eligibility rules gate one hero's access
// to an already-unlocked event and fail open; an absent or unknown rule
// means no restriction.

// IsUnlocked reports whether an event is open, either by explicit override
// or by its unlock rule.
func (e *Engine) IsUnlocked(ev *Event) bool {
	if ev == nil {
		return false
	}
	if ev.Unlocked {
		return true
	}
	if ev.Unlock == nil {
		return false
	}
	switch ev.Unlock.Type {
	case "completions_total", "challengesCompleted", "completionsTotal":
		return e.TotalCompletions() >= ev.Unlock.Count
	case "level_any", "levelAny":
		threshold := ev.Unlock.Min
		if threshold < 1 {
			threshold = 1
		}
		for _, h := range e.doc.Heroes {
			if h.Level >= threshold {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// IsEligible reports whether a hero may challenge an unlocked event.
func (e *Engine) IsEligible(hero *Hero, ev *Event) bool {
	if hero == nil || ev == nil {
		return false
	}
	if ev.Eligibility == nil {
		return true
	}
	switch ev.Eligibility.Type {
	case "level", "minLevel":
		threshold := ev.Eligibility.Min
		if threshold < 1 {
			threshold = 1
		}
		return hero.Level >= threshold
	case "completions_hero", "challengesCompletedHero":
		return len(hero.ChallengeCompletions) >= ev.Eligibility.Count
	case "difficultyCompleted":
		need := ev.Eligibility.Count
		if need < 1 {
			need = 1
		}
		diff := NormalizeDifficulty(ev.Eligibility.Difficulty)
		return e.completionsByDifficulty(hero, diff) >= need
	default:
		return true
	}
}

// TotalCompletions sums completion-map sizes across every hero.
func (e *Engine) TotalCompletions() int {
	n := 0
	for _, h := range e.doc.Heroes {
		n += len(h.ChallengeCompletions)
	}
	return n
}

func (e *Engine) completionsByDifficulty(hero *Hero, diff Difficulty) int {
	n := 0
	for cid := range hero.ChallengeCompletions {
		ch, err := e.doc.Challenge(cid)
		if err != nil {
			continue
		}
		if ch.Difficulty == diff {
			n++
		}
	}
	return n
}

// MarkBossDefeated records a boss victory on the hero. Idempotent; requires
// the event to be unlocked and the hero eligible.
func (e *Engine) MarkBossDefeated(hero *Hero, ev *Event) error {
	if !e.IsUnlocked(ev) {
		return ErrEventLocked
	}
	if !e.IsEligible(hero, ev) {
		return ErrNotEligible
	}
	for _, id := range hero.DefeatedBosses {
		if id == ev.ID {
			return nil
		}
	}
	hero.DefeatedBosses = append(hero.DefeatedBosses, ev.ID)
	return nil
}
