package engine

import (
	"fmt"
	"time"
)

// RewardOption is one entry of the fixed claim catalog.
type RewardOption struct {
	ID    string
	Label string
	Desc  string
	Icon  string
	Badge string
}

const (
	RewardStatPlus1  = "stat+1"
	RewardXPPlus30   = "xp+30"
	RewardMedalPlus1 = "medal+1"
	RewardDoubleNext = "doubleNext"
)

// RewardCatalog lists the four claimable rewards in display order.
var RewardCatalog = []RewardOption{
	{ID: RewardStatPlus1, Label: "+1 a una estadística", Desc: "Elige una stat para subir en +1.", Icon: "⚡", Badge: "+1 stat"},
	{ID: RewardXPPlus30, Label: "+30 XP", Desc: "Un empujón extra en tu barra de XP.", Icon: "⭐", Badge: "+XP"},
	{ID: RewardMedalPlus1, Label: "+1 medalla", Desc: "Una medalla para la tienda.", Icon: "🏅", Badge: "+Medalla"},
	{ID: RewardDoubleNext, Label: "Doble XP (siguiente desafío)", Desc: "El próximo desafío vale el doble de XP.", Icon: "✨", Badge: "x2 XP"},
}

// PeekNextReward returns the queue head without mutating it, or nil when the
// hero has nothing claimable.
func (e *Engine) PeekNextReward(hero *Hero) *PendingReward {
	if len(hero.PendingRewards) == 0 {
		return nil
	}
	return &hero.PendingRewards[0]
}

// PendingRewardCount counts claimable queue entries: only levels the hero
// has actually reached (and at least level 2) are offered.
func (e *Engine) PendingRewardCount(hero *Hero) int {
	n := 0
	for _, p := range hero.PendingRewards {
		if p.Level >= 2 && p.Level <= hero.Level {
			n++
		}
	}
	return n
}

// ApplyAutoStat resolves the mandatory stat pick on the queue head, moving
// it from NeedsAutoStat to ReadyToClaim. The pick must come from the head's
// allowed options.
func (e *Engine) ApplyAutoStat(hero *Hero, stat StatKey) error {
	head := e.PeekNextReward(hero)
	if head == nil {
		return ErrNoPendingReward
	}
	if head.State() != RewardNeedsAutoStat {
		return ErrAutoStatApplied
	}
	allowed := false
	for _, k := range head.AutoStat.Options {
		if k == stat {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s", ErrStatNotAllowed, stat)
	}

	hero.Stats.Add(stat, 1)
	head.AutoStat.Applied = true
	chosen := stat
	head.AutoStat.Chosen = &chosen
	return nil
}

// Claim shifts the queue head, applies the chosen reward and records it in
// rewardsHistory. extraStat is required for stat+1 and ignored otherwise.
// Concurrent claims for the same hero are rejected by a single-flight latch
// that is always released, even when the claim fails mid-way.
func (e *Engine) Claim(hero *Hero, rewardID string, extraStat *StatKey) (*RewardsHistoryEntry, error) {
	if e.claiming[hero.ID] {
		return nil, ErrClaimInFlight
	}
	e.claiming[hero.ID] = true
	defer delete(e.claiming, hero.ID)

	head := e.PeekNextReward(hero)
	if head == nil {
		return nil, ErrNoPendingReward
	}
	if head.State() != RewardReadyToClaim {
		return nil, ErrAutoStatRequired
	}

	var title, badge string
	switch rewardID {
	case RewardStatPlus1:
		if extraStat == nil || !extraStat.IsValid() {
			return nil, fmt.Errorf("%w: stat pick required", ErrStatNotAllowed)
		}
		hero.Stats.Add(*extraStat, 1)
		title = fmt.Sprintf("+1 %s", *extraStat)
		badge = "+1 stat"
	case RewardXPPlus30:
		// Clamped so the grant itself can never trigger a level-up: at
		// most up to xpMax-1, nothing when there is no room at all.
		added := 0
		if room := hero.XPMax - 1 - hero.XP; room > 0 {
			added = min(30, room)
			if added < 1 {
				added = 1
			}
			hero.XP += added
		}
		title = fmt.Sprintf("+%d XP", added)
		badge = "+XP"
	case RewardMedalPlus1:
		hero.Medals++
		title = "+1 medalla"
		badge = "+Medalla"
	case RewardDoubleNext:
		hero.NextChallengeMultiplier = 2
		title = "Doble XP (siguiente desafío)"
		badge = "x2 XP"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReward, rewardID)
	}

	// FIFO shift.
	claimed := hero.PendingRewards[0]
	hero.PendingRewards = hero.PendingRewards[1:]

	entry := RewardsHistoryEntry{
		Level:          claimed.Level,
		RewardID:       rewardID,
		Title:          title,
		Badge:          badge,
		AutoStatChosen: claimed.AutoStat.Chosen,
		BonusMedal:     claimed.BonusMedal,
		Date:           e.now().UTC().Format(time.RFC3339),
	}
	hero.RewardsHistory = append(hero.RewardsHistory, entry)
	return &entry, nil
}
