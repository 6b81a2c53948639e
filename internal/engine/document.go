package engine

import (
	"encoding/json"
	"fmt"
)

// Document is the canonical in-memory tree the whole app operates on.
// All core operations mutate it directly; persisting after each mutation is
// the caller's job (see app.App).
type Document struct {
	Meta       Meta         `json:"meta"`
	Heroes     []*Hero      `json:"heroes"`
	Subjects   []*Subject   `json:"subjects"`
	Challenges []*Challenge `json:"challenges"`
	Events     []*Event     `json:"events"`
	Store      Store        `json:"store"`
}

type Meta struct {
	App          string `json:"app"`
	Version      int    `json:"version"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
	SeededDemo   bool   `json:"seededDemo,omitempty"`
	SeededEvents bool   `json:"seededEvents,omitempty"`
}

type Hero struct {
	ID        string `json:"id"`
	Group     string `json:"group,omitempty"`
	Name      string `json:"name"`
	Level     int    `json:"level"`
	XP        int    `json:"xp"`
	XPMax     int    `json:"xpMax"`
	WeekXP    int    `json:"weekXp"`
	WeekXPMax int    `json:"weekXpMax"`
	Stats     Stats  `json:"stats"`
	StatsCap  int    `json:"statsCap"`
	Medals    int    `json:"medals"`
	Tokens    int    `json:"tokens"`

	// LevelStartAt marks the start of the current level's completion window
	// (unix millis). Zero means the window has not been initialized yet.
	LevelStartAt int64 `json:"levelStartAt,omitempty"`

	// NextChallengeMultiplier is 1 or 2; consumed by the next challenge XP
	// grant (one-shot).
	NextChallengeMultiplier int `json:"nextChallengeMultiplier"`

	ChallengeCompletions map[string]CompletionRecord `json:"challengeCompletions"`
	ChallengeHistory     []HistoryEntry              `json:"challengeHistory"`
	PendingRewards       []PendingReward             `json:"pendingRewards"`
	RewardsHistory       []RewardsHistoryEntry       `json:"rewardsHistory"`
	DefeatedBosses       []string                    `json:"defeatedBosses"`
	AssignedChallenges   []string                    `json:"assignedChallenges,omitempty"`
	StoreClaims          []StoreClaim                `json:"storeClaims"`

	// Extra carries hero fields this app does not model (role, age,
	// photoSrc, …) so browser exports survive a round trip untouched,
	// like battleQuestions on Event.
	Extra map[string]json.RawMessage `json:"-"`
}

// MarshalJSON merges the passthrough fields back in beside the typed ones.
// Typed fields win on key collision.
func (h Hero) MarshalJSON() ([]byte, error) {
	type heroAlias Hero
	body, err := json.Marshal(heroAlias(h))
	if err != nil {
		return nil, err
	}
	if len(h.Extra) == 0 {
		return body, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	for k, v := range h.Extra {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// CompletionRecord is the ledger value for a completed challenge. Points is
// the amount actually awarded (multiplier included) so un-completing can
// reverse it exactly.
type CompletionRecord struct {
	At     int64 `json:"at"`
	Points int   `json:"points"`
}

// HistoryEntry snapshots subject/difficulty/title at completion time so the
// audit log survives later edits or deletes of the challenge.
type HistoryEntry struct {
	ChallengeID string     `json:"challengeId"`
	Title       string     `json:"title"`
	Subject     string     `json:"subject"`
	Difficulty  Difficulty `json:"difficulty"`
	Points      int        `json:"points"`
	At          int64      `json:"at"`
}

type AutoStat struct {
	Required bool      `json:"required"`
	Applied  bool      `json:"applied"`
	Chosen   *StatKey  `json:"chosen"`
	Options  []StatKey `json:"options"`
}

// RewardState is the per-queue-item state machine: the mandatory auto-stat
// pick must be resolved before the free reward choice is legal.
type RewardState int

const (
	RewardNeedsAutoStat RewardState = iota
	RewardReadyToClaim
)

type PendingReward struct {
	Level      int      `json:"level"`
	CreatedAt  int64    `json:"createdAt"`
	AutoStat   AutoStat `json:"autoStat"`
	BonusMedal bool     `json:"bonusMedal"`
}

func (p *PendingReward) State() RewardState {
	if p.AutoStat.Required && !p.AutoStat.Applied {
		return RewardNeedsAutoStat
	}
	return RewardReadyToClaim
}

type RewardsHistoryEntry struct {
	Level          int      `json:"level"`
	RewardID       string   `json:"rewardId"`
	Title          string   `json:"title"`
	Badge          string   `json:"badge"`
	AutoStatChosen *StatKey `json:"autoStatChosen"`
	BonusMedal     bool     `json:"bonusMedal"`
	Date           string   `json:"date"`
}

type Subject struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LinkedStats []StatKey `json:"linkedStats,omitempty"`
}

type Challenge struct {
	ID         string     `json:"id"`
	SubjectID  string     `json:"subjectId"`
	Subject    string     `json:"subject"`
	Difficulty Difficulty `json:"difficulty"`
	Points     int        `json:"points"`
	Title      string     `json:"title"`
	Body       string     `json:"body,omitempty"`
}

type EventKind string

const (
	EventKindBoss  EventKind = "boss"
	EventKindEvent EventKind = "event"
)

// EventRule carries both the unlock and eligibility rule shapes; which
// fields are meaningful depends on Type.
type EventRule struct {
	Type       string `json:"type"`
	Count      int    `json:"count,omitempty"`
	Min        int    `json:"min,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Label      string `json:"label,omitempty"`
}

type Event struct {
	ID          string     `json:"id"`
	Kind        EventKind  `json:"kind"`
	Title       string     `json:"title"`
	Unlocked    bool       `json:"unlocked,omitempty"`
	Unlock      *EventRule `json:"unlock,omitempty"`
	Eligibility *EventRule `json:"eligibility,omitempty"`
	Image       string     `json:"image,omitempty"`
	LockedImage string     `json:"lockedImage,omitempty"`

	// BattleQuestions is quiz content the UI consumes; carried through
	// untouched.
	BattleQuestions json.RawMessage `json:"battleQuestions,omitempty"`
}

type Store struct {
	Items []*StoreItem `json:"items"`
}

// InfiniteStock marks a store item that never runs out.
const InfiniteStock = 999

type StoreItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Cost        int    `json:"cost"`
	Stock       int    `json:"stock"`
	Available   bool   `json:"available"`
}

type StoreClaim struct {
	ItemID    string `json:"itemId"`
	ItemName  string `json:"itemName"`
	Cost      int    `json:"cost"`
	ClaimedAt int64  `json:"claimedAt"`
}

func (d *Document) Hero(id string) (*Hero, error) {
	for _, h := range d.Heroes {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, fmt.Errorf("hero %q: %w", id, ErrNotFound)
}

func (d *Document) Challenge(id string) (*Challenge, error) {
	for _, c := range d.Challenges {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("challenge %q: %w", id, ErrNotFound)
}

func (d *Document) Subject(id string) *Subject {
	for _, s := range d.Subjects {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (d *Document) Event(id string) (*Event, error) {
	for _, e := range d.Events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("event %q: %w", id, ErrNotFound)
}

func (d *Document) StoreItem(id string) (*StoreItem, error) {
	for _, it := range d.Store.Items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, fmt.Errorf("store item %q: %w", id, ErrNotFound)
}
