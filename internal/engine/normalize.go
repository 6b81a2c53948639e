package engine

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NormalizeRaw turns arbitrary JSON into a canonical Document. It never
// fails: malformed input degrades to an empty document that then receives
// defaults and (once) the demo seed. Re-normalizing canonical output is a
// no-op apart from meta.updatedAt stamping.
func NormalizeRaw(data []byte) *Document {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	_ = dec.Decode(&raw)
	return normalizeRoot(asMap(raw))
}

// NormalizeDocument re-runs normalization over an in-memory document. Used
// after load and before merge so every code path sees canonical shape.
func NormalizeDocument(doc *Document) *Document {
	b, err := json.Marshal(doc)
	if err != nil {
		return NormalizeRaw(nil)
	}
	return NormalizeRaw(b)
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

func normalizeRoot(root map[string]any) *Document {
	// Collections always marshal as arrays, never null; browser consumers
	// iterate them without guards.
	doc := &Document{
		Heroes:     []*Hero{},
		Subjects:   []*Subject{},
		Challenges: []*Challenge{},
		Events:     []*Event{},
	}

	meta := asMap(root["meta"])
	doc.Meta.App = strings.TrimSpace(asString(meta["app"]))
	if doc.Meta.App == "" {
		doc.Meta.App = "LevelUp"
	}
	doc.Meta.Version = asInt(meta["version"])
	if doc.Meta.Version <= 0 {
		doc.Meta.Version = 1
	}
	doc.Meta.UpdatedAt = strings.TrimSpace(asString(meta["updatedAt"]))
	if doc.Meta.UpdatedAt == "" {
		doc.Meta.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	doc.Meta.SeededDemo = asBool(meta["seededDemo"])
	doc.Meta.SeededEvents = asBool(meta["seededEvents"])

	for _, v := range asSlice(root["subjects"]) {
		if s := normalizeSubject(asMap(v)); s != nil {
			doc.Subjects = append(doc.Subjects, s)
		}
	}
	for _, v := range asSlice(root["challenges"]) {
		if c := normalizeChallenge(asMap(v)); c != nil {
			doc.Challenges = append(doc.Challenges, c)
		}
	}
	for _, v := range asSlice(root["events"]) {
		if e := normalizeEvent(asMap(v)); e != nil {
			doc.Events = append(doc.Events, e)
		}
	}

	// Rebuild the subject list from denormalized challenge names when the
	// document carries challenges but no subjects (hand-trimmed exports).
	if len(doc.Subjects) == 0 && len(doc.Challenges) > 0 {
		seen := map[string]bool{}
		for _, c := range doc.Challenges {
			name := strings.TrimSpace(c.Subject)
			if name == "" {
				name = "Materia"
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			id := c.SubjectID
			if id == "" {
				id = newID("sub")
			}
			doc.Subjects = append(doc.Subjects, &Subject{ID: id, Name: name})
		}
	}

	// Seed-once: only a document that has never been seeded and is truly
	// empty gets demo content, so a deliberately emptied export stays empty.
	if !doc.Meta.SeededDemo && len(doc.Subjects) == 0 && len(doc.Challenges) == 0 {
		doc.Subjects = demoSubjects()
		doc.Challenges = demoChallenges(doc.Subjects)
		doc.Meta.SeededDemo = true
	}
	if !doc.Meta.SeededEvents && len(doc.Events) == 0 {
		doc.Events = demoEvents()
		doc.Meta.SeededEvents = true
	}

	// Keep the denormalized subject name in sync with the subject list.
	for _, c := range doc.Challenges {
		if s := doc.Subject(c.SubjectID); s != nil {
			c.Subject = s.Name
		}
	}

	doc.Store = normalizeStore(asMap(root["store"]))

	for _, v := range asSlice(root["heroes"]) {
		if h := normalizeHero(asMap(v)); h != nil {
			doc.Heroes = append(doc.Heroes, h)
		}
	}

	return doc
}

func normalizeSubject(m map[string]any) *Subject {
	if m == nil {
		return nil
	}
	s := &Subject{
		ID:   asID(m["id"]),
		Name: strings.TrimSpace(asString(m["name"])),
	}
	if s.ID == "" {
		s.ID = newID("sub")
	}
	if s.Name == "" {
		s.Name = "Materia"
	}
	for _, v := range asSlice(m["linkedStats"]) {
		if k, ok := ParseStatKey(asString(v)); ok {
			s.LinkedStats = append(s.LinkedStats, k)
		}
	}
	return s
}

func normalizeChallenge(m map[string]any) *Challenge {
	if m == nil {
		return nil
	}
	c := &Challenge{
		ID:         asID(m["id"]),
		SubjectID:  asID(m["subjectId"]),
		Subject:    strings.TrimSpace(asString(m["subject"])),
		Difficulty: NormalizeDifficulty(asString(m["difficulty"])),
		Points:     asInt(m["points"]),
		Title:      strings.TrimSpace(asString(m["title"])),
		Body:       asString(m["body"]),
	}
	if c.ID == "" {
		c.ID = newID("c")
	}
	if c.Points <= 0 {
		c.Points = PointsForDifficulty(c.Difficulty)
	}
	return c
}

func normalizeEvent(m map[string]any) *Event {
	if m == nil {
		return nil
	}
	e := &Event{
		ID:          asID(m["id"]),
		Kind:        EventKind(strings.ToLower(strings.TrimSpace(asString(m["kind"])))),
		Title:       strings.TrimSpace(asString(m["title"])),
		Unlocked:    asBool(m["unlocked"]),
		Unlock:      normalizeRule(asMap(m["unlock"])),
		Eligibility: normalizeRule(asMap(m["eligibility"])),
		Image:       asString(m["image"]),
		LockedImage: asString(m["lockedImage"]),
	}
	if e.ID == "" {
		e.ID = newID("ev")
	}
	if e.Kind != EventKindBoss {
		e.Kind = EventKindEvent
	}
	if bq, ok := m["battleQuestions"]; ok && bq != nil {
		if b, err := json.Marshal(bq); err == nil {
			e.BattleQuestions = b
		}
	}
	return e
}

func normalizeRule(m map[string]any) *EventRule {
	if m == nil {
		return nil
	}
	r := &EventRule{
		Type:       strings.TrimSpace(asString(m["type"])),
		Count:      asInt(m["count"]),
		Min:        asInt(m["min"]),
		Difficulty: asString(m["difficulty"]),
		Label:      asString(m["label"]),
	}
	// Some documents carry the threshold as "level" instead of "min".
	if r.Min == 0 {
		r.Min = asInt(m["level"])
	}
	return r
}

func normalizeStore(m map[string]any) Store {
	st := Store{}
	for _, v := range asSlice(m["items"]) {
		im := asMap(v)
		if im == nil {
			continue
		}
		item := &StoreItem{
			ID:          asID(im["id"]),
			Name:        strings.TrimSpace(asString(im["name"])),
			Description: asString(im["description"]),
			Icon:        asString(im["icon"]),
			Cost:        asInt(im["cost"]),
			Stock:       asInt(im["stock"]),
			Available:   true,
		}
		if v, ok := im["available"]; ok && v != nil {
			item.Available = asBool(v)
		}
		if item.ID == "" {
			item.ID = newID("store")
		}
		st.Items = append(st.Items, item)
	}
	if len(st.Items) == 0 {
		return demoStore()
	}
	return st
}

func normalizeHero(m map[string]any) *Hero {
	if m == nil {
		return nil
	}
	h := &Hero{
		ID:    asID(m["id"]),
		Group: strings.TrimSpace(asString(m["group"])),
		Name:  asString(m["name"]),
	}
	if h.ID == "" {
		h.ID = newID("h")
	}
	if h.Group == "" {
		h.Group = "2D"
	}

	h.Level = intOr(m, "level", 1)
	if h.Level < 1 {
		h.Level = 1
	}
	h.XP = intOr(m, "xp", 0)
	if h.XP < 0 {
		h.XP = 0
	}
	h.XPMax = intOr(m, "xpMax", DefaultXPMax)
	h.WeekXP = intOr(m, "weekXp", 0)
	if h.WeekXP < 0 {
		h.WeekXP = 0
	}
	h.WeekXPMax = intOr(m, "weekXpMax", DefaultWeekXPMax)
	h.StatsCap = intOr(m, "statsCap", StatCap)
	h.Medals = intOr(m, "medals", 0)
	if h.Medals < 0 {
		h.Medals = 0
	}
	h.Tokens = intOr(m, "tokens", 0)
	if h.Tokens < 0 {
		h.Tokens = 0
	}
	h.LevelStartAt = asInt64(m["levelStartAt"])
	if h.LevelStartAt < 0 {
		h.LevelStartAt = 0
	}
	h.NextChallengeMultiplier = intOr(m, "nextChallengeMultiplier", 1)
	if h.NextChallengeMultiplier <= 1 {
		h.NextChallengeMultiplier = 1
	} else {
		h.NextChallengeMultiplier = 2
	}

	h.Stats = normalizeStats(asMap(m["stats"]))

	h.ChallengeCompletions = map[string]CompletionRecord{}
	for id, v := range asMap(m["challengeCompletions"]) {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		rec := asMap(v)
		h.ChallengeCompletions[id] = CompletionRecord{
			At:     asInt64(rec["at"]),
			Points: asInt(rec["points"]),
		}
	}

	h.ChallengeHistory = []HistoryEntry{}
	for _, v := range asSlice(m["challengeHistory"]) {
		em := asMap(v)
		if em == nil {
			continue
		}
		h.ChallengeHistory = append(h.ChallengeHistory, HistoryEntry{
			ChallengeID: asID(em["challengeId"]),
			Title:       asString(em["title"]),
			Subject:     asString(em["subject"]),
			Difficulty:  NormalizeDifficulty(asString(em["difficulty"])),
			Points:      asInt(em["points"]),
			At:          asInt64(em["at"]),
		})
	}

	h.RewardsHistory = []RewardsHistoryEntry{}
	for _, v := range asSlice(m["rewardsHistory"]) {
		em := asMap(v)
		if em == nil {
			continue
		}
		entry := RewardsHistoryEntry{
			Level:      asInt(em["level"]),
			RewardID:   asString(em["rewardId"]),
			Title:      asString(em["title"]),
			Badge:      asString(em["badge"]),
			BonusMedal: asBool(em["bonusMedal"]),
			Date:       asString(em["date"]),
		}
		if k, ok := ParseStatKey(asString(em["autoStatChosen"])); ok {
			entry.AutoStatChosen = &k
		}
		h.RewardsHistory = append(h.RewardsHistory, entry)
	}

	h.PendingRewards = normalizePendingRewards(asSlice(m["pendingRewards"]), h.Level, h.RewardsHistory)

	h.DefeatedBosses = []string{}
	seenBoss := map[string]bool{}
	for _, v := range asSlice(m["defeatedBosses"]) {
		id := asID(v)
		if id == "" || seenBoss[id] {
			continue
		}
		seenBoss[id] = true
		h.DefeatedBosses = append(h.DefeatedBosses, id)
	}

	for _, v := range asSlice(m["assignedChallenges"]) {
		if id := asID(v); id != "" {
			h.AssignedChallenges = append(h.AssignedChallenges, id)
		}
	}

	h.StoreClaims = []StoreClaim{}
	for _, v := range asSlice(m["storeClaims"]) {
		em := asMap(v)
		if em == nil {
			continue
		}
		h.StoreClaims = append(h.StoreClaims, StoreClaim{
			ItemID:    asID(em["itemId"]),
			ItemName:  asString(em["itemName"]),
			Cost:      asInt(em["cost"]),
			ClaimedAt: asInt64(em["claimedAt"]),
		})
	}

	// Unknown fields (role, age, photoSrc, …) pass through untouched.
	for k, v := range m {
		if heroKnownKeys[k] || v == nil {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		if h.Extra == nil {
			h.Extra = map[string]json.RawMessage{}
		}
		h.Extra[k] = b
	}

	return h
}

var heroKnownKeys = map[string]bool{
	"id": true, "group": true, "name": true,
	"level": true, "xp": true, "xpMax": true,
	"weekXp": true, "weekXpMax": true,
	"stats": true, "statsCap": true, "medals": true, "tokens": true,
	"levelStartAt": true, "nextChallengeMultiplier": true,
	"challengeCompletions": true, "challengeHistory": true,
	"pendingRewards": true, "rewardsHistory": true,
	"defeatedBosses": true, "assignedChallenges": true, "storeClaims": true,
}

// normalizeStats reads both key casings; when a stat appears under both, the
// lower-case value wins (matches the historical reader).
func normalizeStats(m map[string]any) Stats {
	var s Stats
	for _, k := range AllStats {
		if v, ok := m[string(k)]; ok {
			s.Set(k, asInt(v))
		}
		if v, ok := m[lowerStatKey(k)]; ok {
			s.Set(k, asInt(v))
		}
	}
	return s
}

// normalizePendingRewards reconciles the queue against reality: entries are
// coerced to objects (bare numbers are legacy level markers), levels already
// claimed per rewardsHistory are dropped, duplicates collapse to the first
// occurrence, and only levels in [2, heroLevel] survive.
func normalizePendingRewards(items []any, heroLevel int, history []RewardsHistoryEntry) []PendingReward {
	claimed := map[int]bool{}
	for _, r := range history {
		claimed[r.Level] = true
	}

	out := []PendingReward{}
	seen := map[int]bool{}
	for _, v := range items {
		var p PendingReward
		if m := asMap(v); m != nil {
			p = PendingReward{
				Level:      asInt(m["level"]),
				CreatedAt:  asInt64(m["createdAt"]),
				BonusMedal: asBool(m["bonusMedal"]),
				AutoStat:   normalizeAutoStat(asMap(m["autoStat"])),
			}
		} else {
			p = PendingReward{Level: asInt(v), AutoStat: defaultAutoStat()}
		}
		if p.Level < 2 || p.Level > heroLevel {
			continue
		}
		if claimed[p.Level] || seen[p.Level] {
			continue
		}
		seen[p.Level] = true
		out = append(out, p)
	}
	return out
}

func defaultAutoStat() AutoStat {
	return AutoStat{Required: true, Options: append([]StatKey(nil), AllStats...)}
}

func normalizeAutoStat(m map[string]any) AutoStat {
	if m == nil {
		return defaultAutoStat()
	}
	a := AutoStat{
		Required: true,
		Applied:  asBool(m["applied"]),
	}
	if v, ok := m["required"]; ok {
		a.Required = asBool(v)
	}
	if k, ok := ParseStatKey(asString(m["chosen"])); ok {
		a.Chosen = &k
	}
	for _, v := range asSlice(m["options"]) {
		if k, ok := ParseStatKey(asString(v)); ok {
			a.Options = append(a.Options, k)
		}
	}
	if len(a.Options) == 0 {
		a.Options = append([]StatKey(nil), AllStats...)
	}
	return a
}

func intOr(m map[string]any, key string, def int) int {
	if v, ok := m[key]; ok && v != nil {
		return asInt(v)
	}
	return def
}
