package engine

import "strings"

// StatKey identifies one of the five hero stats. Keys are stored upper-case
// internally; persisted JSON carries both casings (see document.go).
type StatKey string

const (
	StatINT StatKey = "INT"
	StatSAB StatKey = "SAB"
	StatCAR StatKey = "CAR"
	StatRES StatKey = "RES"
	StatCRE StatKey = "CRE"
)

// AllStats lists the stat keys in display order.
var AllStats = []StatKey{StatINT, StatSAB, StatCAR, StatRES, StatCRE}

func (k StatKey) IsValid() bool {
	switch k {
	case StatINT, StatSAB, StatCAR, StatRES, StatCRE:
		return true
	default:
		return false
	}
}

// ParseStatKey accepts either casing ("int", "INT").
func ParseStatKey(s string) (StatKey, bool) {
	k := StatKey(strings.ToUpper(strings.TrimSpace(s)))
	return k, k.IsValid()
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// NormalizeDifficulty maps persisted difficulty strings, including the
// Spanish aliases found in hand-edited documents, onto the canonical enum.
// Unknown values fall back to easy.
func NormalizeDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "facil", "fácil", "f":
		return DifficultyEasy
	case "medium", "medio", "m":
		return DifficultyMedium
	case "hard", "dificil", "difícil", "d":
		return DifficultyHard
	default:
		return DifficultyEasy
	}
}

// PointsForDifficulty is the default point value for a challenge that does
// not carry an explicit one.
func PointsForDifficulty(d Difficulty) int {
	switch d {
	case DifficultyHard:
		return 40
	case DifficultyMedium:
		return 20
	default:
		return 10
	}
}

const (
	DefaultXPMax     = 100
	DefaultWeekXPMax = 40
	StatCap          = 20
)
