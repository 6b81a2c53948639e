package engine

import "encoding/json"

// Stats holds the five hero stats under canonical upper-case keys. Persisted
// JSON historically carries every stat under both casings ("INT" and "int");
// the marshaller keeps emitting both so older documents and hand edits keep
// working, and the unmarshaller accepts either, preferring lower-case when
// the two disagree.
type Stats struct {
	INT int
	SAB int
	CAR int
	RES int
	CRE int
}

func (s *Stats) Get(k StatKey) int {
	switch k {
	case StatINT:
		return s.INT
	case StatSAB:
		return s.SAB
	case StatCAR:
		return s.CAR
	case StatRES:
		return s.RES
	case StatCRE:
		return s.CRE
	default:
		return 0
	}
}

func (s *Stats) Set(k StatKey, v int) {
	v = clampStat(v)
	switch k {
	case StatINT:
		s.INT = v
	case StatSAB:
		s.SAB = v
	case StatCAR:
		s.CAR = v
	case StatRES:
		s.RES = v
	case StatCRE:
		s.CRE = v
	}
}

// Add increments a stat, clamped to [0, StatCap].
func (s *Stats) Add(k StatKey, delta int) {
	s.Set(k, s.Get(k)+delta)
}

func clampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > StatCap {
		return StatCap
	}
	return v
}

func (s Stats) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, 10)
	for _, k := range AllStats {
		v := s.Get(k)
		out[string(k)] = v
		out[lowerStatKey(k)] = v
	}
	return json.Marshal(out)
}

func (s *Stats) UnmarshalJSON(data []byte) error {
	var raw map[string]json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		// Tolerate junk; the normalizer zero-fills.
		*s = Stats{}
		return nil
	}
	for _, k := range AllStats {
		if n, ok := raw[string(k)]; ok {
			if v, err := n.Int64(); err == nil {
				s.Set(k, int(v))
			}
		}
		if n, ok := raw[lowerStatKey(k)]; ok {
			if v, err := n.Int64(); err == nil {
				s.Set(k, int(v))
			}
		}
	}
	return nil
}

func lowerStatKey(k StatKey) string {
	switch k {
	case StatINT:
		return "int"
	case StatSAB:
		return "sab"
	case StatCAR:
		return "car"
	case StatRES:
		return "res"
	case StatCRE:
		return "cre"
	default:
		return ""
	}
}
