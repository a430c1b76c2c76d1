package revset

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Rev identifies one recorded revision. Revision 0 is the empty baseline.
type Rev int

// Set is an immutable set of revisions, stored as a sorted, deduplicated
// slice. It serializes to compact notation like "0-2,5".
type Set struct {
	revs []Rev
}

// New creates a Set from individual revisions.
func New(revs ...Rev) Set {
	return Set{revs: dedupSorted(revs)}
}

// FromRange creates a Set covering a contiguous range [start, end].
func FromRange(start, end Rev) Set {
	if start < 0 || end < start {
		return Set{}
	}
	revs := make([]Rev, 0, end-start+1)
	for r := start; r <= end; r++ {
		revs = append(revs, r)
	}
	return Set{revs: revs}
}

// MaxParsed bounds how many revisions FromString will expand ranges into.
const MaxParsed = 1 << 20

// FromString parses compact notation like "5", "5-7", or "0,5,7-8".
// Notation covering more than MaxParsed revisions is rejected.
func FromString(s string) (Set, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Set{}, nil
	}

	var revs []Rev
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, "-"); idx >= 0 {
			start, err := parseRev(part[:idx])
			if err != nil {
				return Set{}, fmt.Errorf("invalid range start %q: %w", part[:idx], err)
			}
			end, err := parseRev(part[idx+1:])
			if err != nil {
				return Set{}, fmt.Errorf("invalid range end %q: %w", part[idx+1:], err)
			}
			if end < start {
				return Set{}, fmt.Errorf("invalid range %d-%d", start, end)
			}
			if int(end-start) >= MaxParsed-len(revs) {
				return Set{}, fmt.Errorf("range %d-%d exceeds %d revisions", start, end, MaxParsed)
			}
			for r := start; r <= end; r++ {
				revs = append(revs, r)
			}
		} else {
			r, err := parseRev(part)
			if err != nil {
				return Set{}, fmt.Errorf("invalid revision %q: %w", part, err)
			}
			revs = append(revs, r)
		}
	}

	return Set{revs: dedupSorted(revs)}, nil
}

func parseRev(s string) (Rev, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative revision %d", n)
	}
	return Rev(n), nil
}

// String returns the compact notation: "0-2,5".
func (s Set) String() string {
	if len(s.revs) == 0 {
		return ""
	}

	var parts []string
	i := 0
	for i < len(s.revs) {
		start := s.revs[i]
		end := start
		for i+1 < len(s.revs) && s.revs[i+1] == end+1 {
			end = s.revs[i+1]
			i++
		}
		if start == end {
			parts = append(parts, strconv.Itoa(int(start)))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, end))
		}
		i++
	}
	return strings.Join(parts, ",")
}

// IsEmpty returns true if the set contains no revisions.
func (s Set) IsEmpty() bool {
	return len(s.revs) == 0
}

// Revs returns the sorted revisions. The slice must not be modified.
func (s Set) Revs() []Rev {
	return s.revs
}

// Len returns the number of revisions in the set.
func (s Set) Len() int {
	return len(s.revs)
}

// Min returns the smallest revision, or 0 if empty.
func (s Set) Min() Rev {
	if len(s.revs) == 0 {
		return 0
	}
	return s.revs[0]
}

// Max returns the largest revision, or 0 if empty.
func (s Set) Max() Rev {
	if len(s.revs) == 0 {
		return 0
	}
	return s.revs[len(s.revs)-1]
}

// Contains returns true if rev is in the set.
func (s Set) Contains(rev Rev) bool {
	i := sort.Search(len(s.revs), func(i int) bool { return s.revs[i] >= rev })
	return i < len(s.revs) && s.revs[i] == rev
}

// Add returns a new set that also contains revs.
func (s Set) Add(revs ...Rev) Set {
	if len(revs) == 0 {
		return s
	}
	merged := make([]Rev, 0, len(s.revs)+len(revs))
	merged = append(merged, s.revs...)
	merged = append(merged, revs...)
	return Set{revs: dedupSorted(merged)}
}

// Union returns the revisions present in either set.
func (s Set) Union(other Set) Set {
	return s.Add(other.revs...)
}

// Equal reports whether both sets hold the same revisions.
func (s Set) Equal(other Set) bool {
	if len(s.revs) != len(other.revs) {
		return false
	}
	for i := range s.revs {
		if s.revs[i] != other.revs[i] {
			return false
		}
	}
	return true
}

// MarshalJSON serializes as a JSON string in compact notation.
func (s Set) MarshalJSON() ([]byte, error) {
	str := s.String()
	if str == "" {
		return []byte("null"), nil
	}
	return json.Marshal(str)
}

// UnmarshalJSON accepts the compact string form ("0-2,5") and a plain
// array of revisions ([0,1,2,5]).
func (s *Set) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		s.revs = nil
		return nil
	}

	switch raw[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := FromString(str)
		if err != nil {
			return err
		}
		s.revs = parsed.revs
		return nil
	case '[':
		var revs []Rev
		if err := json.Unmarshal(data, &revs); err != nil {
			return err
		}
		for _, r := range revs {
			if r < 0 {
				return fmt.Errorf("negative revision %d", r)
			}
		}
		s.revs = dedupSorted(revs)
		return nil
	}

	return fmt.Errorf("unexpected JSON for revision set: %s", raw)
}

func dedupSorted(revs []Rev) []Rev {
	if len(revs) == 0 {
		return nil
	}
	sorted := make([]Rev, len(revs))
	copy(sorted, revs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	result := []Rev{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			result = append(result, sorted[i])
		}
	}
	return result
}
