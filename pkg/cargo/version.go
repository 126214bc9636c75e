package cargo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionReq is a dependency version requirement such as "^1.0" or
// ">=1.0, <2.0".
//
// Matching follows cargo's rules: a requirement without an operator is a
// caret requirement, comma separated comparators must all hold.
type VersionReq struct {
	raw string
	c   *semver.Constraints
}

// ParseVersionReq parses a cargo version requirement.
func ParseVersionReq(raw string) (VersionReq, error) {
	c, err := semver.NewConstraint(caretDefault(raw))
	if err != nil {
		return VersionReq{}, fmt.Errorf("version requirement %q: %w", raw, err)
	}
	return VersionReq{raw: raw, c: c}, nil
}

// MustParseVersionReq is like ParseVersionReq but panics on error.
func MustParseVersionReq(raw string) VersionReq {
	r, err := ParseVersionReq(raw)
	if err != nil {
		panic(err)
	}
	return r
}

// caretDefault prefixes every bare comparator with "^".
func caretDefault(raw string) string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" && p[0] >= '0' && p[0] <= '9' {
			p = "^" + p
		}
		parts[i] = p
	}
	return strings.Join(parts, ", ")
}

// String returns the requirement exactly as cargo reported it.
func (r VersionReq) String() string { return r.raw }

// Matches reports whether version satisfies the requirement. Unparseable
// versions never match.
func (r VersionReq) Matches(version string) bool {
	v, err := semver.StrictNewVersion(version)
	if err != nil {
		return false
	}
	return r.MatchesVersion(v)
}

// MatchesVersion reports whether v satisfies the requirement.
func (r VersionReq) MatchesVersion(v *semver.Version) bool {
	if r.c == nil || v == nil {
		return false
	}
	return r.c.Check(v)
}

// Equal reports whether both requirements have the same textual form.
func (r VersionReq) Equal(other VersionReq) bool { return r.raw == other.raw }

func (r VersionReq) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.raw)
}

func (r *VersionReq) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("version requirement: %w", err)
	}
	parsed, err := ParseVersionReq(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
