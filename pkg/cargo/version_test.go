package cargo

import (
	"encoding/json"
	"testing"
)

func TestCaretDefault(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1.0", "^1.0"},
		{"^1.0", "^1.0"},
		{">=1.0, <2.0", ">=1.0, <2.0"},
		{"1.2,<1.5", "^1.2, <1.5"},
		{"*", "*"},
		{"~0.3", "~0.3"},
	}
	for _, tt := range tests {
		if got := caretDefault(tt.in); got != tt.want {
			t.Errorf("caretDefault(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVersionReqMatches(t *testing.T) {
	tests := []struct {
		req     string
		version string
		want    bool
	}{
		{"1.0.83", "1.0.90", true},
		{"1.0.83", "1.0.82", false},
		{"1.0.83", "2.0.0", false},
		{"^0.9", "0.9.4", true},
		{"^0.9", "0.10.0", false},
		{"~1.2", "1.2.9", true},
		{"~1.2", "1.3.0", false},
		{"=3.10.1", "3.10.1", true},
		{"*", "42.0.0", true},
		{">=1.0, <2.0", "1.5.0", true},
		{"^1", "not-a-version", false},
		{"^1", "1.2", false},
	}
	for _, tt := range tests {
		r := MustParseVersionReq(tt.req)
		if got := r.Matches(tt.version); got != tt.want {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.req, tt.version, got, tt.want)
		}
	}
}

func TestVersionReqZeroValue(t *testing.T) {
	var r VersionReq
	if r.Matches("1.0.0") {
		t.Error("zero VersionReq matched")
	}
	if r.MatchesVersion(nil) {
		t.Error("MatchesVersion(nil) = true")
	}
}

func TestVersionReqJSON(t *testing.T) {
	var r VersionReq
	if err := json.Unmarshal([]byte(`"^1.2.3"`), &r); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !r.Equal(MustParseVersionReq("^1.2.3")) {
		t.Errorf("r = %q", r)
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"^1.2.3"` {
		t.Errorf("Marshal() = %s", data)
	}

	if err := json.Unmarshal([]byte(`"not a req"`), &r); err == nil {
		t.Error("invalid requirement accepted")
	}
	if err := json.Unmarshal([]byte(`12`), &r); err == nil {
		t.Error("non-string requirement accepted")
	}
}

func TestMustParseVersionReqPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseVersionReq did not panic")
		}
	}()
	MustParseVersionReq("><")
}

func TestTargetKinds(t *testing.T) {
	lib := Target{Kind: []string{"lib"}}
	bin := Target{Kind: []string{"bin"}}
	test := Target{Kind: []string{"test"}}

	if !lib.IsLib() || lib.IsBin() || lib.IsTest() {
		t.Errorf("lib target kinds wrong")
	}
	if !bin.IsBin() || bin.IsLib() {
		t.Errorf("bin target kinds wrong")
	}
	if !test.IsTest() || test.Is("bench") {
		t.Errorf("test target kinds wrong")
	}
}
