package installer

import "testing"

func TestParseAqtVersion(t *testing.T) {
	cases := []struct {
		output string
		want   string
	}{
		{"aqtinstall(aqt) v3.1.7 on Python 3.11.2", "3.1.7"},
		{"aqtinstall(aqt) v3.2.1 on Python 3.12.0\nextra noise", "3.2.1"},
		{"aqt 2.0.6", "2.0.6"},
		{"", ""},
		{"no version here", ""},
	}
	for _, tc := range cases {
		if got := parseAqtVersion(tc.output); got != tc.want {
			t.Fatalf("parseAqtVersion(%q): expected %q, got %q", tc.output, tc.want, got)
		}
	}
}

func TestSupportsAutoDesktop(t *testing.T) {
	cases := []struct {
		version string
		want    bool
	}{
		{"3.0.0", true},
		{"3.1.7", true},
		{"3.2.1", true},
		{"2.9.9", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := supportsAutoDesktop(tc.version); got != tc.want {
			t.Fatalf("supportsAutoDesktop(%q): expected %v, got %v", tc.version, tc.want, got)
		}
	}
}

func TestWildcardBase(t *testing.T) {
	cases := []struct {
		constraint string
		want       string
	}{
		{"==3.1.*", "3.1"},
		{"==3.*", "3"},
		{">=2.0.*", "2.0"},
	}
	for _, tc := range cases {
		if got := wildcardBase(tc.constraint); got != tc.want {
			t.Fatalf("wildcardBase(%q): expected %q, got %q", tc.constraint, tc.want, got)
		}
	}
}
