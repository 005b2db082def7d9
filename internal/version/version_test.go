package version

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Version
		expectErr bool
	}{
		{
			name:  "Valid version",
			input: "1.2.3",
			want:  Version{Major: 1, Minor: 2, Patch: 3},
		},
		{
			name:      "Missing patch",
			input:     "1.2",
			expectErr: true,
		},
		{
			name:      "Too many segments",
			input:     "1.2.3.4",
			expectErr: true,
		},
		{
			name:      "Non-numeric parts",
			input:     "a.b.c",
			expectErr: true,
		},
		{
			name:      "v prefix rejected by strict Parse",
			input:     "v1.2.3",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)

			if tt.expectErr {
				if err == nil {
					t.Errorf("expected error but got none for input %q", tt.input)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error for input %q: %v", tt.input, err)
				}
				if got != tt.want {
					t.Errorf("expected %+v, got %+v", tt.want, got)
				}
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Version
		expectErr bool
	}{
		{
			name:  "v prefix",
			input: "v1.2.3",
			want:  Version{Major: 1, Minor: 2, Patch: 3},
		},
		{
			name:  "bare version",
			input: "1.2.3",
			want:  Version{Major: 1, Minor: 2, Patch: 3},
		},
		{
			name:  "surrounding whitespace",
			input: "  v2.0.1 ",
			want:  Version{Major: 2, Minor: 0, Patch: 1},
		},
		{
			name:      "non-semver tag",
			input:     "release-candidate",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTag(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("expected error but got none for input %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error for input %q: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestIncrement(t *testing.T) {
	base := Version{Major: 1, Minor: 2, Patch: 3}

	tests := []struct {
		name string
		bump BumpType
		want Version
	}{
		{
			name: "Patch bump",
			bump: Patch,
			want: Version{Major: 1, Minor: 2, Patch: 4},
		},
		{
			name: "Minor bump",
			bump: Minor,
			want: Version{Major: 1, Minor: 3, Patch: 0},
		},
		{
			name: "Major bump",
			bump: Major,
			want: Version{Major: 2, Minor: 0, Patch: 0},
		},
		{
			name: "Unknown bump (no change)",
			bump: "unknown",
			want: base,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.Increment(tt.bump)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestLessThan(t *testing.T) {
	tests := []struct {
		a, b Version
		want bool
	}{
		{Version{1, 0, 0}, Version{1, 0, 1}, true},
		{Version{1, 2, 0}, Version{1, 3, 0}, true},
		{Version{1, 2, 3}, Version{2, 0, 0}, true},
		{Version{2, 0, 0}, Version{1, 2, 3}, false},
		{Version{1, 2, 3}, Version{1, 2, 3}, false},
	}

	for _, tt := range tests {
		got := tt.a.LessThan(tt.b)
		if got != tt.want {
			t.Errorf("LessThan(%v, %v) = %v; want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLatest(t *testing.T) {
	tests := []struct {
		name      string
		input     []string
		want      string
		wantFound bool
	}{
		{
			name:      "highest wins regardless of order",
			input:     []string{"v1.2.3", "v1.10.0", "v1.3.0"},
			want:      "v1.10.0",
			wantFound: true,
		},
		{
			name:      "non-semver tags skipped",
			input:     []string{"nightly", "v0.1.0", "rc-final"},
			want:      "v0.1.0",
			wantFound: true,
		},
		{
			name:      "mixed prefix styles",
			input:     []string{"1.0.0", "v2.0.0"},
			want:      "v2.0.0",
			wantFound: true,
		},
		{
			name:      "no parseable tags",
			input:     []string{"nightly", "stable"},
			wantFound: false,
		},
		{
			name:      "empty history",
			input:     nil,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Latest(tt.input)
			if found != tt.wantFound {
				t.Fatalf("Latest(%v) found = %v; want %v", tt.input, found, tt.wantFound)
			}
			if got != tt.want {
				t.Errorf("Latest(%v) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBumpType(t *testing.T) {
	tests := []struct {
		input    string
		expected BumpType
		hasError bool
	}{
		{"major", Major, false},
		{"minor", Minor, false},
		{"patch", Patch, false},
		{"MAJOR", Major, false},
		{"unknown", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBumpType(tt.input)
		if tt.hasError && err == nil {
			t.Errorf("ParseBumpType(%q) expected error, got none", tt.input)
		}
		if !tt.hasError && got != tt.expected {
			t.Errorf("ParseBumpType(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestForecastNext(t *testing.T) {
	tests := []struct {
		name      string
		latest    string
		bump      BumpType
		want      string
		expectErr bool
	}{
		{name: "patch with v prefix", latest: "v1.2.3", bump: Patch, want: "v1.2.4"},
		{name: "minor without prefix", latest: "1.2.3", bump: Minor, want: "1.3.0"},
		{name: "major resets lower parts", latest: "v1.2.3", bump: Major, want: "v2.0.0"},
		{name: "empty latest bumps from zero", latest: "", bump: Patch, want: "0.0.1"},
		{name: "garbage latest", latest: "not-a-version", bump: Patch, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForecastNext(tt.latest, tt.bump)
			if tt.expectErr {
				if err == nil {
					t.Errorf("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ForecastNext(%q, %s) = %q; want %q", tt.latest, tt.bump, got, tt.want)
			}
		})
	}
}
