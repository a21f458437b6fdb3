package registry

import (
	"reflect"
	"testing"
)

func TestResolveLatest(t *testing.T) {
	tests := []struct {
		name    string
		catalog []string
		want    string
		wantOK  bool
	}{
		{"empty", []string{}, "", false},
		{"nil", nil, "", false},
		{"single", []string{"1.0.0"}, "1.0.0", true},
		{"unsorted", []string{"1.1.0", "1.10.0", "1.2.0", "0.9.9"}, "1.10.0", true},
		{"prerelease below release", []string{"2.0.0-beta.1", "1.9.0", "2.0.0-alpha"}, "2.0.0-beta.1", true},
		{"release beats its prerelease", []string{"2.0.0-rc.1", "2.0.0"}, "2.0.0", true},
		{"invalid entries dropped", []string{"latest", "1.0.0", "not-a-version"}, "1.0.0", true},
		{"only invalid", []string{"next", "beta"}, "", false},
		{"v prefix kept verbatim", []string{"v1.3.0", "1.2.0"}, "v1.3.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveLatest(tt.catalog)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ResolveLatest(%v) = (%q, %v), want (%q, %v)", tt.catalog, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveNextGreater(t *testing.T) {
	tests := []struct {
		name     string
		baseline string
		catalog  []string
		want     string
		wantOK   bool
	}{
		{"highest newer version", "1.0.0", []string{"1.0.0", "1.1.0", "1.2.0"}, "1.2.0", true},
		{"unsorted input", "1.0.0", []string{"1.2.0", "0.5.0", "1.1.0"}, "1.2.0", true},
		{"baseline is latest", "1.2.0", []string{"1.0.0", "1.1.0", "1.2.0"}, "", false},
		{"baseline ahead of catalog", "3.0.0", []string{"1.0.0", "2.0.0"}, "", false},
		{"empty catalog", "1.0.0", nil, "", false},
		{"invalid baseline", "dev", []string{"1.0.0"}, "", false},
		{"strictly greater only", "1.1.0", []string{"1.1.0"}, "", false},
		{"prerelease of next version qualifies", "1.0.0", []string{"1.0.0", "1.1.0-beta"}, "1.1.0-beta", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveNextGreater(tt.baseline, tt.catalog)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ResolveNextGreater(%q, %v) = (%q, %v), want (%q, %v)",
					tt.baseline, tt.catalog, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// The result of ResolveNextGreater, when present, must be in the catalog,
// greater than the baseline, and no smaller than any other qualifying entry.
func TestResolveNextGreaterIsMaximal(t *testing.T) {
	catalog := []string{"0.1.0", "1.0.0", "1.0.1", "1.4.2", "1.10.0", "2.0.0-rc.1", "0.0.1"}
	baselines := []string{"0.0.0", "0.1.0", "1.0.0", "1.4.2", "1.10.0", "2.0.0-rc.1", "2.0.0"}

	for _, base := range baselines {
		got, ok := ResolveNextGreater(base, catalog)
		var qualifying []string
		for _, v := range catalog {
			if c, _ := CompareVersions(v, base); c > 0 {
				qualifying = append(qualifying, v)
			}
		}
		if !ok {
			if len(qualifying) != 0 {
				t.Errorf("baseline %s: got none, want one of %v", base, qualifying)
			}
			continue
		}
		if c, _ := CompareVersions(got, base); c <= 0 {
			t.Errorf("baseline %s: %s is not greater", base, got)
		}
		for _, v := range qualifying {
			if c, _ := CompareVersions(v, got); c > 0 {
				t.Errorf("baseline %s: %s is greater than result %s", base, v, got)
			}
		}
	}
}

func TestSortDescending(t *testing.T) {
	in := []string{"1.0.0", "bogus", "2.1.0", "1.10.0", "1.9.0"}
	got := SortDescending(in)
	want := []string{"2.1.0", "1.10.0", "1.9.0", "1.0.0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortDescending = %v, want %v", got, want)
	}
	if in[0] != "1.0.0" {
		t.Error("SortDescending modified its input")
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		want    int
		wantErr bool
	}{
		{"older patch", "1.0.0", "1.0.1", -1, false},
		{"equal", "1.2.3", "1.2.3", 0, false},
		{"newer", "1.1.0", "1.0.0", 1, false},
		{"v prefix", "v1.0.0", "1.0.1", -1, false},
		{"prerelease less than release", "1.0.0-beta", "1.0.0", -1, false},
		{"invalid a", "dev", "1.0.0", 0, true},
		{"invalid b", "1.0.0", "notaversion", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompareVersions(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
