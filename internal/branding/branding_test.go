package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "hatch" {
		t.Errorf("CLIName() = %q, want %q", got, "hatch")
	}
	if got := HomeDir(); got != ".hatch" {
		t.Errorf("HomeDir() = %q, want %q", got, ".hatch")
	}
	if got := DefaultRegistry(); got == "" {
		t.Error("DefaultRegistry() is empty")
	}
}

func TestEnvVar(t *testing.T) {
	tests := []struct {
		suffix string
		want   string
	}{
		{"HOME", "HATCH_HOME"},
		{"target_path", "HATCH_TARGET_PATH"},
	}
	for _, tt := range tests {
		if got := EnvVar(tt.suffix); got != tt.want {
			t.Errorf("EnvVar(%q) = %q, want %q", tt.suffix, got, tt.want)
		}
	}
}
