package config

import (
	"testing"

	"gcounter/internal/counter"
)

func TestParseReplicas(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		count   int
		want    []string
		wantErr bool
	}{
		{
			name:  "single replica",
			input: "A",
			want:  []string{"A"},
		},
		{
			name:  "multiple replicas",
			input: "A,B,C",
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "with spaces",
			input: " A , B ",
			want:  []string{"A", "B"},
		},
		{
			name:    "empty entry",
			input:   "A,,B",
			wantErr: true,
		},
		{
			name:    "duplicate ID",
			input:   "A,B,A",
			wantErr: true,
		},
		{
			name:    "empty list with non-positive count",
			input:   "",
			count:   0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReplicas(tt.input, tt.count)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseReplicas() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if len(got) != len(tt.want) {
					t.Errorf("ParseReplicas() length = %d, want %d", len(got), len(tt.want))
					return
				}
				for i := range got {
					if got[i] != tt.want[i] {
						t.Errorf("ParseReplicas()[%d] = %s, want %s", i, got[i], tt.want[i])
					}
				}
			}
		})
	}
}

func TestParseReplicas_Generated(t *testing.T) {
	ids, err := ParseReplicas("", 3)
	if err != nil {
		t.Fatalf("ParseReplicas() error = %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("Expected 3 generated IDs, got %d", len(ids))
	}

	seen := make(map[string]bool)
	for _, id := range ids {
		if id == "" {
			t.Error("Generated ID is empty")
		}
		if seen[id] {
			t.Errorf("Generated IDs collide: %s", id)
		}
		seen[id] = true
	}
}

func TestParseSeed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    counter.State
		wantErr bool
	}{
		{
			name:  "empty string",
			input: "",
			want:  counter.NewState(),
		},
		{
			name:  "single entry",
			input: "A=2",
			want:  counter.State{"A": 2},
		},
		{
			name:  "multiple entries",
			input: "A=2,B=5",
			want:  counter.State{"A": 2, "B": 5},
		},
		{
			name:  "with spaces",
			input: " A = 2 , B = 5 ",
			want:  counter.State{"A": 2, "B": 5},
		},
		{
			name:  "zero count not materialized",
			input: "A=0,B=1",
			want:  counter.State{"B": 1},
		},
		{
			name:    "invalid format - no equals",
			input:   "A:2",
			wantErr: true,
		},
		{
			name:    "invalid format - empty ID",
			input:   "=2",
			wantErr: true,
		},
		{
			name:    "invalid format - non-numeric count",
			input:   "A=two",
			wantErr: true,
		},
		{
			name:    "negative count",
			input:   "A=-1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeed(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSeed() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseSeed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		ReplicaIDs: []string{"A", "B"},
		Increments: 10,
		MaxRounds:  20,
		DropRate:   0.1,
		DupRate:    0.1,
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no replicas", func(c *Config) { c.ReplicaIDs = nil }},
		{"negative increments", func(c *Config) { c.Increments = -1 }},
		{"zero max rounds", func(c *Config) { c.MaxRounds = 0 }},
		{"drop rate below range", func(c *Config) { c.DropRate = -0.1 }},
		{"drop rate above range", func(c *Config) { c.DropRate = 1.1 }},
		{"dup rate above range", func(c *Config) { c.DupRate = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}
