package discovery

import (
	"testing"

	"evmfill/internal/domain"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name     string
		files    []string
		pattern  string
		expected int // Expected number of matches
	}{
		{
			name:     "empty pattern returns all",
			files:    []string{"push0.json", "initcode.json", "add.json"},
			pattern:  "",
			expected: 3,
		},
		{
			name:     "wildcard pattern matches suffix",
			files:    []string{"push0.json", "initcode.json", "add.json"},
			pattern:  "*code.json",
			expected: 1,
		},
		{
			name:     "wildcard pattern matches substring",
			files:    []string{"push0.json", "push_gas.json", "add.json", "initcode.json"},
			pattern:  "*push*",
			expected: 2,
		},
		{
			name:     "simple contains match",
			files:    []string{"push0.json", "initcode.json", "add.json"},
			pattern:  "init",
			expected: 1,
		},
		{
			name:     "no matches",
			files:    []string{"push0.json", "add.json"},
			pattern:  "*selfdestruct*",
			expected: 0,
		},
		{
			name:     "full path with wildcard",
			files:    []string{"/fillers/eip3855/push0.json", "/fillers/frontier/add.json"},
			pattern:  "push0.*",
			expected: 1,
		},
		{
			name:     "parts must match in order",
			files:    []string{"code_init.json", "initcode.json"},
			pattern:  "*init*code*",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(tt.files, tt.pattern)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d", tt.expected, len(result))
			}
		})
	}
}

func TestFilter_FilterRuns(t *testing.T) {
	filter := NewFilter()

	fillers := []*Filler{
		{Module: domain.Module{RelPath: "a.json", Runs: []domain.Run{
			{BaseName: "test_push0", Fork: "Shanghai"},
			{BaseName: "test_push0", Fork: "Cancun"},
			{BaseName: "test_add", Fork: "Shanghai"},
		}}},
		{Module: domain.Module{RelPath: "b.json", Runs: []domain.Run{
			{BaseName: "test_mul", Fork: "Shanghai"},
		}}},
	}

	t.Run("empty pattern keeps everything", func(t *testing.T) {
		result := filter.FilterRuns(fillers, "")
		if len(result) != 2 {
			t.Errorf("expected 2 fillers, got %d", len(result))
		}
	})

	t.Run("keeps matching runs and drops empty fillers", func(t *testing.T) {
		result := filter.FilterRuns(fillers, "*push*")
		if len(result) != 1 {
			t.Fatalf("expected 1 filler, got %d", len(result))
		}
		if len(result[0].Runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(result[0].Runs))
		}
		if len(fillers[0].Runs) != 3 {
			t.Error("input filler must not be modified")
		}
	})
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("empty file list", func(t *testing.T) {
		result := filter.FilterByName([]string{}, "*.json")
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d items", len(result))
		}
	})

	t.Run("pattern with only wildcards", func(t *testing.T) {
		result := filter.FilterByName([]string{"push0.json"}, "**")
		if len(result) != 1 {
			t.Errorf("expected 1 match, got %d", len(result))
		}
	})
}
