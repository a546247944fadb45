package logparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepair(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"valid", `{"eventType":"start"}`, `{"eventType":"start"}`, true},
		{"trailing comma", `{"eventType":"start"},`, `{"eventType":"start"}`, true},
		{"missing brace", `{"eventType":"start"`, `{"eventType":"start"}`, true},
		{"missing brace and comma", `  {"a":1,  `, `{"a":1}`, true},
		{"blank", "   ", "", false},
		{"open bracket", "[", "", false},
		{"close bracket", " ] ", "", false},
		{"not an object", `garbage`, `garbage`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Repair(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	inputs := []string{
		`{"eventType":"CombatMsg","type":"Damage"}`,
		`{"eventType":"CombatMsg","type":"Damage"},`,
		`{"eventType":"CombatMsg","type":"Damage"`,
	}
	for _, in := range inputs {
		once, ok := Repair(in)
		assert.True(t, ok)
		twice, ok := Repair(once)
		assert.True(t, ok)
		assert.Equal(t, once, twice)
	}
}
