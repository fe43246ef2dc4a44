package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialIndex(t *testing.T) {
	tests := []struct {
		name   string
		prefs  Prefs
		policy Policy
		intn   func(int) int
		want   int
	}{
		{
			name:  "persisted index wins",
			prefs: &fakePrefs{stored: 2, has: true},
			want:  2,
		},
		{
			name:   "persisted index wins over random",
			prefs:  &fakePrefs{stored: 1, has: true},
			policy: PolicyRandom,
			intn:   func(int) int { return 5 },
			want:   1,
		},
		{
			name:  "out of range persisted index falls back",
			prefs: &fakePrefs{stored: 17, has: true},
			want:  0,
		},
		{
			name:  "negative persisted index falls back",
			prefs: &fakePrefs{stored: -3, has: true},
			want:  0,
		},
		{
			name:  "nothing persisted, fixed policy",
			prefs: &fakePrefs{},
			want:  0,
		},
		{
			name:   "nothing persisted, random policy",
			prefs:  &fakePrefs{},
			policy: PolicyRandom,
			intn:   func(n int) int { return n - 1 },
			want:   5,
		},
		{
			name: "nil prefs",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InitialIndex(tt.prefs, tt.policy, 6, tt.intn)
			assert.Equal(t, tt.want, got)
		})
	}
}
