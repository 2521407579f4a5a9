package matching

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy(" Priority_Pass ")
	require.NoError(t, err)
	require.Equal(t, PolicyPriorityPass, p)

	p, err = ParsePolicy("hard_partition")
	require.NoError(t, err)
	require.Equal(t, PolicyHardPartition, p)

	_, err = ParsePolicy("lottery")
	require.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestTierFolding(t *testing.T) {
	expertise := map[string]Tier{
		"Junior":  TierJunior,
		" senior": TierSenior,
		"MID":     TierMid,
		"":        TierMid,
		"lead":    TierMid,
	}
	for label, want := range expertise {
		require.Equal(t, want, ExpertiseTier(label), "label %q", label)
	}

	kids := map[string]bool{
		"kid":   true,
		"Kids":  true,
		"child": true,
		"adult": false,
		"":      false,
		"mid":   false,
	}
	for label, want := range kids {
		require.Equal(t, want, IsKid(label), "label %q", label)
	}
}

func TestVerify(t *testing.T) {
	participants := []Participant{{ID: "a", Tier: "kid"}, {ID: "b", Tier: "kid"}, {ID: "c"}, {ID: "d"}}

	t.Run("accepts a valid partitioned mapping", func(t *testing.T) {
		err := Verify(participants, PolicyHardPartition, Assignment{"a": "b", "b": "a", "c": "d", "d": "c"})
		require.NoError(t, err)
	})

	t.Run("rejects crossing groups under hard partition only", func(t *testing.T) {
		pairs := Assignment{"a": "c", "c": "a", "b": "d", "d": "b"}
		require.ErrorIs(t, Verify(participants, PolicyHardPartition, pairs), ErrInvalidAssignment)
		require.NoError(t, Verify(participants, PolicyPriorityPass, pairs))
	})

	cases := map[string]Assignment{
		"missing giver":      {"a": "b", "b": "a", "c": "d"},
		"self pairing":       {"a": "b", "b": "a", "c": "c", "d": "d"},
		"duplicate receiver": {"a": "b", "b": "a", "c": "a", "d": "c"},
		"unknown receiver":   {"a": "b", "b": "a", "c": "d", "d": "z"},
		"unknown giver":      {"a": "b", "b": "a", "c": "d", "z": "c"},
	}
	for name, pairs := range cases {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, Verify(participants, PolicyPriorityPass, pairs), ErrInvalidAssignment)
		})
	}
}
