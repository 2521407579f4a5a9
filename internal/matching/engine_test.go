package matching

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func fixedSeed(seed int64) Option {
	return WithSeedSource(func() (int64, error) { return seed, nil })
}

func people(tier string, ids ...string) []Participant {
	out := make([]Participant, 0, len(ids))
	for _, id := range ids {
		out = append(out, Participant{ID: id, Tier: tier})
	}
	return out
}

func requireValid(t *testing.T, participants []Participant, policy Policy, pairs Assignment) {
	t.Helper()

	require.Len(t, pairs, len(participants))
	received := make(map[string]int, len(pairs))
	for _, p := range participants {
		receiver, ok := pairs[p.ID]
		require.Truef(t, ok, "%s has no receiver", p.ID)
		require.NotEqualf(t, p.ID, receiver, "%s gives to themselves", p.ID)
		received[receiver]++
	}
	for _, p := range participants {
		require.Equalf(t, 1, received[p.ID], "%s must receive exactly once", p.ID)
	}
	require.NoError(t, Verify(participants, policy, pairs))
}

func TestEngine_HardPartition(t *testing.T) {
	t.Run("deranges four adults", func(t *testing.T) {
		participants := people("adult", "A", "B", "C", "D")

		res, err := NewEngine(fixedSeed(7)).Compute(participants, PolicyHardPartition)

		require.NoError(t, err)
		require.Equal(t, PolicyHardPartition, res.Policy)
		require.GreaterOrEqual(t, res.Attempts, 1)
		requireValid(t, participants, PolicyHardPartition, res.Pairs)
	})

	t.Run("keeps kids and adults apart", func(t *testing.T) {
		participants := append(people("kid", "Aria", "Lua", "Mattes", "Pau"),
			people("adult", "Alok", "Ana", "Bora", "Britta", "Caro")...)
		kids := map[string]bool{"Aria": true, "Lua": true, "Mattes": true, "Pau": true}

		for seed := int64(0); seed < 50; seed++ {
			res, err := NewEngine(fixedSeed(seed)).Compute(participants, PolicyHardPartition)
			require.NoError(t, err)
			requireValid(t, participants, PolicyHardPartition, res.Pairs)
			for giver, receiver := range res.Pairs {
				require.Equal(t, kids[giver], kids[receiver], "%s -> %s crosses groups", giver, receiver)
			}
		}
	})

	t.Run("skips an empty kids group", func(t *testing.T) {
		participants := people("", "A", "B", "C")

		res, err := NewEngine(fixedSeed(3)).Compute(participants, PolicyHardPartition)

		require.NoError(t, err)
		requireValid(t, participants, PolicyHardPartition, res.Pairs)
	})

	t.Run("two people always swap", func(t *testing.T) {
		participants := people("kid", "x", "y")

		for seed := int64(0); seed < 20; seed++ {
			res, err := NewEngine(fixedSeed(seed)).Compute(participants, PolicyHardPartition)
			require.NoError(t, err)
			require.Equal(t, Assignment{"x": "y", "y": "x"}, res.Pairs)
		}
	})

	t.Run("fails when a group has a single member", func(t *testing.T) {
		participants := append(people("kid", "Victor"), people("adult", "A", "B", "C")...)

		res, err := NewEngine(fixedSeed(1)).Compute(participants, PolicyHardPartition)

		require.ErrorIs(t, err, ErrInsufficientParticipants)
		require.Contains(t, err.Error(), "kids")
		require.Nil(t, res)
	})

	t.Run("fails when adults are alone", func(t *testing.T) {
		participants := append(people("kid", "k1", "k2"), people("adult", "solo")...)

		_, err := NewEngine(fixedSeed(1)).Compute(participants, PolicyHardPartition)

		require.ErrorIs(t, err, ErrInsufficientParticipants)
		require.Contains(t, err.Error(), "adults")
	})
}

func TestEngine_PriorityPass(t *testing.T) {
	t.Run("seniors take juniors first", func(t *testing.T) {
		participants := append(people("Senior", "S1", "S2"), people("Junior", "J1", "J2", "J3")...)
		participants = append(participants, people("Mid", "M1", "M2")...)
		juniors := map[string]bool{"J1": true, "J2": true, "J3": true}

		for seed := int64(0); seed < 50; seed++ {
			res, err := NewEngine(fixedSeed(seed)).Compute(participants, PolicyPriorityPass)
			require.NoError(t, err)
			requireValid(t, participants, PolicyPriorityPass, res.Pairs)
			require.Equal(t, 2, res.PriorityPairs)
			require.True(t, juniors[res.Pairs["S1"]], "S1 got %s", res.Pairs["S1"])
			require.True(t, juniors[res.Pairs["S2"]], "S2 got %s", res.Pairs["S2"])
		}
	})

	t.Run("senior to junior pairs saturate the smaller pool", func(t *testing.T) {
		cases := []struct{ seniors, juniors, mids int }{
			{0, 0, 4}, {1, 0, 2}, {0, 3, 1}, {3, 1, 2}, {2, 2, 0}, {5, 2, 0}, {1, 4, 3}, {4, 4, 4},
		}
		for _, tc := range cases {
			name := fmt.Sprintf("%ds_%dj_%dm", tc.seniors, tc.juniors, tc.mids)
			t.Run(name, func(t *testing.T) {
				var participants []Participant
				tiers := map[string]Tier{}
				add := func(prefix, tier string, n int) {
					for i := 0; i < n; i++ {
						id := fmt.Sprintf("%s%d", prefix, i)
						participants = append(participants, Participant{ID: id, Tier: tier})
						tiers[id] = ExpertiseTier(tier)
					}
				}
				add("s", "senior", tc.seniors)
				add("j", "junior", tc.juniors)
				add("m", "mid", tc.mids)
				if len(participants) < 2 {
					t.Skip("not enough participants")
				}

				res, err := NewEngine(fixedSeed(int64(len(name)))).Compute(participants, PolicyPriorityPass)

				require.NoError(t, err)
				requireValid(t, participants, PolicyPriorityPass, res.Pairs)
				seniorToJunior := 0
				for giver, receiver := range res.Pairs {
					if tiers[giver] == TierSenior && tiers[receiver] == TierJunior {
						seniorToJunior++
					}
				}
				require.Equal(t, min(tc.seniors, tc.juniors), seniorToJunior)
				require.Equal(t, seniorToJunior, res.PriorityPairs)
			})
		}
	})

	t.Run("unknown labels count as mid", func(t *testing.T) {
		participants := []Participant{
			{ID: "a", Tier: "wizard"},
			{ID: "b"},
			{ID: "c", Tier: " MID "},
		}

		res, err := NewEngine(fixedSeed(11)).Compute(participants, PolicyPriorityPass)

		require.NoError(t, err)
		require.Zero(t, res.PriorityPairs)
		requireValid(t, participants, PolicyPriorityPass, res.Pairs)
	})

	t.Run("one senior and one junior swap", func(t *testing.T) {
		participants := []Participant{{ID: "s", Tier: "senior"}, {ID: "j", Tier: "junior"}}

		res, err := NewEngine(fixedSeed(5)).Compute(participants, PolicyPriorityPass)

		require.NoError(t, err)
		require.Equal(t, Assignment{"s": "j", "j": "s"}, res.Pairs)
		require.Equal(t, 1, res.PriorityPairs)
	})
}

func TestEngine_Compute_Errors(t *testing.T) {
	engine := NewEngine(fixedSeed(1))

	t.Run("zero participants", func(t *testing.T) {
		for _, policy := range []Policy{PolicyHardPartition, PolicyPriorityPass} {
			res, err := engine.Compute(nil, policy)
			require.ErrorIs(t, err, ErrInsufficientParticipants)
			require.Nil(t, res)
		}
	})

	t.Run("single participant", func(t *testing.T) {
		for _, policy := range []Policy{PolicyHardPartition, PolicyPriorityPass} {
			_, err := engine.Compute(people("adult", "solo"), policy)
			require.ErrorIs(t, err, ErrInsufficientParticipants)
		}
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := engine.Compute(people("adult", "a", "b"), Policy("round_robin"))
		require.ErrorIs(t, err, ErrUnknownPolicy)
	})

	t.Run("duplicate identifier", func(t *testing.T) {
		_, err := engine.Compute(people("adult", "a", "b", "a"), PolicyPriorityPass)
		require.ErrorIs(t, err, ErrInvalidParticipant)
	})

	t.Run("empty identifier", func(t *testing.T) {
		_, err := engine.Compute(people("adult", "a", ""), PolicyHardPartition)
		require.ErrorIs(t, err, ErrInvalidParticipant)
	})

	t.Run("seed failure", func(t *testing.T) {
		boom := errors.New("entropy unavailable")
		e := NewEngine(WithSeedSource(func() (int64, error) { return 0, boom }))

		_, err := e.Compute(people("adult", "a", "b"), PolicyHardPartition)

		require.ErrorIs(t, err, boom)
	})
}

func TestEngine_Compute_IsRandomButReproducible(t *testing.T) {
	participants := people("adult", "a", "b", "c", "d", "e", "f")

	first, err := NewEngine(fixedSeed(99)).Compute(participants, PolicyHardPartition)
	require.NoError(t, err)
	second, err := NewEngine(fixedSeed(99)).Compute(participants, PolicyHardPartition)
	require.NoError(t, err)
	require.Equal(t, first.Pairs, second.Pairs)

	distinct := map[string]struct{}{}
	engine := NewEngine()
	for i := 0; i < 40; i++ {
		pairs, err := ComputeAssignment(participants, PolicyHardPartition)
		require.NoError(t, err)
		requireValid(t, participants, PolicyHardPartition, pairs)
		distinct[fmt.Sprint(pairs)] = struct{}{}

		res, err := engine.Compute(participants, PolicyPriorityPass)
		require.NoError(t, err)
		requireValid(t, participants, PolicyPriorityPass, res.Pairs)
	}
	require.Greater(t, len(distinct), 1)
}

func TestEngine_Options(t *testing.T) {
	e := NewEngine(WithPartitionAttempts(0), WithRemainderAttempts(-3), WithSeedSource(nil))
	require.Equal(t, DefaultPartitionAttempts, e.partitionAttempts)
	require.Equal(t, DefaultRemainderAttempts, e.remainderAttempts)
	require.NotNil(t, e.seed)

	e = NewEngine(WithPartitionAttempts(5), WithRemainderAttempts(7))
	require.Equal(t, 5, e.partitionAttempts)
	require.Equal(t, 7, e.remainderAttempts)
}
