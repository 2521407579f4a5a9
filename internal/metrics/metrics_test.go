package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordMatchRun("hard_partition", OutcomeCompleted, 20*time.Millisecond, 3)
	c.RecordMatchRun("hard_partition", OutcomeFailed, time.Millisecond, 0)
	c.RecordMatchRun("priority_pass", OutcomeCompleted, time.Millisecond, 1)
	c.RecordEmail("MOCK", "SENT")
	c.RecordEmail("MOCK", "SENT")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 4)

	byName := map[string]int{}
	for _, f := range families {
		byName[f.GetName()] = len(f.GetMetric())
	}
	require.Equal(t, 3, byName["secret_santa_match_runs_total"])
	require.Equal(t, 2, byName["secret_santa_match_attempts"])
	require.Equal(t, 1, byName["secret_santa_emails_total"])

	for _, f := range families {
		if f.GetName() != "secret_santa_emails_total" {
			continue
		}
		require.Equal(t, 2.0, f.GetMetric()[0].GetCounter().GetValue())
	}
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	require.Panics(t, func() { NewCollector(reg) })
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordMatchRun("x", OutcomeFailed, time.Second, 0)
	r.RecordEmail("x", "y")
}
