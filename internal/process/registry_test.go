package process

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexusforge/agentcore/pkg/models"
)

func TestProcessQuota(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	var started []models.ManagedProcess
	for i := 0; i < 2; i++ {
		proc, err := r.Start(ctx, "s1", "sleep", []string{"30"}, "", 2)
		require.NoError(t, err)
		started = append(started, proc)
	}

	_, err := r.Start(ctx, "s1", "sleep", []string{"30"}, "", 2)
	require.Error(t, err)
	kind, _ := models.KindOf(err)
	require.Equal(t, models.KindProcessLimitReached, kind)

	_, err = r.Stop(ctx, "s1", started[0].ID)
	require.NoError(t, err)

	_, err = r.Start(ctx, "s1", "sleep", []string{"30"}, "", 2)
	require.NoError(t, err)

	require.NoError(t, r.Cleanup(ctx, "s1"))
}

func TestStatusLazyRefreshAfterExit(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	proc, err := r.Start(ctx, "s1", "true", nil, "", 4)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, err := r.Status("s1", proc.ID)
		require.NoError(t, err)
		return !status.Running && status.ExitCode != nil
	}, time.Second, 10*time.Millisecond)
}

func TestListReturnsValueSnapshots(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	_, err := r.Start(ctx, "s1", "sleep", []string{"30"}, "", 4)
	require.NoError(t, err)

	list := r.List("s1")
	require.Len(t, list, 1)
	list[0].Args[0] = "mutated"

	list2 := r.List("s1")
	require.Equal(t, "30", list2[0].Args[0])

	require.NoError(t, r.Cleanup(ctx, "s1"))
}
