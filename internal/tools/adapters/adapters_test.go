package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusforge/agentcore/internal/toolkit"
)

func TestAllToolsReportNotConfigured(t *testing.T) {
	for _, tool := range All() {
		res := tool.Execute(context.Background(), toolkit.ExecContext{}, nil)
		require.False(t, res.OK)
		require.Equal(t, "not_configured", res.Error.Code)
		require.False(t, res.Error.Retryable)
	}
}
