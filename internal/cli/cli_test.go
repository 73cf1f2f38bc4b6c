package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/agent-marketplace/internal/config"
	domainagent "github.com/alanyang/agent-marketplace/internal/domain/agent"
	domainrun "github.com/alanyang/agent-marketplace/internal/domain/run"
	"github.com/alanyang/agent-marketplace/internal/domain/result"
	runsvc "github.com/alanyang/agent-marketplace/internal/service/run"
)

// isolate pins the environment so only the test's own settings apply.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL",
		"MARKETPLACE_SERVER_PORT", "MARKETPLACE_SERVER_MODE",
		"MARKETPLACE_CATALOG_SOURCE", "MARKETPLACE_CATALOG_DIR",
		"MARKETPLACE_CATALOG_DATABASE_URL", "MARKETPLACE_CATALOG_REFRESH",
		"MARKETPLACE_RUN_TTL", "MARKETPLACE_RUN_STORE", "MARKETPLACE_RUN_REDIS_ADDR",
		"MARKETPLACE_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("MARKETPLACE_RUN_DELAY", "1ms")
	t.Setenv("MARKETPLACE_LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolate(t)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "marketplace "), out)
}

func TestAgents(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "all agents as a table",
			args: []string{"agents"},
			want: []string{"ID", "NAME", "Shopping Assistant", "Study Buddy", "15,420", "4.8"},
		},
		{
			name:    "lower-case category is normalised",
			args:    []string{"agents", "--category", "writing"},
			want:    []string{"Content Summarizer"},
			notWant: []string{"Shopping Assistant"},
		},
		{
			name:    "tags are conjunctive",
			args:    []string{"agents", "--tag", "budget", "--tag", "travel"},
			want:    []string{"Travel Planner"},
			notWant: []string{"Shopping Assistant", "Budget Analyst"},
		},
		{
			name: "nothing matches",
			args: []string{"agents", "-q", "zzzz"},
			want: []string{"No agents found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestAgents_JSON(t *testing.T) {
	out, err := execute(t, "agents", "--json", "--category", "Travel")
	require.NoError(t, err)

	var agents []domainagent.Agent
	require.NoError(t, json.Unmarshal([]byte(out), &agents))
	require.Len(t, agents, 1)
	assert.Equal(t, "3", agents[0].ID)
}

func TestRun(t *testing.T) {
	out, err := execute(t, "run", "1", "phone", "under", "25k")
	require.NoError(t, err)
	assert.Contains(t, out, `"bestRecommendation"`)
	assert.Contains(t, out, "Pixel 8a")
}

func TestRun_NoMock(t *testing.T) {
	out, err := execute(t, "run", "999", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, result.MsgNoMockResponse)
}

func TestRun_JSONRecord(t *testing.T) {
	out, err := execute(t, "run", "--json", "2", "summarize")
	require.NoError(t, err)

	var r domainrun.Run
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "summarize", r.Prompt)
	assert.Equal(t, domainrun.StatusCompleted, r.Status)
	assert.True(t, r.Found)
}

func TestRun_BlankPrompt(t *testing.T) {
	_, err := execute(t, "run", "1", " ")
	assert.ErrorIs(t, err, runsvc.ErrEmptyPrompt)
}

func TestRun_NeedsPrompt(t *testing.T) {
	_, err := execute(t, "run", "1")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketplace.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run:\n  store: memcached\n"), 0o600))

	_, err := execute(t, "--config", path, "agents")
	require.Error(t, err)
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "run.store")
}

func TestServe_RejectsPortZero(t *testing.T) {
	_, err := execute(t, "serve", "--port", "0")
	require.Error(t, err)
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "server.port")
}

func TestSeed_NeedsDatabase(t *testing.T) {
	_, err := execute(t, "seed")
	assert.ErrorContains(t, err, "no database")
}
