package recommend

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/card-advisor/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const walletYAML = `cards:
  - id: sapphire
    name: Sapphire Preferred
    apr: 21.49
    statement_close_day: 15
    due_day: 10
    rewards:
      dining: 3
      default: 1
  - id: freedom
    name: Freedom Flex
    apr: 19.99
    balance: 250
    statement_close_day: 1
    grace_period_days: 25
    rewards:
      dining: 5
`

func TestMain(m *testing.M) {
	root.Init()
	root.Cmd.AddCommand(Cmd)
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"CARD_ADVISOR_DATA_CARDS_FILE", "CARD_ADVISOR_AI_ENABLED", "CARD_ADVISOR_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  level: error\n"), 0o600))
	cardsPath := filepath.Join(dir, "cards.yaml")
	require.NoError(t, os.WriteFile(cardsPath, []byte(walletYAML), 0o600))

	flags = Flags{Strategy: "rewards"}
	root.SharedFlags.Output = ""
	t.Cleanup(func() { root.AppContainer = nil })

	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetArgs(append([]string{"--config", configPath, "--cards", cardsPath, "recommend"}, args...))
	err := root.Cmd.Execute()
	return out.String(), err
}

func TestRecommendCommand_Metadata(t *testing.T) {
	assert.Equal(t, "recommend", Cmd.Use)
	assert.Contains(t, Cmd.Short, "Recommend which card")
	assert.NotNil(t, Cmd.RunE)

	for _, name := range []string{"merchant", "code", "category", "amount", "date", "strategy"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "rewards", Cmd.Flags().Lookup("strategy").DefValue)
}

func TestRecommendCommand_Rewards(t *testing.T) {
	out, err := run(t, "--category", "dining", "--amount", "100")
	require.NoError(t, err)

	assert.Contains(t, out, "dining")
	assert.Contains(t, out, "Strategy: rewards")
	assert.Contains(t, out, "Sapphire Preferred")
	assert.Contains(t, out, "$3.00")
	assert.Contains(t, out, "withheld")
}

func TestRecommendCommand_MerchantAllStrategies(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out", "ranked.csv")
	root.SharedFlags.Output = ""

	out, err := run(t, "--merchant", "Joe's Pizza", "--amount", "$40", "--date", "2024-03-16", "--strategy", "all", "--output", output)
	require.NoError(t, err)

	for _, heading := range []string{"Strategy: rewards", "Strategy: apr", "Strategy: grace_period"} {
		assert.Contains(t, out, heading)
	}

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sapphire")
}

func TestRecommendCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown strategy", []string{"--category", "dining", "--amount", "10", "--strategy", "lottery"}, "unknown strategy"},
		{"unknown category", []string{"--category", "spaceflight", "--amount", "10"}, "unknown category"},
		{"bad amount", []string{"--category", "dining", "--amount", "ten"}, "invalid amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildRequest(t *testing.T) {
	req, err := buildRequest(Flags{Merchant: "Shell", Code: 5541, Amount: "1,250.50", Date: "2024-02-29"})
	require.NoError(t, err)
	assert.Equal(t, "Shell", req.Merchant)
	assert.Equal(t, 5541, req.Code)
	assert.Equal(t, "1250.5", req.Amount.String())
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), req.Date)

	req, err = buildRequest(Flags{Category: "gas", Amount: "5"})
	require.NoError(t, err)
	assert.True(t, req.Date.IsZero())

	_, err = buildRequest(Flags{Amount: "5"})
	assert.Error(t, err)

	_, err = buildRequest(Flags{Category: "gas", Amount: "-5"})
	assert.Error(t, err)
}
