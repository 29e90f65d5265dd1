package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/muster/internal/common"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("MUSTER_TEST_DIR", "/tmp/muster")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/exports", want: filepath.Join(home, "exports")},
		{in: "$MUSTER_TEST_DIR/out", want: "/tmp/muster/out"},
		{in: "/abs/path", want: "/abs/path"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandPath(tt.in), tt.in)
	}
}

func TestDefaultLogFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	assert.Equal(t, filepath.Join("~", ".local", "state", "muster", "muster.log"), DefaultLogFile())

	t.Setenv("XDG_STATE_HOME", "/var/state")
	assert.Equal(t, "/var/state/muster/muster.log", DefaultLogFile())
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "muster.log")

	f, err := OpenLogFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("first\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = OpenLogFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("second\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestLoadLLMConfig(t *testing.T) {
	t.Run("defaults to gemini with env key", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		t.Setenv("GEMINI_API_KEY", "gem-env")

		cfg, err := LoadLLMConfig()
		require.NoError(t, err)
		assert.Equal(t, "gemini", cfg.Provider)
		assert.Equal(t, "gem-env", cfg.APIKey)
	})

	t.Run("config key wins over env", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		t.Setenv("OPENAI_API_KEY", "oa-env")
		viper.Set("llm.provider", "OpenAI")
		viper.Set("llm.openai_api_key", "oa-config")
		viper.Set("llm.model", "gpt-4o")
		viper.Set("llm.timeout", "30s")
		viper.Set("llm.rate_limit", 10)

		cfg, err := LoadLLMConfig()
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "oa-config", cfg.APIKey)
		assert.Equal(t, "gpt-4o", cfg.Model)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Equal(t, 10, cfg.RateLimit)
	})

	t.Run("missing key", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		t.Setenv("ANTHROPIC_API_KEY", "")
		viper.Set("llm.provider", "anthropic")

		_, err := LoadLLMConfig()
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrMissingConfig)
		assert.Contains(t, common.UserMessage(err), "ANTHROPIC_API_KEY")
	})

	t.Run("unknown provider", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		viper.Set("llm.provider", "llama")

		_, err := LoadLLMConfig()
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestLoadSheetsConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	for _, env := range []string{
		"GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_SPREADSHEET_ID", "GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(env, "")
	}

	_, err := LoadSheetsConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "env-sheet")
	viper.Set("sheets.service_account_path", "~/key.json")
	viper.Set("sheets.sheet_title", "May")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "key.json"), cfg.ServiceAccountPath)
	assert.Equal(t, "env-sheet", cfg.SpreadsheetID)
	assert.Equal(t, "May", cfg.SheetTitle)
	assert.Equal(t, "Attendance", cfg.SpreadsheetName)
}

func TestExportDir(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	assert.Equal(t, ".", ExportDir())

	viper.Set("export.dir", "/var/exports")
	assert.Equal(t, "/var/exports", ExportDir())
}
