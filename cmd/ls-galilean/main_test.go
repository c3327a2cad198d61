package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-galilean/internal/ephem"
	"github.com/litescript/ls-galilean/internal/export"
	"github.com/litescript/ls-galilean/internal/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ls-galilean v"+version.Version+"\n", out)
}

func TestNowCmd_Text(t *testing.T) {
	out, err := execute(t, "--time", "2024-01-02 13:45", "now", "--width", "81")
	require.NoError(t, err)

	assert.Contains(t, out, "Jupiter @ 2024-01-02T13:45:00Z")
	assert.Contains(t, out, "transiting")
	assert.Contains(t, out, "                          C            (I)           G                           \n")
}

func TestNowCmd_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	_, err := execute(t, "--time", "2024-01-02T13:45:00Z", "now", "--json", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got export.SystemExport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, got.Time.Equal(time.Date(2024, 1, 2, 13, 45, 0, 0, time.UTC)))
	require.Len(t, got.Moons, ephem.NumMoons)
	assert.Equal(t, ephem.Transiting, got.Moons[0].State)
}

func TestRootCmd_NotATerminal(t *testing.T) {
	out, err := execute(t, "--time", "2024-01-02 13:45")
	require.NoError(t, err)
	assert.Contains(t, out, "Jupiter @ 2024-01-02T13:45:00Z", "falls back to the summary")
}

func TestEventsCmd(t *testing.T) {
	out, err := execute(t, "events", "--start", "2024-01-01T00:00:00Z", "--hours", "48", "--utc")
	require.NoError(t, err)

	want := strings.Join([]string{
		"Moon events in the next 2 days",
		"",
		"2024-01-01 14:03 UTC: Europa disappears",
		"2024-01-01 15:26 UTC: Io disappears",
		"2024-01-01 16:38 UTC: Europa reappears",
		"2024-01-01 16:43 UTC: Europa enters eclipse",
		"2024-01-01 18:43 UTC: Io leaves eclipse",
		"2024-01-01 18:58 UTC: Europa leaves eclipse",
		"2024-01-02 12:46 UTC: Io begins transit",
		"1 transit, 1 shadow:",
		"2024-01-02 13:50 UTC: Io's shadow appears",
		"2024-01-02 14:44 UTC: Io ends transit",
		"2024-01-02 16:08 UTC: Io's shadow disappears",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestEventsCmd_JSON(t *testing.T) {
	out, err := execute(t, "--time", "2024-01-02 12:00", "events", "--hours", "5", "--json")
	require.NoError(t, err)

	var got export.EventsExport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Start.Equal(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)), "--time is the default start")
	assert.Len(t, got.Events, 4)
}

func TestEventsCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad start", []string{"events", "--start", "someday"}},
		{"negative hours", []string{"events", "--hours", "-1"}},
		{"zero interval", []string{"events", "--interval", "0s"}},
		{"bad time", []string{"--time", "teatime", "events"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestSpotCmd(t *testing.T) {
	out, err := execute(t, "--time", "2024-01-02 13:45", "spot")
	require.NoError(t, err)

	assert.Contains(t, out, "Feature at 61.0° System II")
	assert.Contains(t, out, "Position: x -0.29")
	assert.Contains(t, out, "2024-01-02 14:13 UTC")
	assert.Contains(t, out, "2024-01-03 00:09 UTC")
	assert.Contains(t, out, "2024-01-03 10:04 UTC")
}

func TestSpotCmd_Flags(t *testing.T) {
	out, err := execute(t, "--time", "2024-01-02 13:45", "spot", "--longitude", "224", "--system", "2", "--hours", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Position: far side")
	assert.Contains(t, out, "none")

	_, err = execute(t, "spot", "--system", "III")
	assert.ErrorIs(t, err, ephem.ErrUnknownSystem)
}

func TestConfigCmd(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "log_level:")
	assert.Contains(t, out, "red_spot:")

	path := filepath.Join(t.TempDir(), "lsg.yaml")
	_, err = execute(t, "config", "--write", path)
	require.NoError(t, err)

	out, err = execute(t, "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "max_scan_hours: 744")
}
