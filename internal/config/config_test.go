package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() StressProfile {
	return StressProfile{
		Name:         "weekend",
		RRule:        "FREQ=WEEKLY;BYDAY=SA,SU;COUNT=8",
		ShiftsPerDay: 3,
		Capacity:     2,
		Volunteers:   12,
		Skew:         0.3,
		Runs:         5,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		LogDir:              "logs",
		SolveTimeoutSeconds: 120,
		StressProfiles:      []StressProfile{validProfile()},
	}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_EmptyConfigIsValid(t *testing.T) {
	err := Validate(&Config{})
	assert.NoError(t, err)
}

func TestValidate_MissingProfileName(t *testing.T) {
	profile := validProfile()
	profile.Name = ""
	cfg := &Config{StressProfiles: []StressProfile{profile}}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidRRule(t *testing.T) {
	profile := validProfile()
	profile.RRule = "INVALID_RRULE_SYNTAX"
	cfg := &Config{StressProfiles: []StressProfile{profile}}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestValidate_SkewOutOfRange(t *testing.T) {
	profile := validProfile()
	profile.Skew = 1.5
	cfg := &Config{StressProfiles: []StressProfile{profile}}

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestLoadFromPath_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fairshift.yaml")

	content := `
logDir: logs
solveTimeoutSeconds: 60
stressProfiles:
  - name: weekend
    rrule: FREQ=WEEKLY;BYDAY=SA,SU;COUNT=8
    shiftsPerDay: 3
    capacity: 2
    volunteers: 12
    skew: 0.3
    runs: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, 60, cfg.SolveTimeoutSeconds)
	require.Len(t, cfg.StressProfiles, 1)
	assert.Equal(t, "weekend", cfg.StressProfiles[0].Name)
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestProfile_Lookup(t *testing.T) {
	cfg := &Config{StressProfiles: []StressProfile{validProfile()}}

	p, err := cfg.Profile("weekend")
	require.NoError(t, err)
	assert.Equal(t, 12, p.Volunteers)

	_, err = cfg.Profile("weekday")
	assert.Error(t, err)
}
