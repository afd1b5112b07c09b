package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "xarmctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
host = "192.168.1.100"
model = 5
simulate = true
log_level = "debug"
gripper = "standard"
enable_track = false
safety_level = "high"
tcp_speed = 150.0
zones_path = "/etc/xarmctl/zones.yaml"

[safety]
x_min = -500.0
x_max = 500.0
max_tcp_speed = 400.0
collision_sensitivity = 4.0

[monitor]
enabled = true
interval_ms = 200
alert_cooldown_sec = 30

[telemetry]
enabled = true
database = "/tmp/xarmctl-test.db"

[locations.load]
pose = [400.0, 0.0, 200.0, 180.0, 0.0, 0.0]

[locations.rest]
joints = [0.0, 0.0, 0.0, 0.0, 0.0]
`)
	t.Setenv("XARMCTL_CONFIG", path)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.100", cfg.Host)
	assert.Equal(t, 5, cfg.Model)
	assert.True(t, cfg.Simulate)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "standard", cfg.Gripper)
	assert.False(t, cfg.EnableTrack)
	assert.Equal(t, "high", cfg.SafetyLevel)
	assert.InDelta(t, 150.0, cfg.TCPSpeed, 0.001)
	assert.Equal(t, "/etc/xarmctl/zones.yaml", cfg.ZonesPath)

	assert.InDelta(t, -500.0, cfg.Safety.XMin, 0.001)
	assert.InDelta(t, 400.0, cfg.Safety.MaxTCPSpeed, 0.001)
	assert.Equal(t, 200, cfg.Monitor.IntervalMs)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "/tmp/xarmctl-test.db", cfg.Telemetry.DBPath)

	require.Contains(t, cfg.Locations, "load")
	assert.Len(t, cfg.Locations["load"].Pose, 6)
	require.Contains(t, cfg.Locations, "rest")
	assert.Len(t, cfg.Locations["rest"].Joints, 5)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XARMCTL_CONFIG", "")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 6, cfg.Model)
	assert.False(t, cfg.Simulate)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, "bio", cfg.Gripper)
	assert.True(t, cfg.EnableTrack)
	assert.Equal(t, "medium", cfg.SafetyLevel)
	assert.True(t, cfg.Monitor.Enabled)
	assert.Equal(t, 100, cfg.Monitor.IntervalMs)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestMonitorDisabledWhenSimulated(t *testing.T) {
	t.Setenv("XARMCTL_CONFIG", "")

	cfg, err := config.Load([]string{"--simulate"})
	require.NoError(t, err)
	require.True(t, cfg.Monitor.Enabled)

	mon := cfg.MonitorConfig(arm.Hardware.Temperature)
	assert.False(t, mon.Enabled, "the simulator has nothing worth polling")

	cfg.Simulate = false
	assert.True(t, cfg.MonitorConfig(arm.Hardware.Temperature).Enabled)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
model = 6
simulate = false
`)
	t.Setenv("XARMCTL_CONFIG", path)

	cfg, err := config.Load([]string{"--model", "7", "--simulate"})
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Model)
	assert.True(t, cfg.Simulate)
}

func TestLoadInvalidFormat(t *testing.T) {
	path := writeConfig(t, "This is not a valid TOML file\n")
	t.Setenv("XARMCTL_CONFIG", path)

	_, err := config.Load(nil)
	require.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `log_level = "loud"`)
	t.Setenv("XARMCTL_CONFIG", path)

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestInvalidModel(t *testing.T) {
	path := writeConfig(t, `model = 12`)
	t.Setenv("XARMCTL_CONFIG", path)

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model")
}

func TestInvalidLocation(t *testing.T) {
	path := writeConfig(t, `
[locations.broken]
pose = [1.0, 2.0]
`)
	t.Setenv("XARMCTL_CONFIG", path)

	_, err := config.Load(nil)
	require.Error(t, err)
}

func TestSafetyConfigFillsDefaults(t *testing.T) {
	t.Setenv("XARMCTL_CONFIG", "")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	sc := cfg.SafetyConfig()
	assert.Equal(t, arm.DefaultWorkspace, sc.Workspace)
	assert.InDelta(t, arm.DefaultMaxTCPSpeed, sc.MaxTCPSpeed, 0.001)
	assert.InDelta(t, arm.DefaultCollisionSensitivity, sc.CollisionSensitivity, 0.001)
}

func TestSafetyConfigPartialOverride(t *testing.T) {
	path := writeConfig(t, `
[safety]
z_min = -100.0
z_max = 500.0
max_joint_speed = 90.0
`)
	t.Setenv("XARMCTL_CONFIG", path)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	sc := cfg.SafetyConfig()
	assert.Equal(t, arm.Range{Min: -100, Max: 500}, sc.Workspace.Z)
	assert.Equal(t, arm.DefaultWorkspace.X, sc.Workspace.X, "omitted axes keep the defaults")
	assert.InDelta(t, 90.0, sc.MaxJointSpeed, 0.001)
	assert.InDelta(t, arm.DefaultMaxTCPSpeed, sc.MaxTCPSpeed, 0.001)
}

func TestControllerConfigConversion(t *testing.T) {
	path := writeConfig(t, `
model = 850
gripper = "robotiq"
safety_level = "low"
joint_speed = 35.0

[locations.pick]
pose = [300.0, 100.0, 250.0, 180.0, 0.0, 0.0]
`)
	t.Setenv("XARMCTL_CONFIG", path)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	cc := cfg.ControllerConfig()
	assert.Equal(t, arm.Model850, cc.Model)
	assert.Equal(t, arm.SafetyLow, cc.SafetyLevel)
	assert.InDelta(t, 35.0, cc.Speeds.JointSpeed, 0.001)
	require.Contains(t, cc.Locations, "pick")
	assert.InDelta(t, 300.0, cc.Locations["pick"].Pose.X, 0.001)
}
