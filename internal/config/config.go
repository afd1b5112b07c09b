package config

import (
	"flag"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/cyrilcaoyang/xarmctl/internal/errors"
)

const (
	DefaultLogLevel = "info"

	envConfigPath = "XARMCTL_CONFIG"
	envPrefix     = "XARMCTL"
)

// Config is the raw daemon configuration merged from file, environment and
// flags. Zero values mean "use the default"; translation into the typed
// subsystem configurations happens in convert.go.
type Config struct {
	Host     string `mapstructure:"host"`
	Model    int    `mapstructure:"model"`
	Simulate bool   `mapstructure:"simulate"`
	LogLevel string `mapstructure:"log_level"`

	Gripper     string `mapstructure:"gripper"`
	EnableTrack bool   `mapstructure:"enable_track"`
	SafetyLevel string `mapstructure:"safety_level"`

	TCPSpeed     float64 `mapstructure:"tcp_speed"`
	TCPAccel     float64 `mapstructure:"tcp_accel"`
	JointSpeed   float64 `mapstructure:"joint_speed"`
	JointAccel   float64 `mapstructure:"joint_accel"`
	GripperSpeed float64 `mapstructure:"gripper_speed"`
	TrackSpeed   float64 `mapstructure:"track_speed"`

	Safety    SafetySection    `mapstructure:"safety"`
	Monitor   MonitorSection   `mapstructure:"monitor"`
	Telemetry TelemetrySection `mapstructure:"telemetry"`

	// ZonesPath points to the optional YAML zone tables. Empty selects the
	// built-in defaults.
	ZonesPath string `mapstructure:"zones_path"`

	Locations map[string]LocationSection `mapstructure:"locations"`
}

// SafetySection is the user safety envelope before hardware clamping. Zero
// ranges fall back to the stock workspace.
type SafetySection struct {
	XMin float64 `mapstructure:"x_min"`
	XMax float64 `mapstructure:"x_max"`
	YMin float64 `mapstructure:"y_min"`
	YMax float64 `mapstructure:"y_max"`
	ZMin float64 `mapstructure:"z_min"`
	ZMax float64 `mapstructure:"z_max"`

	MaxTCPSpeed          float64 `mapstructure:"max_tcp_speed"`
	MaxJointSpeed        float64 `mapstructure:"max_joint_speed"`
	CollisionSensitivity float64 `mapstructure:"collision_sensitivity"`
	TempWarning          float64 `mapstructure:"temp_warning"`
	TempCritical         float64 `mapstructure:"temp_critical"`
}

// MonitorSection controls the background health monitor.
type MonitorSection struct {
	Enabled          bool `mapstructure:"enabled"`
	IntervalMs       int  `mapstructure:"interval_ms"`
	AlertCooldownSec int  `mapstructure:"alert_cooldown_sec"`
}

// TelemetrySection controls snapshot persistence.
type TelemetrySection struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"database"`
}

// LocationSection is one named target, either a 6-element pose or a joint
// vector.
type LocationSection struct {
	Pose   []float64 `mapstructure:"pose"`
	Joints []float64 `mapstructure:"joints"`
}

// Load merges configuration from the TOML file, XARMCTL_* environment
// variables and the given command-line arguments, in ascending precedence.
func Load(args []string) (*Config, error) {
	errFactory := errors.New()

	fs := flag.NewFlagSet("xarmctl", flag.ContinueOnError)
	host := fs.String("host", "", "Arm controller address")
	model := fs.Int("model", 0, "Arm model (5, 6, 7 or 850)")
	simulate := fs.Bool("simulate", false, "Run against the simulated driver")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warning, error)")
	zonesPath := fs.String("zones", "", "Path to the YAML zone tables")

	if err := fs.Parse(args); err != nil && !errors.Is(err, flag.ErrHelp) {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path := os.Getenv(envConfigPath); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName("xarmctl.conf")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	// Flags override file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			v.Set("host", *host)
		case "model":
			v.Set("model", *model)
		case "simulate":
			v.Set("simulate", *simulate)
		case "log-level":
			v.Set("log_level", *logLevel)
		case "zones":
			v.Set("zones_path", *zonesPath)
		}
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("model", 6)
	v.SetDefault("simulate", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("gripper", "bio")
	v.SetDefault("enable_track", true)
	v.SetDefault("safety_level", "medium")
	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.interval_ms", 100)
	v.SetDefault("monitor.alert_cooldown_sec", 60)
	v.SetDefault("telemetry.enabled", false)
}

func validLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warning", "error":
		return true
	default:
		return false
	}
}

// Validate rejects values no subsystem could interpret. Range clamping is
// not done here; the safety envelope handles that with warnings.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !validLogLevel(c.LogLevel) {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	switch c.Model {
	case 5, 6, 7, 850:
	default:
		return errFactory.WithMessage(errors.ErrInvalidConfig, "model must be 5, 6, 7 or 850")
	}

	switch c.Gripper {
	case "bio", "standard", "robotiq", "none":
	default:
		return errFactory.WithMessage(errors.ErrInvalidConfig, "unknown gripper kind")
	}

	switch c.SafetyLevel {
	case "emergency", "high", "medium", "low":
	default:
		return errFactory.WithMessage(errors.ErrInvalidConfig, "unknown safety level")
	}

	for name, loc := range c.Locations {
		if len(loc.Pose) == 0 && len(loc.Joints) == 0 {
			return errFactory.WithData(errors.ErrInvalidConfig, "location "+name+" defines neither pose nor joints")
		}
		if len(loc.Pose) != 0 && len(loc.Pose) != 6 {
			return errFactory.WithData(errors.ErrInvalidConfig, "location "+name+" pose must have 6 elements")
		}
	}

	return nil
}
