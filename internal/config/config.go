// Package config loads the simulator's task manifest: which words to
// register, which tasks to spawn against them, and how fast the simulated
// clock ticks.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// TaskSpec describes one task to spawn at simulator startup.
type TaskSpec struct {
	Name     string `yaml:"name"`
	Word     string `yaml:"word"`
	Priority uint8  `yaml:"priority"`
	DSSize   uint8  `yaml:"dsSize"`
	RSSize   uint8  `yaml:"rsSize"`
}

// WordSpec names a bytecode word and its source file.
type WordSpec struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// Config is the simulator's full task manifest.
type Config struct {
	TimeSliceMs   uint32        `yaml:"timeSliceMs"`
	TickInterval  time.Duration `yaml:"tickInterval"`
	MetricsListen string        `yaml:"metricsListen"`
	Words         []WordSpec    `yaml:"words"`
	Tasks         []TaskSpec    `yaml:"tasks"`
}

const (
	defaultTimeSliceMs   = 10
	defaultTickInterval  = time.Millisecond
	defaultMetricsListen = ":9090"
)

// Load reads configFile (if non-empty) as YAML, then overlays any
// V4RTOS_-prefixed environment variables for the scalar settings,
// following the file-then-env precedence the rest of the pack's config
// loaders use.
func Load(configFile string) (*Config, error) {
	cfg := Config{
		TimeSliceMs:   defaultTimeSliceMs,
		TickInterval:  defaultTickInterval,
		MetricsListen: defaultMetricsListen,
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", configFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("V4RTOS")
	v.AutomaticEnv()
	if v.IsSet("TIMESLICEMS") {
		cfg.TimeSliceMs = v.GetUint32("TIMESLICEMS")
	}
	if v.IsSet("TICKINTERVAL") {
		cfg.TickInterval = v.GetDuration("TICKINTERVAL")
	}
	if v.IsSet("METRICSLISTEN") {
		cfg.MetricsListen = v.GetString("METRICSLISTEN")
	}

	return &cfg, nil
}
