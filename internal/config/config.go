package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration: data file locations, planning
// parameters and the serving surface. Values come from defaults, an optional
// YAML file and environment overrides, in that order.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Data struct {
		CoursesPath   string `yaml:"courses_path"`
		OfferingsPath string `yaml:"offerings_path"`
	} `yaml:"data"`

	Planner struct {
		Horizon           int    `yaml:"horizon"`
		MaxCreditsPerTerm int    `yaml:"max_credits_per_term"`
		SolveTimeLimit    string `yaml:"solve_time_limit"`
		GatingCourseID    string `yaml:"gating_course_id"`
		Minimums          struct {
			Restricted  int `yaml:"restricted"`
			Conditioned int `yaml:"conditioned"`
			Free        int `yaml:"free"`
		} `yaml:"minimums"`
	} `yaml:"planner"`

	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
}

// Load reads the configuration, applying defaults first, then the YAML file
// when present, then environment variables.
func Load(path string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			file, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	loadFromEnv(config)

	if err := validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func setDefaults(config *Config) {
	config.Server.Port = "8000"

	config.Data.CoursesPath = "dados/disciplinas.json"
	config.Data.OfferingsPath = "dados/ofertas.json"

	config.Planner.Horizon = 10
	config.Planner.MaxCreditsPerTerm = 32
	config.Planner.SolveTimeLimit = "120s"
	config.Planner.GatingCourseID = "EEWU00"
	config.Planner.Minimums.Restricted = 4
	config.Planner.Minimums.Conditioned = 40
	config.Planner.Minimums.Free = 8

	config.Logging.Level = "info"
}

func loadFromEnv(config *Config) {
	if value, ok := os.LookupEnv("SERVER_PORT"); ok {
		config.Server.Port = value
	}
	if value, ok := os.LookupEnv("DISCIPLINAS_PATH"); ok {
		config.Data.CoursesPath = value
	}
	if value, ok := os.LookupEnv("OFERTAS_PATH"); ok {
		config.Data.OfferingsPath = value
	}
	if value, ok := os.LookupEnv("LOG_LEVEL"); ok {
		config.Logging.Level = value
	}
	if value, ok := os.LookupEnv("SOLVER_TIME_LIMIT"); ok {
		config.Planner.SolveTimeLimit = value
	}
}

func validate(config *Config) error {
	if config.Planner.Horizon < 1 {
		return fmt.Errorf("horizon must be at least 1, got %d", config.Planner.Horizon)
	}
	if config.Planner.MaxCreditsPerTerm < 0 {
		return fmt.Errorf("max_credits_per_term must be non-negative, got %d", config.Planner.MaxCreditsPerTerm)
	}
	if _, err := time.ParseDuration(config.Planner.SolveTimeLimit); err != nil {
		return fmt.Errorf("solve_time_limit: %w", err)
	}
	return nil
}

// TimeLimit returns the parsed solve time bound.
func (config *Config) TimeLimit() time.Duration {
	limit, err := time.ParseDuration(config.Planner.SolveTimeLimit)
	if err != nil {
		return 120 * time.Second
	}
	return limit
}
