// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/mortgage-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// DefaultScenarioName names the implicit scenario built from the common
// section when no scenarios are configured.
const DefaultScenarioName = "default"

// Configuration holds all configuration for mortgage-calculator.
type Configuration struct {
	Common    Loan          `yaml:"common"`
	Scenarios []Scenario    `yaml:"scenarios,omitempty"`
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ActiveScenarios returns the scenarios to calculate in configuration order.
// Without any configured scenarios the common section is calculated on its
// own as the default scenario.
func (conf *Configuration) ActiveScenarios() []Scenario {
	if len(conf.Scenarios) == 0 {
		return []Scenario{{Name: DefaultScenarioName, Active: true}}
	}

	var active []Scenario
	for _, scenario := range conf.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	configured := conf.Scenarios
	if len(configured) == 0 {
		configured = conf.ActiveScenarios()
	}

	var scenarios []validation.ScenarioConfig
	for _, scenario := range configured {
		loan := scenario.Merge(conf.Common)
		scenarios = append(scenarios, validation.ScenarioConfig{
			Name:               scenario.Name,
			Active:             scenario.Active,
			HousePrice:         loan.HousePrice,
			DownPayment:        loan.DownPayment,
			AnnualInterestRate: loan.AnnualInterestRate,
			TermYears:          loan.TermYears,
			TaxDeduction:       loan.TaxDeduction,
		})
	}

	validator := &validation.ConfigValidator{Scenarios: scenarios}
	return validator.ValidateAll()
}
