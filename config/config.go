// Package config loads simulation parameters from a YAML file using a
// two-stage viper -> yaml.v3 indirection: viper reads the outer document
// structure, then the "spec" section is re-marshaled and decoded into the
// strongly typed SimConfig so that YAML-specific quirks (anchors, merge
// keys) are resolved by yaml.v3 rather than viper's own decoder.
package config

import (
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"goldrush/agent"
	"goldrush/board"
)

// TeamSpec is one team's YAML-level configuration.
type TeamSpec struct {
	Size         int `yaml:"size"`
	DepositX     int `yaml:"deposit_x"`
	DepositY     int `yaml:"deposit_y"`
}

// WeightsSpec mirrors agent.Weights for YAML decoding.
type WeightsSpec struct {
	Coldness float64 `yaml:"coldness"`
	Gold     float64 `yaml:"gold"`
	Dist     float64 `yaml:"dist"`
	Density  float64 `yaml:"density"`
}

// SimConfig is the fully decoded simulation configuration.
type SimConfig struct {
	Width     int         `yaml:"width"`
	Height    int         `yaml:"height"`
	GoldTotal int         `yaml:"gold_total"`
	Red       TeamSpec    `yaml:"red"`
	Blue      TeamSpec    `yaml:"blue"`
	Weights   WeightsSpec `yaml:"weights"`
	Steps     int         `yaml:"steps"`
	Seed      int64       `yaml:"seed"`
}

// outerDoc is the document-level shape viper decodes before we hand the
// "spec" section to yaml.v3 for the real decode.
type outerDoc struct {
	Kind string      `mapstructure:"kind"`
	Spec interface{} `mapstructure:"spec"`
}

// Default returns the baked-in configuration used when no file is given,
// matching the original's 20x20 board, 40 gold, two teams of 10.
func Default() SimConfig {
	return SimConfig{
		Width:     20,
		Height:    20,
		GoldTotal: 40,
		Red:       TeamSpec{Size: 10, DepositX: 9, DepositY: 0},
		Blue:      TeamSpec{Size: 10, DepositX: 9, DepositY: 19},
		Weights:   WeightsSpec{Coldness: 5, Gold: 10, Dist: 50, Density: 150},
		Steps:     1000,
		Seed:      0,
	}
}

// Load reads path via viper, then re-decodes its "spec" section through
// yaml.v3 into a SimConfig.
func Load(path string) (SimConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	if err := vp.ReadInConfig(); err != nil {
		return SimConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var outer outerDoc
	if err := vp.Unmarshal(&outer); err != nil {
		return SimConfig{}, fmt.Errorf("decoding config document: %w", err)
	}

	raw, err := yaml.Marshal(outer.Spec)
	if err != nil {
		return SimConfig{}, fmt.Errorf("re-marshaling spec section: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return SimConfig{}, fmt.Errorf("decoding spec section: %w", err)
	}
	return cfg, nil
}

// AgentWeights converts the YAML-level weights into agent.Weights.
func (c SimConfig) AgentWeights() agent.Weights {
	return agent.Weights{
		Coldness: c.Weights.Coldness,
		Gold:     c.Weights.Gold,
		Dist:     c.Weights.Dist,
		Density:  c.Weights.Density,
	}
}

// RedDeposit and BlueDeposit return each team's configured deposit position.
func (c SimConfig) RedDeposit() board.Position {
	return board.Position{X: c.Red.DepositX, Y: c.Red.DepositY}
}

func (c SimConfig) BlueDeposit() board.Position {
	return board.Position{X: c.Blue.DepositX, Y: c.Blue.DepositY}
}
