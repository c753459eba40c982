// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config is the root-level settings struct and is a mix of settings
// available in a settings file and those bound from the command line.
type Config struct {
	// weight for the length difference when scoring a candidate decoy
	LenWeight int `mapstructure:"len-weight"`

	// weight for the (K+R) count difference when scoring a candidate decoy
	KrWeight int `mapstructure:"kr-weight"`

	// widest length difference, in residues, the search will consider
	MaxLenWindow int `mapstructure:"max-len-window"`

	// widest (K+R) count difference the search will consider
	MaxKrWindow int `mapstructure:"max-kr-window"`

	// whether to log per-run stats to stdout
	Verbose bool `mapstructure:"verbose"`
}

// New returns a Config populated by Viper settings and/or command line
// arguments bound by the cmd package.
func New() *Config {
	setDefaults()

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		log.Fatalf("unable to decode settings into struct: %v", err)
	}

	return c
}

// setDefaults fills in the matcher defaults. Length differences are cheap
// relative to (K+R) differences, and the windows are wide enough that a
// bacterial-scale pool is searched exhaustively.
func setDefaults() {
	viper.SetDefault("len-weight", 1)
	viper.SetDefault("kr-weight", 10)
	viper.SetDefault("max-len-window", 2000)
	viper.SetDefault("max-kr-window", 2000)
	viper.SetDefault("verbose", false)
}
