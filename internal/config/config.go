// Package config loads the geometry a btreeindex data file is created
// with: key size, value size, block size, and block count.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Geometry describes the fixed layout of a btreeindex data file.
type Geometry struct {
	KeySize   int `mapstructure:"keysize"`
	ValueSize int `mapstructure:"valuesize"`
	BlockSize int `mapstructure:"blocksize"`
	NumBlocks int `mapstructure:"numblocks"`
}

// defaults match the Brown CS166 lab's own defaults: an 8-byte key and
// 8-byte value fit comfortably in a 4096-byte block.
func defaults() *viper.Viper {
	v := viper.New()
	v.SetDefault("keysize", 8)
	v.SetDefault("valuesize", 8)
	v.SetDefault("blocksize", 4096)
	v.SetDefault("numblocks", 1024)
	return v
}

// Load reads geometry from the YAML file at path. An empty path returns
// the defaults unchanged, so the CLI works against a fresh data file with
// zero configuration.
func Load(path string) (*Geometry, error) {
	v := defaults()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var g Geometry
	if err := v.Unmarshal(&g); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &g, nil
}
