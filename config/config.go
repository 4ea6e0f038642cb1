// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package config loads sjournal's settings from an optional config
// file and environment variables, layered over built-in defaults.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/splkext/sjournal/internal/byteio"
	"github.com/splkext/sjournal/internal/recordwriter"
)

// Config aggregates configuration for the application. Each field is
// owned by its respective package.
type Config struct {
	MaxFrameSize uint64   `mapstructure:"max_frame_size"`
	RowGroupSize int      `mapstructure:"row_group_size"`
	S3           S3Config `mapstructure:"s3"`
}

// S3Config carries the overrides needed to reach a non-default S3
// endpoint (MinIO, Ceph, LocalStack) rather than the AWS SDK's default
// resolution chain.
type S3Config struct {
	Region      string `mapstructure:"region"`
	Endpoint    string `mapstructure:"endpoint"`
	PathStyle   bool   `mapstructure:"path_style"`
	InsecureTLS bool   `mapstructure:"insecure_tls"`
}

// DefaultConfig returns the configuration sjournal runs with absent any
// file or environment overrides.
func DefaultConfig() *Config {
	return &Config{
		MaxFrameSize: byteio.DefaultMaxFrameSize,
		RowGroupSize: recordwriter.DefaultRowGroupSize,
	}
}

// Load reads configuration from an optional "sjournal.yaml" (or .json,
// .toml, ...) in the current directory and from environment variables.
// Environment variables use the prefix "SJOURNAL" and the dot character
// in keys is replaced by an underscore: "s3.region" becomes
// "SJOURNAL_S3_REGION".
func Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("sjournal")
	v.AddConfigPath(".")
	v.SetEnvPrefix("SJOURNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
