/*
Copyright © 2024 - 2025 diskplan authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/workstation-tools/diskplan/pkg/config"
	"github.com/workstation-tools/diskplan/pkg/constants"
	"github.com/workstation-tools/diskplan/pkg/types"
)

// ReadConfigRun builds the run configuration for a plan/apply invocation. It
// merges, in precedence order: command line flags, DISKPLAN_* environment
// variables, the diskplan.env defaults file and config.yaml from configDir.
func ReadConfigRun(configDir string, opts ...config.GenericOptions) (*types.RunConfig, error) {
	cfg := config.NewRunConfig(opts...)

	configLogger(cfg.Logger, cfg.Fs)

	// The env defaults file feeds the same keys as DISKPLAN_* vars do, so
	// unattended hosts can pin defaults without a full config.yaml.
	if _, err := os.Stat(constants.EnvFile); err == nil {
		if err = godotenv.Load(constants.EnvFile); err != nil {
			cfg.Logger.Warnf("Could not load env defaults from %s: %s", constants.EnvFile, err.Error())
		}
	}

	viper.AddConfigPath(configDir)
	viper.SetConfigType("yaml")
	viper.SetConfigName("config.yaml")
	// If a config file is found, read it in.
	_ = viper.MergeInConfig()

	// Set the prefix for vars so we get only the ones starting with DISKPLAN
	viper.SetEnvPrefix("DISKPLAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// unmarshal all the vars into the config object
	err := viper.Unmarshal(cfg, setDecoder)
	if err != nil {
		cfg.Logger.Warnf("Error unmarshalling config: %s", err)
	}

	cfg.Logger.Debugf("Full config loaded: %s", config.DumpRunConfig(cfg))
	return cfg, err
}

// ReadLayout loads a declarative layout file, replacing whatever layout the
// merged configuration carried.
func ReadLayout(cfg *types.RunConfig, path string) error {
	data, err := cfg.Fs.ReadFile(path)
	if err != nil {
		return err
	}
	var layout struct {
		Layout []types.PartitionDescriptor `yaml:"layout"`
	}
	if err = yaml.Unmarshal(data, &layout); err != nil {
		return err
	}
	cfg.Layout = layout.Layout
	return nil
}

func configLogger(log types.Logger, vfs types.FS) {
	// Set debug level
	if viper.GetBool("debug") {
		log.SetLevel(types.DebugLevel())
	}

	// Set formatter so both file and stdout format are equal
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableColors:    false,
		DisableTimestamp: false,
		FullTimestamp:    true,
	})

	// Logfile
	logfile := viper.GetString("logfile")
	if logfile != "" {
		o, err := vfs.OpenFile(logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.DirPerm)
		if err != nil {
			log.Errorf("Could not open %s for logging to file: %s", logfile, err.Error())
		}

		if viper.GetBool("quiet") { // if quiet is set, only set the log to the file
			log.SetOutput(o)
		} else { // else set it to both stdout and the file
			mw := io.MultiWriter(os.Stdout, o)
			log.SetOutput(mw)
		}
	} else { // no logfile
		if viper.GetBool("quiet") { // quiet is enabled so discard all logging
			log.SetOutput(io.Discard)
		} else { // default to stdout
			log.SetOutput(os.Stdout)
		}
	}
}

func setDecoder(config *mapstructure.DecoderConfig) {
	// Make sure we zero fields before applying them, this is relevant for slices
	// so we do not merge with any already present value and directly apply whatever
	// we got form configs.
	config.ZeroFields = true
}
