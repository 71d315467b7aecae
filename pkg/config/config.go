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
	"github.com/sanity-io/litter"
	"github.com/twpayne/go-vfs/v4"

	"github.com/workstation-tools/diskplan/pkg/types"
)

type GenericOptions func(c *types.Config) error

func WithFs(fs types.FS) func(c *types.Config) error {
	return func(c *types.Config) error {
		c.Fs = fs
		return nil
	}
}

func WithLogger(logger types.Logger) func(c *types.Config) error {
	return func(c *types.Config) error {
		c.Logger = logger
		return nil
	}
}

func WithRunner(runner types.Runner) func(c *types.Config) error {
	return func(c *types.Config) error {
		c.Runner = runner
		return nil
	}
}

func WithCheck(check bool) func(c *types.Config) error {
	return func(c *types.Config) error {
		c.Check = check
		return nil
	}
}

func NewConfig(opts ...GenericOptions) *types.Config {
	log := types.NewLogger()

	c := &types.Config{
		Fs:     vfs.OSFS,
		Logger: log,
	}
	for _, o := range opts {
		err := o(c)
		if err != nil {
			log.Errorf("error applying config option: %s", err.Error())
			return nil
		}
	}

	// delay runner creation after we have run over the options in case we use WithRunner
	if c.Runner == nil {
		c.Runner = &types.RealRunner{Logger: c.Logger}
	}

	// Now check if the runner has a logger inside, otherwise point our logger into it
	// This can happen if we set the WithRunner option as that doesn't set a logger
	if c.Runner.GetLogger() == nil {
		c.Runner.SetLogger(c.Logger)
	}

	return c
}

func NewRunConfig(opts ...GenericOptions) *types.RunConfig {
	config := NewConfig(opts...)
	return &types.RunConfig{Config: *config}
}

// DumpRunConfig renders the resolved run configuration for debug logging.
func DumpRunConfig(r *types.RunConfig) string {
	sq := litter.Options{
		HidePrivateFields: true,
		HideZeroValues:    true,
		FieldExclusions:   litter.Config.FieldExclusions,
	}
	return sq.Sdump(*r)
}
