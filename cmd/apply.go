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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/workstation-tools/diskplan/cmd/config"
	"github.com/workstation-tools/diskplan/pkg/action"
	dperror "github.com/workstation-tools/diskplan/pkg/error"
)

// NewApplyCmd partitions, formats and mounts a disk according to the
// declared layout. With check set the run only previews the plan.
func NewApplyCmd(root *cobra.Command, use, short string, check bool) *cobra.Command {
	c := &cobra.Command{
		Use:   use + " DISK",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ReadConfigRun(viper.GetString("config-dir"))
			if err != nil {
				cfg.Logger.Errorf("Error reading config: %s\n", err)
				return dperror.NewFromError(err, dperror.ReadingConfig)
			}

			cmd.SilenceUsage = true

			cfg.Disk = args[0]
			if base, _ := cmd.Flags().GetString("base"); base != "" {
				cfg.Base = base
			}
			if layoutFile, _ := cmd.Flags().GetString("layout"); layoutFile != "" {
				if err = config.ReadLayout(cfg, layoutFile); err != nil {
					cfg.Logger.Errorf("Error reading layout file: %s\n", err)
					return dperror.NewFromError(err, dperror.ReadingConfig)
				}
			}
			if check {
				cfg.Check = true
			}

			result, err := action.ApplyRun(cfg)
			if err != nil {
				cfg.Logger.Errorf("%s failed: %s", use, err.Error())
				return err
			}

			out, err := yaml.Marshal(result)
			if err != nil {
				return dperror.NewFromError(err, dperror.Unknown)
			}
			fmt.Print(string(out))
			return nil
		},
	}
	root.AddCommand(c)
	c.Flags().String("base", "/", "Directory every mount path is resolved under")
	c.Flags().String("layout", "", "Layout file overriding the configured partition list")
	if !check {
		c.Flags().Bool("check", false, "Preview the plan without touching the disk")
		_ = viper.BindPFlag("check", c.Flags().Lookup("check"))
	}
	return c
}

// register the subcommands into rootCmd
var _ = NewApplyCmd(rootCmd, "apply", "Partition, format and mount a disk", false)
var _ = NewApplyCmd(rootCmd, "plan", "Preview the partitioning plan of a disk", true)
