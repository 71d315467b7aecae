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

package types

// Config holds the shared collaborators of every pipeline stage.
type Config struct {
	Logger Logger
	Fs     FS
	Runner Runner

	// Check enables preview mode: commands that would mutate the device or
	// the filesystem tree are reported instead of executed.
	Check bool `yaml:"check,omitempty" mapstructure:"check"`
}

// RunConfig is the full configuration of a plan/apply run.
type RunConfig struct {
	// Disk is the absolute path of the target block device or disk image file.
	Disk string `yaml:"disk,omitempty" mapstructure:"disk"`
	// Base is the absolute, existing directory every mount path is resolved under.
	Base string `yaml:"base,omitempty" mapstructure:"base"`

	Layout []PartitionDescriptor `yaml:"layout,omitempty" mapstructure:"layout"`

	Config `yaml:",inline" mapstructure:",squash"`
}

// TableDescriptor is the raw partition-table entry of a layout descriptor.
type TableDescriptor struct {
	Type string `yaml:"type" mapstructure:"type"`
	Size string `yaml:"size" mapstructure:"size"`
}

// FilesystemDescriptor is the raw filesystem entry of a layout descriptor.
// Exec optionally overrides the format command template.
type FilesystemDescriptor struct {
	Type string `yaml:"type" mapstructure:"type"`
	Exec string `yaml:"exec,omitempty" mapstructure:"exec"`
}

// MountDescriptor is the raw mount entry of a layout descriptor. Mode is a
// 'mod:owner:group' permission expression, Opts a mount options override that
// may reference the filesystem defaults through $OPTS, Exec an optional mount
// command template.
type MountDescriptor struct {
	Path string `yaml:"path" mapstructure:"path"`
	Mode string `yaml:"mode,omitempty" mapstructure:"mode"`
	Opts string `yaml:"opts,omitempty" mapstructure:"opts"`
	Exec string `yaml:"exec,omitempty" mapstructure:"exec"`
}

// PartitionDescriptor is one raw entry of the declarative layout list.
type PartitionDescriptor struct {
	Name  string                `yaml:"name" mapstructure:"name"`
	Table TableDescriptor       `yaml:"table" mapstructure:"table"`
	FS    *FilesystemDescriptor `yaml:"fs,omitempty" mapstructure:"fs"`
	Mount *MountDescriptor      `yaml:"mount,omitempty" mapstructure:"mount"`
}
