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

package spec

import (
	"fmt"
	"regexp"

	"github.com/workstation-tools/diskplan/pkg/constants"
	"github.com/workstation-tools/diskplan/pkg/types"
)

var specialSymbols = regexp.MustCompile(`[^\w\-]`)

// Partition is the fully validated specification of one partition: its table
// entry plus the optional filesystem and mount stages.
type Partition struct {
	Name  string
	Table Table
	FS    *Filesystem
	Mount *Mount
}

// NewPartition validates a raw partition descriptor stage by stage. The table
// entry is mandatory, filesystem and mount are optional and nil when absent.
func NewPartition(logger types.Logger, desc types.PartitionDescriptor) (Partition, error) {
	if desc.Name == "" {
		return Partition{}, fmt.Errorf("partitions must be given a non-empty name")
	}
	if len(desc.Name) > constants.MaxNameLength {
		logger.Warnf("It is recommended to keep partition names under %d characters, '%s' does not fit", constants.MaxNameLength, desc.Name)
	}
	if specialSymbols.MatchString(desc.Name) {
		logger.Warnf("Consider removing special symbols from partition name '%s', they may render poorly", desc.Name)
	}

	table, err := NewTable(desc.Table.Type, desc.Table.Size)
	if err != nil {
		return Partition{}, fmt.Errorf("partition '%s': %w", desc.Name, err)
	}

	fs := NewFilesystem(logger, desc.FS)

	// The mount stage resolves defaults against the filesystem name, for
	// which unformatted partitions pose as 'auto' to the mount(8) call.
	fsHint := "auto"
	if fs != nil {
		fsHint = fs.Name
	}
	mount, err := NewMount(fsHint, desc.Mount)
	if err != nil {
		return Partition{}, fmt.Errorf("partition '%s': %w", desc.Name, err)
	}

	return Partition{Name: desc.Name, Table: table, FS: fs, Mount: mount}, nil
}
