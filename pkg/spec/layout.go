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
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/workstation-tools/diskplan/pkg/types"
	"github.com/workstation-tools/diskplan/pkg/utils"
)

// Layout is a complete, validated partitioning plan for one device.
type Layout struct {
	// Base is the directory every mount path is resolved under.
	Base       string
	Partitions []Partition
}

// NewLayout validates the whole declarative layout. Per-partition errors are
// aggregated so a single run reports every invalid entry at once.
func NewLayout(cfg *types.Config, base string, descs []types.PartitionDescriptor) (Layout, error) {
	if err := checkBase(cfg.Fs, base); err != nil {
		return Layout{}, err
	}
	if len(descs) == 0 {
		return Layout{}, fmt.Errorf("layout must hold at least one partition")
	}

	var errs *multierror.Error
	partitions := make([]Partition, 0, len(descs))
	fillers := 0
	for _, desc := range descs {
		partition, err := NewPartition(cfg.Logger, desc)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if partition.Table.Size.Kind == SizeAuto {
			fillers++
		}
		partitions = append(partitions, partition)
	}
	if fillers > 1 {
		errs = multierror.Append(errs, fmt.Errorf("more than one partition with size=auto filler"))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return Layout{}, err
	}

	return Layout{Base: filepath.Clean(base), Partitions: partitions}, nil
}

func checkBase(fs types.FS, base string) error {
	if !filepath.IsAbs(base) {
		return fmt.Errorf("expected base directory '%s' to be absolute", base)
	}
	ok, err := utils.Exists(fs, base)
	if err != nil {
		return fmt.Errorf("failed to stat base directory '%s': %w", base, err)
	}
	if !ok {
		return fmt.Errorf("base directory '%s' does not exist", base)
	}
	dir, err := utils.IsDir(fs, base)
	if err != nil {
		return fmt.Errorf("failed to stat base directory '%s': %w", base, err)
	}
	if !dir {
		return fmt.Errorf("base '%s' is not a directory", base)
	}
	return nil
}
