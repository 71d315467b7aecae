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

package inspector

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/block"

	"github.com/workstation-tools/diskplan/pkg/types"
	"github.com/workstation-tools/diskplan/pkg/utils"
)

// Device is the measured geometry of the target disk.
type Device struct {
	// Disk is the absolute path of the block device node.
	Disk string
	// SectorSize is the logical sector size in bytes.
	SectorSize uint64
	// Sectors is the number of addressable sectors minus one, i.e. the last
	// addressable LBA.
	Sectors uint64
}

// InspectDevice validates the target disk and measures its geometry. The disk
// must exist, must not hold mounted partitions and must answer blockdev(8)
// geometry queries. In check mode an in-use disk only raises a warning, so a
// plan can still be previewed against a live system.
func InspectDevice(cfg *types.Config, disk string) (Device, error) {
	exec := utils.Executor{Runner: cfg.Runner, Logger: cfg.Logger, Check: cfg.Check}

	if err := checkNode(cfg, disk); err != nil {
		return Device{}, err
	}
	if err := checkInUse(cfg, disk); err != nil {
		return Device{}, err
	}

	return measure(exec, disk)
}

func checkNode(cfg *types.Config, disk string) error {
	fi, err := cfg.Fs.Stat(disk)
	if err != nil {
		return fmt.Errorf("cannot stat disk '%s': %w", disk, err)
	}
	mode := fi.Mode()
	switch {
	case mode.IsDir():
		return fmt.Errorf("disk '%s' is a directory", disk)
	case mode.IsRegular():
		// Disk images are legitimate targets, but this is the typical
		// symptom of a typo in the device path.
		cfg.Logger.Warnf("Disk '%s' is a regular file, assuming a disk image", disk)
	case mode&fs.ModeDevice != 0 && mode&fs.ModeCharDevice == 0:
		// block device, the expected target
	default:
		return fmt.Errorf("disk '%s' is neither a block device nor a regular file", disk)
	}
	return nil
}

// checkInUse scans the system block devices and refuses to touch a disk with
// mounted partitions.
func checkInUse(cfg *types.Config, disk string) error {
	blockDevices, err := block.New(ghw.WithDisableTools(), ghw.WithDisableWarnings())
	if err != nil {
		return fmt.Errorf("failed to scan block devices: %w", err)
	}
	name := filepath.Base(disk)
	for _, d := range blockDevices.Disks {
		if d.Name != name {
			continue
		}
		for _, part := range d.Partitions {
			if part.MountPoint == "" {
				continue
			}
			if cfg.Check {
				cfg.Logger.Warnf("Disk '%s' is in use: '%s' is mounted at '%s'", disk, part.Name, part.MountPoint)
				continue
			}
			return fmt.Errorf("disk '%s' is in use: '%s' is mounted at '%s'", disk, part.Name, part.MountPoint)
		}
	}
	return nil
}

func measure(exec utils.Executor, disk string) (Device, error) {
	out, err := exec.RunSafe("util-linux", "blockdev", "--getss", "--getsize64", disk)
	if err != nil {
		return Device{}, err
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return Device{}, fmt.Errorf("unexpected blockdev output for '%s': %q", disk, out)
	}
	sectorSize, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return Device{}, fmt.Errorf("failed to parse sector size of '%s': %w", disk, err)
	}
	sizeBytes, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Device{}, fmt.Errorf("failed to parse size of '%s': %w", disk, err)
	}
	if sectorSize == 0 || sizeBytes < sectorSize {
		return Device{}, fmt.Errorf("disk '%s' reports a bogus geometry: %d bytes in %d byte sectors", disk, sizeBytes, sectorSize)
	}

	return Device{
		Disk:       disk,
		SectorSize: sectorSize,
		Sectors:    sizeBytes/sectorSize - 1,
	}, nil
}
