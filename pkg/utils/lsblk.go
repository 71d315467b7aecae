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

package utils

import (
	"encoding/json"
	"errors"
	"strings"
)

// BlockDevice is a single lsblk JSON entry limited to the fields the
// pipeline queries for.
type BlockDevice struct {
	Path       string        `json:"path,omitempty"`
	MountPoint string        `json:"mountpoint,omitempty"`
	PartUUID   string        `json:"partuuid,omitempty"`
	Children   []BlockDevice `json:"children,omitempty"`
}

// Lsblk lists the canonical entry of a disk plus its child entries. Depending
// on the util-linux version the children come nested under the canonical
// entry or flattened after it, both shapes are handled.
func Lsblk(exec Executor, disk string, fields ...string) (BlockDevice, []BlockDevice, error) {
	out, err := exec.RunSafe("util-linux", "lsblk", "-J", "-o", strings.Join(fields, ","), disk)
	if err != nil {
		return BlockDevice{}, nil, err
	}
	return unmarshalLsblk([]byte(out))
}

func unmarshalLsblk(out []byte) (BlockDevice, []BlockDevice, error) {
	var report struct {
		BlockDevices []BlockDevice `json:"blockdevices"`
	}
	if err := json.Unmarshal(out, &report); err != nil {
		return BlockDevice{}, nil, err
	}
	if len(report.BlockDevices) == 0 {
		return BlockDevice{}, nil, errors.New("invalid lsblk output, no block devices reported")
	}

	canonical := report.BlockDevices[0]
	children := canonical.Children
	if children == nil {
		children = report.BlockDevices[1:]
	}
	return canonical, children, nil
}
