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

package fstab

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/workstation-tools/diskplan/pkg/spec"
	"github.com/workstation-tools/diskplan/pkg/utils"
)

// SubmissionEntry reports the final state of one partition: where it landed
// on the disk and what was made of it. It is the machine readable half of the
// run result.
type SubmissionEntry struct {
	Name      string `yaml:"name" json:"name"`
	PartPath  string `yaml:"part_path" json:"part_path"`
	PartUUID  string `yaml:"part_uuid" json:"part_uuid"`
	FsName    string `yaml:"fs_name,omitempty" json:"fs_name,omitempty"`
	MountPath string `yaml:"mount_path,omitempty" json:"mount_path,omitempty"`
	MountOpts string `yaml:"mount_opts,omitempty" json:"mount_opts,omitempty"`
}

// ErrPlanDiverged reports that the partitions discovered on the disk do not
// match the planned layout.
var ErrPlanDiverged = errors.New("something went wrong, new layout changes were not reflected from the disk")

// BuildSubmission discovers the created partitions with lsblk and joins them
// with the layout, in order. In check mode nothing was actually created, so
// the discovery is replaced with placeholder paths and nil UUIDs.
func BuildSubmission(exec utils.Executor, disk string, layout spec.Layout) ([]SubmissionEntry, error) {
	canonical, blockdevices, err := utils.Lsblk(exec, disk, "PATH", "PARTUUID")
	if err != nil {
		return nil, err
	}
	if exec.Check {
		blockdevices = make([]utils.BlockDevice, len(layout.Partitions))
		for i := range blockdevices {
			blockdevices[i] = utils.BlockDevice{
				Path:     fmt.Sprintf("%s/placeholder-%d", canonical.Path, i),
				PartUUID: uuid.Nil.String(),
			}
		}
	}
	if len(blockdevices) != len(layout.Partitions) {
		return nil, ErrPlanDiverged
	}

	submission := make([]SubmissionEntry, 0, len(layout.Partitions))
	for i, part := range layout.Partitions {
		entry := SubmissionEntry{
			Name:     part.Name,
			PartPath: blockdevices[i].Path,
			PartUUID: blockdevices[i].PartUUID,
		}
		if part.FS != nil {
			entry.FsName = part.FS.Name
		}
		if part.Mount != nil {
			entry.MountPath = part.Mount.Path
			entry.MountOpts = part.Mount.Opts
		}
		submission = append(submission, entry)
	}
	return submission, nil
}

// Entry is one fstab(5) line.
type Entry struct {
	Spec    string `yaml:"fs_spec" json:"fs_spec"`
	File    string `yaml:"fs_file" json:"fs_file"`
	VfsType string `yaml:"fs_vfstype" json:"fs_vfstype"`
	MntOps  string `yaml:"fs_mntops" json:"fs_mntops"`
	Freq    int    `yaml:"fs_freq" json:"fs_freq"`
	PassNo  int    `yaml:"fs_passno" json:"fs_passno"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s %s %s %d %d", e.Spec, e.File, e.VfsType, e.MntOps, e.Freq, e.PassNo)
}

// BuildFstab derives fstab entries from a submission, sorted by mount file.
// Only partitions holding both a filesystem and mount options qualify, and
// pathless mounts are recorded with the 'none' file. The root filesystem is
// the only one checked first at boot.
func BuildFstab(submission []SubmissionEntry) []Entry {
	entries := []Entry{}
	for _, sub := range submission {
		if sub.FsName == "" || sub.MountOpts == "" {
			continue
		}
		file := sub.MountPath
		if file == "" {
			file = "none"
		}
		passno := 2
		if sub.MountPath == "/" {
			passno = 1
		}
		entries = append(entries, Entry{
			Spec:    fmt.Sprintf("PARTUUID=%s", sub.PartUUID),
			File:    file,
			VfsType: sub.FsName,
			MntOps:  sub.MountOpts,
			Freq:    0,
			PassNo:  passno,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].File < entries[j].File })
	return entries
}
