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

package partitioner

import (
	"fmt"
	"sort"

	"github.com/google/shlex"

	"github.com/workstation-tools/diskplan/pkg/spec"
	"github.com/workstation-tools/diskplan/pkg/utils"
)

type mountEntry struct {
	partition string
	part      spec.Partition
}

// MountPartitions mounts every partition that asks for a mount under the
// layout base. Entries are ordered by mount path so parents always mount
// before nested children, e.g. [/boot, /home, /] mounts as [/, /boot, /home].
// Pathless mounts (swap) go first.
func MountPartitions(exec utils.Executor, layout spec.Layout, partitions []string) error {
	var entries []mountEntry
	for i, part := range layout.Partitions {
		if part.Mount == nil {
			continue
		}
		entries = append(entries, mountEntry{partition: partitions[i], part: part})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].part.Mount.Path < entries[j].part.Mount.Path
	})

	for _, entry := range entries {
		mount := entry.part.Mount
		if !mount.Pathless() {
			if err := makeMountPoint(exec, layout.Base, entry.part); err != nil {
				return err
			}
		}

		cmdline := mount.Evaluate(layout.Base, entry.partition)
		fields, err := shlex.Split(cmdline)
		if err != nil {
			return fmt.Errorf("malformed mount command for '%s': %w", entry.part.Name, err)
		}

		report := fmt.Sprintf("mount: (%s) => '%s'", entry.part.Name, cmdline)
		_, err = exec.RunUnsafe(report, mountPackage(entry.part), fields[0], fields[1:]...)
		if err != nil {
			return err
		}
	}
	return nil
}

// makeMountPoint creates the mount destination with the requested mode and
// ownership in a single install(1) call, so check mode previews it as one
// skipped command.
func makeMountPoint(exec utils.Executor, base string, part spec.Partition) error {
	mount := part.Mount
	path := mount.Destination(base)
	report := fmt.Sprintf("mount: (%s) => '%s:%s'", part.Name, path, mount.Access)
	_, err := exec.RunUnsafe(report, "coreutils", "install",
		"-d", "-m", mount.Access.Mode, "-o", mount.Access.Owner, "-g", mount.Access.Group, path)
	return err
}

// mountPackage names the package expected to provide the mount tooling of a
// partition. Unformatted partitions mount with plain util-linux mount(8).
func mountPackage(part spec.Partition) string {
	if part.FS == nil {
		return "util-linux"
	}
	return spec.FilesystemPackage(part.FS.Name)
}
