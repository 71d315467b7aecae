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

	"github.com/google/shlex"

	"github.com/workstation-tools/diskplan/pkg/spec"
	"github.com/workstation-tools/diskplan/pkg/utils"
)

// FormatPartitions creates the requested filesystem on every partition that
// asks for one. partitions holds the device paths in layout order.
func FormatPartitions(exec utils.Executor, layout spec.Layout, partitions []string) error {
	for i, part := range layout.Partitions {
		if part.FS == nil {
			continue
		}

		cmdline := part.FS.Evaluate(part.Name, partitions[i])
		fields, err := shlex.Split(cmdline)
		if err != nil {
			return fmt.Errorf("malformed format command for '%s': %w", part.Name, err)
		}

		report := fmt.Sprintf("format: (%s) => '%s'", part.Name, cmdline)
		_, err = exec.RunUnsafe(report, spec.FilesystemPackage(part.FS.Name), fields[0], fields[1:]...)
		if err != nil {
			return err
		}
	}
	return nil
}
