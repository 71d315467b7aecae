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
	"strings"

	"github.com/workstation-tools/diskplan/pkg/types"
	"github.com/workstation-tools/diskplan/pkg/utils"
)

// fallbackFormatCmd is the generic format template for filesystems outside
// the knowledge base.
const fallbackFormatCmd = "mkfs.$FS $PART"

// Filesystem is the validated filesystem specification of one partition.
type Filesystem struct {
	Name string
	Cmd  string
	Opts string
}

// NewFilesystem resolves a raw filesystem descriptor against the knowledge
// base. A nil descriptor yields a nil specification (no filesystem). Unknown
// filesystems without an explicit command template fall back to a generic
// mkfs call with a warning.
func NewFilesystem(logger types.Logger, desc *types.FilesystemDescriptor) *Filesystem {
	if desc == nil {
		return nil
	}

	info, known := LookupFilesystem(desc.Type)
	opts := strings.Join(info.FormatOpts, ",")

	cmd := desc.Exec
	if cmd == "" {
		if known && info.FormatCmd != "" {
			cmd = info.FormatCmd
		} else {
			logger.Warnf("Unknown filesystem '%s' with no explicit command template. Using fallback '%s'",
				desc.Type, fallbackFormatCmd)
			cmd = fallbackFormatCmd
		}
	}

	return &Filesystem{Name: desc.Type, Cmd: cmd, Opts: opts}
}

// Evaluate renders the format command line for a partition device.
func (f Filesystem) Evaluate(name, partition string) string {
	return utils.ExpandTemplate(f.Cmd, map[string]string{
		"PART": utils.QuoteArg(partition),
		"NAME": utils.QuoteArg(name),
		"FS":   f.Name,
		"OPTS": f.Opts,
	})
}
