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

package constants

import "os"

const (
	// GPTEntryArrayBytes is the on-disk size of a GPT partition entry array.
	GPTEntryArrayBytes = 16384
	// AlignSectors is the partition alignment for 512-byte sector disks.
	AlignSectors = 2048
	// AlignSectorsLargeBlock is the alignment for any other sector size.
	AlignSectorsLargeBlock = 1024

	// MaxNameLength is the recommended upper bound for partition names.
	MaxNameLength = 10

	// DirPerm is the default permission for created mount point directories.
	DirPerm = os.FileMode(0755)

	// Default locations for runtime configuration.
	ConfigDir = "/etc/diskplan"
	EnvFile   = "/etc/diskplan/diskplan.env"
)
