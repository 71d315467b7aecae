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

// FilesystemInfo describes the packaging, formatting and mounting defaults
// of a well-known filesystem.
type FilesystemInfo struct {
	// Package provides the filesystem tooling, used for command-not-found hints.
	Package string
	// FormatOpts joins into the $OPTS substitution of FormatCmd.
	FormatOpts []string
	FormatCmd  string
	// MountOpts is nil when the filesystem takes the generic option baseline,
	// an empty non-nil slice when it takes plain 'defaults' (swap), and a
	// list of additions otherwise.
	MountOpts []string
	MountCmd  string
}

// knownFilesystems is the static knowledge base. Filesystems outside this
// table fall back to generic format and mount command templates, which may
// not be the best option (i.e. the fallback will not set a filesystem label).
var knownFilesystems = map[string]FilesystemInfo{
	"swap": {
		Package:   "util-linux",
		FormatCmd: "mkswap -L $NAME $PART",
		MountOpts: []string{},
		MountCmd:  "swapon $SRC",
	},
	"ext4": {
		Package: "e2fsprogs",
		FormatOpts: []string{
			"fast_commit",
			"64bit",
			"dir_index",
			"ext_attr",
			"extent",
			"filetype",
			"flex_bg",
			"has_journal",
			"inline_data",
			"large_dir",
			"large_file",
			"sparse_super",
			"metadata_csum",
		},
		FormatCmd: "mkfs.ext4 -F -L $NAME -t $FS -O $OPTS $PART",
	},
	"btrfs": {
		Package: "btrfs-progs",
		FormatOpts: []string{
			"extref",
			"skinny-metadata",
			"no-holes",
		},
		FormatCmd: "mkfs.btrfs -f -L $NAME -O $OPTS $PART",
	},
	"xfs": {
		Package:   "xfsprogs",
		FormatCmd: "mkfs.xfs -f -L $NAME -f $PART",
		MountOpts: []string{
			"nodiscard",
			"noquota",
		},
	},
	"f2fs": {
		Package: "f2fs-tools",
		FormatOpts: []string{
			"extra_attr",
			"flexible_inline_xattr",
			"inode_checksum",
		},
		FormatCmd: "mkfs.f2fs -f -i -l $NAME -O $OPTS $PART",
	},
	"vfat": {
		Package:   "dosfstools",
		FormatCmd: "mkfs.vfat -F 32 -n $NAME $PART",
		MountOpts: []string{
			"errors=remount-ro",
			"check=strict",
			"tz=UTC",
			"dmask=0027",
			"fmask=0037",
		},
	},
	"exfat": {
		Package:   "exfatprogs",
		FormatCmd: "mkfs.exfat -L $NAME $PART",
	},
	"ntfs": {
		Package:   "ntfs-3g",
		FormatCmd: "mkfs.ntfs -Q -L $NAME $PART",
		MountCmd:  "mount -t ntfs3 -o $OPTS $SRC $DST",
	},
}

// LookupFilesystem returns the knowledge base entry for a filesystem name.
func LookupFilesystem(name string) (FilesystemInfo, bool) {
	info, ok := knownFilesystems[name]
	return info, ok
}

// FilesystemPackage returns the package expected to provide the tooling of a
// filesystem. Unknown filesystems hint at a package named after themselves.
func FilesystemPackage(name string) string {
	if info, ok := knownFilesystems[name]; ok {
		return info.Package
	}
	return name
}
