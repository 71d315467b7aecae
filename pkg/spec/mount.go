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
	"regexp"
	"strings"

	"github.com/workstation-tools/diskplan/pkg/types"
	"github.com/workstation-tools/diskplan/pkg/utils"
)

const (
	// defaultMountOpts is the generic option baseline prepended for every
	// filesystem that does not explicitly opt out.
	defaultMountOpts = "async,noatime,auto,dev,exec,noiversion,suid,rw,nouser"
	// fallbackMountCmd mounts filesystems without a dedicated mount template.
	fallbackMountCmd = "mount -o $OPTS $SRC $DST"
)

var accessRegexp = regexp.MustCompile(`^(\d{3}):(\w+):(\w+)$`)

// Access is the permission triple applied to a created mount point.
type Access struct {
	Mode  string
	Owner string
	Group string
}

func (a Access) String() string {
	return fmt.Sprintf("%s:%s:%s", a.Mode, a.Owner, a.Group)
}

// Mount is the validated mount specification of one partition. Path is empty
// for pathless mounts (swap), which is only allowed when the filesystem is
// swap-like.
type Mount struct {
	Path   string
	Access Access
	Opts   string
	Cmd    string
}

// NewMount resolves a raw mount descriptor. fsName is a hint for the
// knowledge base lookups, not necessarily a validated filesystem. A nil
// descriptor yields a nil specification (no mount).
func NewMount(fsName string, desc *types.MountDescriptor) (*Mount, error) {
	if desc == nil {
		return nil, nil
	}

	var path string
	switch {
	case desc.Path == "none" && fsName == "swap":
		// swap has no mount destination
	case desc.Path == "none":
		return nil, fmt.Errorf("invalid path 'none' for non-swap partitions")
	case !filepath.IsAbs(desc.Path):
		return nil, fmt.Errorf("expected mount path '%s' to be absolute", desc.Path)
	default:
		path = filepath.Clean(desc.Path)
	}

	access := Access{Mode: "755", Owner: "root", Group: "root"}
	if desc.Mode != "" {
		match := accessRegexp.FindStringSubmatch(desc.Mode)
		if match == nil {
			return nil, fmt.Errorf("cannot parse permission expression '%s': must be 'mod:owner:group'", desc.Mode)
		}
		access = Access{Mode: match[1], Owner: match[2], Group: match[3]}
	}

	defaults := defaultOpts(fsName)
	opts := defaults
	if desc.Opts != "" {
		// User overrides are templates themselves, so light modifications
		// such as '$OPTS,errors=remount-ro' remain possible.
		opts = utils.ExpandTemplate(desc.Opts, map[string]string{"OPTS": defaults})
	}

	cmd := desc.Exec
	if cmd == "" {
		if info, ok := LookupFilesystem(fsName); ok && info.MountCmd != "" {
			cmd = info.MountCmd
		} else {
			cmd = fallbackMountCmd
		}
	}

	return &Mount{Path: path, Access: access, Opts: opts, Cmd: cmd}, nil
}

// defaultOpts derives the baseline mount options of a filesystem from the
// knowledge base.
func defaultOpts(fsName string) string {
	info, ok := LookupFilesystem(fsName)
	switch {
	case !ok || info.MountOpts == nil:
		// For unknown filesystems, assume generic options are supported.
		return defaultMountOpts
	case len(info.MountOpts) == 0:
		// An explicitly empty list means no option baseline at all, which is
		// useful for special cases such as swap.
		return "defaults"
	default:
		return strings.Join(append([]string{defaultMountOpts}, info.MountOpts...), ",")
	}
}

// Pathless reports whether the mount has no destination path.
func (m Mount) Pathless() bool {
	return m.Path == ""
}

// Destination resolves the mount destination under the layout base. Both
// operands are absolute, so this is a normalized concatenation rather than a
// path join.
func (m Mount) Destination(base string) string {
	return filepath.Clean(base + m.Path)
}

// Evaluate renders the mount command line for a partition device.
func (m Mount) Evaluate(base, partition string) string {
	dst := `""`
	if !m.Pathless() {
		dst = utils.QuoteArg(m.Destination(base))
	}
	return utils.ExpandTemplate(m.Cmd, map[string]string{
		"SRC":  utils.QuoteArg(partition),
		"DST":  dst,
		"OPTS": m.Opts,
	})
}
