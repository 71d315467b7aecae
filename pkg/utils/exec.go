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
	"fmt"
	"strings"

	"github.com/workstation-tools/diskplan/pkg/types"
)

// Executor runs external commands on behalf of the pipeline stages. Every
// command carries the name of the package expected to provide its binary, so
// a command-not-found failure can suggest what to install. In check mode the
// unsafe (mutating) commands are reported instead of executed.
type Executor struct {
	Runner types.Runner
	Logger types.Logger
	Check  bool
}

// RunSafe executes the command regardless of check mode. Safe commands are
// read-only queries (lsblk, blockdev).
func (e Executor) RunSafe(pkg, binary string, args ...string) (string, error) {
	out, err := e.Runner.Run(binary, args...)
	if err == nil {
		return string(out), nil
	}
	return string(out), e.diagnose(pkg, binary, args, out, err)
}

// RunUnsafe executes the command unless check mode is enabled. The report, if
// any, is logged either way so a preview run still describes the full plan.
func (e Executor) RunUnsafe(report, pkg, binary string, args ...string) (string, error) {
	if e.Check {
		if report != "" {
			e.Logger.Infof("(check) %s", report)
		}
		return "", nil
	}
	out, err := e.RunSafe(pkg, binary, args...)
	if err != nil {
		return out, err
	}
	if report != "" {
		e.Logger.Info(report)
	}
	return out, nil
}

// diagnose runs `whereis -b` on a failed binary to tell a missing program
// apart from a program that merely exited non-zero.
func (e Executor) diagnose(pkg, binary string, args []string, out []byte, err error) error {
	wout, werr := e.Runner.Run("whereis", "-b", binary)
	if werr != nil {
		e.Logger.Warnf("Unable to debug '%s' failure with whereis. Is util-linux installed?", binary)
	} else if len(strings.SplitN(strings.TrimSpace(string(wout)), ": ", 2)) == 1 {
		return fmt.Errorf("command '%s' was not found. Ensure the '%s' package is installed", binary, pkg)
	}
	return fmt.Errorf("failed to run '%s %s': %w: %s", binary, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
}
