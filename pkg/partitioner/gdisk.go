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
	"strings"

	"github.com/workstation-tools/diskplan/pkg/inspector"
	"github.com/workstation-tools/diskplan/pkg/spec"
	"github.com/workstation-tools/diskplan/pkg/utils"
)

// GdiskCall assembles and executes a single sgdisk invocation realizing a
// whole sector map at once.
type GdiskCall struct {
	dev    inspector.Device
	layout spec.Layout
	smap   SectorMap
}

func NewGdiskCall(dev inspector.Device, layout spec.Layout, smap SectorMap) *GdiskCall {
	return &GdiskCall{dev: dev, layout: layout, smap: smap}
}

// buildOptions renders the sgdisk command line. The disk is always zapped
// first so a stale MBR cannot make gptfdisk refuse to proceed.
func (gd GdiskCall) buildOptions() []string {
	opts := []string{"--zap-all", "--clear"}
	spans := gd.smap.Spans(len(gd.layout.Partitions))
	for i, part := range gd.layout.Partitions {
		opts = append(opts, "-n", fmt.Sprintf("0:%d:%d", spans[i].Start, spans[i].End))
		opts = append(opts, "-t", fmt.Sprintf("0:%s", part.Table.Type))
		opts = append(opts, "-c", fmt.Sprintf("0:%s", part.Name))
	}
	return append(opts, gd.dev.Disk)
}

// WriteChanges realizes the sector map on disk, or reports the sgdisk call in
// check mode.
func (gd GdiskCall) WriteChanges(exec utils.Executor) error {
	opts := gd.buildOptions()
	report := fmt.Sprintf("partition: (gptfdisk) => 'sgdisk %s'", strings.Join(opts, " "))
	_, err := exec.RunUnsafe(report, "gptfdisk", "sgdisk", opts...)
	return err
}
