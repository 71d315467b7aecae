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

package action

import (
	"errors"

	dperror "github.com/workstation-tools/diskplan/pkg/error"
	"github.com/workstation-tools/diskplan/pkg/fstab"
	"github.com/workstation-tools/diskplan/pkg/inspector"
	"github.com/workstation-tools/diskplan/pkg/partitioner"
	"github.com/workstation-tools/diskplan/pkg/spec"
	"github.com/workstation-tools/diskplan/pkg/types"
	"github.com/workstation-tools/diskplan/pkg/utils"
)

// Result is what an apply (or plan) run hands back: the per-partition
// submission and the derived fstab entries.
type Result struct {
	// Changed is false for preview runs which leave the system untouched.
	Changed    bool                    `yaml:"changed" json:"changed"`
	Submission []fstab.SubmissionEntry `yaml:"submission" json:"submission"`
	Fstab      []fstab.Entry           `yaml:"fstab" json:"fstab"`
}

// ApplyRun partitions the target disk according to the declared layout, then
// formats and mounts the resulting partitions. In check mode the full plan is
// computed and reported without touching the disk.
func ApplyRun(cfg *types.RunConfig) (*Result, error) {
	exec := utils.Executor{Runner: cfg.Runner, Logger: cfg.Logger, Check: cfg.Check}

	layout, err := spec.NewLayout(&cfg.Config, cfg.Base, cfg.Layout)
	if err != nil {
		return nil, dperror.NewFromError(err, dperror.InvalidInput)
	}

	// The device goes last as it is the only builder touching ioctls.
	device, err := inspector.InspectDevice(&cfg.Config, cfg.Disk)
	if err != nil {
		return nil, dperror.NewFromError(err, dperror.DevicePrecondition)
	}

	smap, err := partitioner.BuildSectorMap(device, layout)
	if err != nil {
		return nil, dperror.NewFromError(err, dperror.CapacityOverflow)
	}
	smap.Report(cfg.Logger, device.SectorSize)

	gdisk := partitioner.NewGdiskCall(device, layout, smap)
	if err = gdisk.WriteChanges(exec); err != nil {
		return nil, dperror.NewFromError(err, dperror.CommandFailure)
	}

	// From now on the disk layout is assumed immutable. Further changes,
	// such as creating a filesystem, do not affect the partition table.
	submission, err := fstab.BuildSubmission(exec, cfg.Disk, layout)
	if errors.Is(err, fstab.ErrPlanDiverged) {
		return nil, dperror.NewFromError(err, dperror.PlanDiverged)
	} else if err != nil {
		return nil, dperror.NewFromError(err, dperror.CommandFailure)
	}

	partitions := make([]string, 0, len(submission))
	for _, entry := range submission {
		partitions = append(partitions, entry.PartPath)
	}

	if err = partitioner.FormatPartitions(exec, layout, partitions); err != nil {
		return nil, dperror.NewFromError(err, dperror.CommandFailure)
	}
	if err = partitioner.MountPartitions(exec, layout, partitions); err != nil {
		return nil, dperror.NewFromError(err, dperror.CommandFailure)
	}

	return &Result{
		Changed:    !cfg.Check,
		Submission: submission,
		Fstab:      fstab.BuildFstab(submission),
	}, nil
}
