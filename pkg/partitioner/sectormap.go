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
	"math"

	"github.com/docker/go-units"

	"github.com/workstation-tools/diskplan/pkg/constants"
	"github.com/workstation-tools/diskplan/pkg/inspector"
	"github.com/workstation-tools/diskplan/pkg/spec"
	"github.com/workstation-tools/diskplan/pkg/types"
)

// fillerSentinel marks the auto sized partition until the remaining space is
// known.
const fillerSentinel = int64(-1)

// Region is one contiguous run of sectors in the map: a GPT structure, a
// partition or free space.
type Region struct {
	Label   string
	Sectors int64
}

// SectorMap is the full sector accounting of a disk: the GPT structures at
// both disk ends plus the partitions in between. Middle may hold one more
// region than the layout has partitions when leftover space is tracked as
// explicit free space.
//
// Layout follows https://en.wikipedia.org/wiki/GUID_Partition_Table.
type SectorMap struct {
	Upper  []Region
	Middle []Region
	Lower  []Region
}

// Span is the resolved placement of one partition, both LBAs inclusive.
type Span struct {
	Start int64
	End   int64
}

// BuildSectorMap resolves every partition size against the device geometry.
// It fails when the partitions do not fit the device.
func BuildSectorMap(dev inspector.Device, layout spec.Layout) (SectorMap, error) {
	entries := int64(constants.GPTEntryArrayBytes / dev.SectorSize)
	align := int64(constants.AlignSectors)
	if dev.SectorSize != 512 {
		align = constants.AlignSectorsLargeBlock
	}

	upper := []Region{
		{"Protective MBR", 1},
		{"Primary GPT Header", 1},
		{"Primary GPT Entries", entries},
	}
	upper = append(upper, Region{"Primary Alignment", align - regionTotal(upper)})

	lower := []Region{
		{"Secondary GPT Entries", entries},
		{"Secondary GPT Header", 1},
	}
	lower = append([]Region{{"Secondary Alignment", align - regionTotal(lower)}}, lower...)

	var middle []Region
	available := int64(dev.Sectors) - regionTotal(upper) - regionTotal(lower)
	for _, part := range layout.Partitions {
		var occupies int64
		switch part.Table.Size.Kind {
		case spec.SizeAuto:
			occupies = fillerSentinel
		case spec.SizeFraction:
			occupies = int64(math.Round(float64(dev.Sectors) * part.Table.Size.Fraction))
		default:
			occupies = int64(math.Round(float64(part.Table.Size.Bytes) / float64(dev.SectorSize)))
		}

		if occupies != fillerSentinel && occupies < 1 {
			return SectorMap{}, fmt.Errorf("partition size resolves below one sector: '%s'", part.Name)
		}

		middle = append(middle, Region{part.Name, occupies})

		available -= occupies
		if available < 0 {
			return SectorMap{}, fmt.Errorf("size overflow of device partition table: '%s'", part.Name)
		}
	}

	filler := -1
	for i, region := range middle {
		if region.Sectors == fillerSentinel {
			filler = i
			break
		}
	}
	if filler >= 0 {
		middle[filler].Sectors = available
	} else {
		middle = append(middle, Region{"Free Space", available})
	}

	return SectorMap{Upper: upper, Middle: middle, Lower: lower}, nil
}

func regionTotal(regions []Region) (total int64) {
	for _, region := range regions {
		total += region.Sectors
	}
	return total
}

// Spans resolves the absolute placement of the partition regions. Only the
// first count regions of the middle run are spanned, so trailing free space
// stays out.
func (m SectorMap) Spans(count int) []Span {
	spans := make([]Span, 0, count)
	sector := regionTotal(m.Upper)
	for _, region := range m.Middle[:count] {
		// LBA starts with 0, the end is inclusive
		spans = append(spans, Span{Start: sector, End: sector + region.Sectors - 1})
		sector += region.Sectors
	}
	return spans
}

// Report logs every region of the map with a humanized byte size.
func (m SectorMap) Report(logger types.Logger, sectorSize uint64) {
	regions := append(append(append([]Region{}, m.Upper...), m.Middle...), m.Lower...)
	for _, region := range regions {
		logger.Infof("partition: (%s) => '%d sector(s), %s'",
			region.Label, region.Sectors, units.BytesSize(float64(region.Sectors)*float64(sectorSize)))
	}
}
