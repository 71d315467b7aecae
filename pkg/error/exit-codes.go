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

package error

// Exit codes for the different failure classes of the pipeline.
const (
	// Something called exit and it was not an error
	ExitSuccess = 0
	// Unknown error
	Unknown = 1
	// Error on layout or size/type expression validation
	InvalidInput = 10
	// Error on reading or merging configuration
	ReadingConfig = 11
	// Target device missing, of the wrong kind or still in use
	DevicePrecondition = 20
	// Requested partitions do not fit the device
	CapacityOverflow = 21
	// An external command returned a non-zero exit status
	CommandFailure = 30
	// Device state after partitioning diverged from the plan
	PlanDiverged = 40
)
