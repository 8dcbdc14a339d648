/*
 * Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"fmt"
	"strconv"
	"strings"
)

// NonNvidiaMajor is the major version reported for devices that are not NVIDIA GPUs.
const NonNvidiaMajor = -1

// Architecture represents a GPU compute capability as a (major, minor) version pair.
type Architecture struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
}

// Device holds the information a launch configurator queries from the platform for a single GPU.
type Device struct {
	Architecture Architecture `json:"architecture" yaml:"architecture"`
	Name         string       `json:"name"         yaml:"name"`
}

// NewArchitecture constructs an 'Architecture' from its major and minor versions.
func NewArchitecture(major, minor int) Architecture {
	return Architecture{Major: major, Minor: minor}
}

// ParseArchitecture constructs an 'Architecture' from its string representation.
// Both "<major>.<minor>" and "<major>" are accepted.
func ParseArchitecture(str string) (Architecture, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return Architecture{}, fmt.Errorf("unable to parse architecture from empty string")
	}

	majorStr, minorStr, hasMinor := strings.Cut(str, ".")

	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return Architecture{}, fmt.Errorf("unable to parse major version from '%v': %v", str, err)
	}

	minor := 0
	if hasMinor {
		minor, err = strconv.Atoi(minorStr)
		if err != nil {
			return Architecture{}, fmt.Errorf("unable to parse minor version from '%v': %v", str, err)
		}
		if minor < 0 {
			return Architecture{}, fmt.Errorf("negative minor version in '%v'", str)
		}
	}

	return NewArchitecture(major, minor), nil
}

// String returns an 'Architecture' as a string.
func (a Architecture) String() string {
	return fmt.Sprintf("%d.%d", a.Major, a.Minor)
}

// IsNvidia returns whether the 'Architecture' belongs to an NVIDIA device.
func (a Architecture) IsNvidia() bool {
	return a.Major != NonNvidiaMajor
}
