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

package occupancy

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rieder/sapporo2/pkg/types"
)

// Blocks per multiprocessor for each known architecture tier.
const (
	Tesla      = 2 // GT200, G80
	Fermi      = 2
	Kepler     = 4
	NonNvidia  = 2
	FutureArch = 4
)

// vendorRule maps a substring of a non-NVIDIA device name to an occupancy value.
type vendorRule struct {
	match  string
	blocks int
}

// Rules are checked in order and the first match wins.
var nonNvidiaRules = []vendorRule{
	{"Tahiti", 2},  // AMD
	{"Cypress", 2}, // AMD
}

// An Option represents a functional option passed to the constructor.
type Option func(*Advisor)

// Advisor returns the number of thread blocks that should be resident per
// multiprocessor when launching the neighbour-search kernels. An 'Advisor' is
// immutable once constructed and safe for concurrent use.
type Advisor struct {
	override *int
}

// WithBlocksPerMultiprocessor replaces the architecture table with a fixed value.
func WithBlocksPerMultiprocessor(blocks int) Option {
	return func(a *Advisor) {
		a.override = &blocks
	}
}

// New constructs an 'Advisor' from the given options.
func New(opts ...Option) (*Advisor, error) {
	a := &Advisor{}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Advisor) validate() error {
	if a.override == nil {
		return nil
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Var(*a.override, "gt=0"); err != nil {
		return fmt.Errorf("invalid blocks per multiprocessor override '%d': %w", *a.override, err)
	}
	return nil
}

// Override returns the fixed value configured for this 'Advisor', if any.
func (a *Advisor) Override() (int, bool) {
	if a.override == nil {
		return 0, false
	}
	return *a.override, true
}

// BlocksPerMultiprocessor returns the occupancy hint for a device. The minor
// version is accepted but not consulted. Unknown architectures get the
// value of the most recent known tier.
func (a *Advisor) BlocksPerMultiprocessor(major, minor int, deviceName string) int {
	if a.override != nil {
		return *a.override
	}

	switch major {
	case types.NonNvidiaMajor:
		for _, rule := range nonNvidiaRules {
			if strings.Contains(deviceName, rule.match) {
				return rule.blocks
			}
		}
		return NonNvidia
	case 1:
		return Tesla
	case 2:
		return Fermi
	case 3:
		return Kepler
	default:
		return FutureArch
	}
}

// Advise is a convenience wrapper around BlocksPerMultiprocessor for a 'types.Device'.
func (a *Advisor) Advise(device types.Device) int {
	return a.BlocksPerMultiprocessor(device.Architecture.Major, device.Architecture.Minor, device.Name)
}
