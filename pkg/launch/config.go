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

package launch

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/rieder/sapporo2/pkg/occupancy"
	"github.com/rieder/sapporo2/pkg/types"
)

const (
	DefaultNgbPP    = 256
	DefaultNgbPB    = 256
	DefaultNPipes   = 256
	DefaultNThreads = 256
)

// Config holds the tuning parameters shared by every neighbour-search kernel
// launch in a run. It is constructed once and treated as read-only afterwards.
type Config struct {
	// NgbPP is the neighbour-list capacity for particle-particle interactions.
	NgbPP int `validate:"gt=0"`
	// NgbPB is the neighbour-list capacity for particle-box interactions.
	NgbPB int `validate:"gt=0"`
	// NPipes is the number of independent work pipelines.
	NPipes int `validate:"gt=0"`
	// NThreads is the number of threads per kernel block.
	NThreads int `validate:"gt=0"`

	// BlocksPerMultiprocessor, when set, replaces the per-architecture
	// occupancy table.
	BlocksPerMultiprocessor *int `validate:"omitempty,gt=0"`
}

// Plan is the set of values a kernel launch configurator needs for one device.
type Plan struct {
	Device                  types.Device `json:"device"                     yaml:"device"`
	BlocksPerMultiprocessor int          `json:"blocks-per-multiprocessor"  yaml:"blocks-per-multiprocessor"`
	Override                bool         `json:"override"                   yaml:"override"`
	NPipes                  int          `json:"npipes"                     yaml:"npipes"`
	NThreads                int          `json:"nthreads"                   yaml:"nthreads"`
	NgbPP                   int          `json:"ngb-pp"                     yaml:"ngb-pp"`
	NgbPB                   int          `json:"ngb-pb"                     yaml:"ngb-pb"`
}

// An Option represents a functional option passed to the constructor.
type Option func(*Config)

// WithNgbPP sets the particle-particle neighbour-list capacity.
func WithNgbPP(n int) Option {
	return func(c *Config) {
		c.NgbPP = n
	}
}

// WithNgbPB sets the particle-box neighbour-list capacity.
func WithNgbPB(n int) Option {
	return func(c *Config) {
		c.NgbPB = n
	}
}

func WithNPipes(n int) Option {
	return func(c *Config) {
		c.NPipes = n
	}
}

func WithNThreads(n int) Option {
	return func(c *Config) {
		c.NThreads = n
	}
}

// WithBlocksPerMultiprocessor sets a fixed occupancy override.
func WithBlocksPerMultiprocessor(n int) Option {
	return func(c *Config) {
		c.BlocksPerMultiprocessor = &n
	}
}

// DefaultConfig returns a 'Config' populated with the default values.
func DefaultConfig() *Config {
	return &Config{
		NgbPP:    DefaultNgbPP,
		NgbPB:    DefaultNgbPB,
		NPipes:   DefaultNPipes,
		NThreads: DefaultNThreads,
	}
}

// New constructs a validated 'Config' from the defaults and the given options.
func New(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate the launch configuration.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid launch configuration: %w", err)
	}
	return nil
}

// Advisor constructs the 'occupancy.Advisor' described by this 'Config'.
func (c *Config) Advisor() (*occupancy.Advisor, error) {
	var opts []occupancy.Option
	if c.BlocksPerMultiprocessor != nil {
		opts = append(opts, occupancy.WithBlocksPerMultiprocessor(*c.BlocksPerMultiprocessor))
	}
	return occupancy.New(opts...)
}

// Plan builds the launch 'Plan' for a device.
func (c *Config) Plan(device types.Device) (*Plan, error) {
	advisor, err := c.Advisor()
	if err != nil {
		return nil, fmt.Errorf("error creating occupancy advisor: %v", err)
	}

	_, override := advisor.Override()

	plan := &Plan{
		Device:                  device,
		BlocksPerMultiprocessor: advisor.Advise(device),
		Override:                override,
		NPipes:                  c.NPipes,
		NThreads:                c.NThreads,
		NgbPP:                   c.NgbPP,
		NgbPB:                   c.NgbPB,
	}
	return plan, nil
}
