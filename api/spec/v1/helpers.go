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

package v1

import (
	"github.com/rieder/sapporo2/pkg/launch"
)

// NewSpec builds a fully populated 'Spec' from a 'launch.Config'.
func NewSpec(c *launch.Config) *Spec {
	ptr := func(i int) *int { return &i }

	tuning := &TuningSpec{
		NgbPP:    ptr(c.NgbPP),
		NgbPB:    ptr(c.NgbPB),
		NPipes:   ptr(c.NPipes),
		NThreads: ptr(c.NThreads),
	}
	if c.BlocksPerMultiprocessor != nil {
		tuning.BlocksPerMulti = ptr(*c.BlocksPerMultiprocessor)
	}

	return &Spec{
		Version: Version,
		Tuning:  tuning,
	}
}

// Options returns the 'launch.Option's declared by a 'Spec'.
func (s *Spec) Options() []launch.Option {
	if s.Tuning == nil {
		return nil
	}

	var opts []launch.Option
	if s.Tuning.NgbPP != nil {
		opts = append(opts, launch.WithNgbPP(*s.Tuning.NgbPP))
	}
	if s.Tuning.NgbPB != nil {
		opts = append(opts, launch.WithNgbPB(*s.Tuning.NgbPB))
	}
	if s.Tuning.NPipes != nil {
		opts = append(opts, launch.WithNPipes(*s.Tuning.NPipes))
	}
	if s.Tuning.NThreads != nil {
		opts = append(opts, launch.WithNThreads(*s.Tuning.NThreads))
	}
	if s.Tuning.BlocksPerMulti != nil {
		opts = append(opts, launch.WithBlocksPerMultiprocessor(*s.Tuning.BlocksPerMulti))
	}
	return opts
}

// LaunchConfig builds a validated 'launch.Config' from a 'Spec', using
// defaults for any field it leaves unset.
func (s *Spec) LaunchConfig(extra ...launch.Option) (*launch.Config, error) {
	return launch.New(append(s.Options(), extra...)...)
}
