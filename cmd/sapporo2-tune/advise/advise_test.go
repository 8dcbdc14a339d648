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

package advise

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"

	"github.com/rieder/sapporo2/cmd/sapporo2-tune/util"
	"github.com/rieder/sapporo2/internal/nvml"
	"github.com/rieder/sapporo2/pkg/launch"
	"github.com/rieder/sapporo2/pkg/types"
)

func TestCheckFlags(t *testing.T) {
	testCases := []struct {
		Description string
		Flags       Flags
		Err         bool
	}{
		{"Arch only", Flags{Arch: "3.5", OutputFormat: util.YAMLFormat}, false},
		{"Arch and name", Flags{Arch: "-1", DeviceName: "Tahiti", OutputFormat: util.JSONFormat}, false},
		{"Device index", Flags{DeviceIndexSet: true, OutputFormat: util.YAMLFormat}, false},
		{"Nothing", Flags{OutputFormat: util.YAMLFormat}, true},
		{"Name without arch", Flags{DeviceName: "Tahiti", OutputFormat: util.YAMLFormat}, true},
		{"Device index and arch", Flags{DeviceIndexSet: true, Arch: "3.5", OutputFormat: util.YAMLFormat}, true},
		{"Bad output format", Flags{Arch: "3.5", OutputFormat: "xml"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			err := CheckFlags(&tc.Flags)
			if tc.Err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAdvise(t *testing.T) {
	testCases := []struct {
		Description string
		Flags       Flags
		Config      string
		Plan        launch.Plan
		Err         bool
	}{
		{
			"Kepler from flags",
			Flags{Arch: "3.5", DeviceName: "Tesla K20c"},
			"",
			launch.Plan{
				Device:                  types.Device{Architecture: types.NewArchitecture(3, 5), Name: "Tesla K20c"},
				BlocksPerMultiprocessor: 4,
				NPipes:                  256,
				NThreads:                256,
				NgbPP:                   256,
				NgbPB:                   256,
			},
			false,
		},
		{
			"Tahiti from flags",
			Flags{Arch: "-1", DeviceName: "AMD Radeon Tahiti XT"},
			"",
			launch.Plan{
				Device:                  types.Device{Architecture: types.NewArchitecture(-1, 0), Name: "AMD Radeon Tahiti XT"},
				BlocksPerMultiprocessor: 2,
				NPipes:                  256,
				NThreads:                256,
				NgbPP:                   256,
				NgbPB:                   256,
			},
			false,
		},
		{
			"Fermi from NVML",
			Flags{DeviceIndex: 1, DeviceIndexSet: true},
			"",
			launch.Plan{
				Device:                  types.Device{Architecture: types.NewArchitecture(2, 0), Name: "Tesla C2050"},
				BlocksPerMultiprocessor: 2,
				NPipes:                  256,
				NThreads:                256,
				NgbPP:                   256,
				NgbPB:                   256,
			},
			false,
		},
		{
			"Override from config file",
			Flags{Arch: "3.5", ConfigFile: "-"},
			"version: v1\ntuning:\n  nthreads: 128\n  blocks-per-multi: 1\n",
			launch.Plan{
				Device:                  types.Device{Architecture: types.NewArchitecture(3, 5)},
				BlocksPerMultiprocessor: 1,
				Override:                true,
				NPipes:                  256,
				NThreads:                128,
				NgbPP:                   256,
				NgbPB:                   256,
			},
			false,
		},
		{
			"Override flag wins over config file",
			Flags{Arch: "3.5", ConfigFile: "-", BlocksPerMulti: 8, BlocksPerMultiSet: true},
			"version: v1\ntuning:\n  blocks-per-multi: 1\n",
			launch.Plan{
				Device:                  types.Device{Architecture: types.NewArchitecture(3, 5)},
				BlocksPerMultiprocessor: 8,
				Override:                true,
				NPipes:                  256,
				NThreads:                256,
				NgbPP:                   256,
				NgbPB:                   256,
			},
			false,
		},
		{
			"Zero override flag",
			Flags{Arch: "3.5", BlocksPerMulti: 0, BlocksPerMultiSet: true},
			"",
			launch.Plan{},
			true,
		},
		{
			"Malformed arch",
			Flags{Arch: "kepler"},
			"",
			launch.Plan{},
			true,
		},
		{
			"Missing NVML device",
			Flags{DeviceIndex: 9, DeviceIndexSet: true},
			"",
			launch.Plan{},
			true,
		},
		{
			"Invalid config file",
			Flags{Arch: "3.5", ConfigFile: "-"},
			"version: v1\ntuning:\n  npipes: 0\n",
			launch.Plan{},
			true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			var stdout bytes.Buffer
			tc.Flags.OutputFormat = util.JSONFormat

			context := Context{
				Flags:  &tc.Flags,
				Nvml:   nvml.NewMockKeplerServer(),
				Stdin:  strings.NewReader(tc.Config),
				Stdout: &stdout,
			}

			err := Advise(&context)
			if tc.Err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			var plan launch.Plan
			require.NoError(t, json.Unmarshal(stdout.Bytes(), &plan))
			require.Equal(t, tc.Plan, plan)
		})
	}
}

func TestAdviseYAMLOutput(t *testing.T) {
	var stdout bytes.Buffer
	context := Context{
		Flags:  &Flags{Arch: "2.1", DeviceName: "GeForce GTX 460", OutputFormat: util.YAMLFormat},
		Stdout: &stdout,
	}

	require.NoError(t, Advise(&context))

	var plan launch.Plan
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &plan))
	require.Equal(t, 2, plan.BlocksPerMultiprocessor)
	require.Equal(t, "GeForce GTX 460", plan.Device.Name)
	require.Equal(t, types.NewArchitecture(2, 1), plan.Device.Architecture)
}
