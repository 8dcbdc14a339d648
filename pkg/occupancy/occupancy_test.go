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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rieder/sapporo2/pkg/types"
)

func TestBlocksPerMultiprocessor(t *testing.T) {
	testCases := []struct {
		Description string
		Major       int
		Minor       int
		DeviceName  string
		Blocks      int
	}{
		{"Tesla", 1, 3, "GeForce GTX 280", 2},
		{"Fermi", 2, 0, "Tesla C2050", 2},
		{"Fermi 2.1", 2, 1, "GeForce GTX 460", 2},
		{"Kepler", 3, 5, "Tesla K20c", 4},
		{"Kepler 3.0", 3, 0, "GeForce GTX 680", 4},
		{"Maxwell", 5, 2, "GeForce GTX 980", 4},
		{"Far future", 100, 0, "Unknown", 4},
		{"Zero major", 0, 0, "", 4},
		{"Other negative major", -2, 0, "Tahiti", 4},
		{"Non-NVIDIA Tahiti", types.NonNvidiaMajor, 0, "AMD Radeon Tahiti XT", 2},
		{"Non-NVIDIA Cypress", types.NonNvidiaMajor, 0, "Cypress", 2},
		{"Non-NVIDIA both names", types.NonNvidiaMajor, 0, "Cypress Tahiti", 2},
		{"Non-NVIDIA generic", types.NonNvidiaMajor, 0, "Generic Device", 2},
		{"Non-NVIDIA empty name", types.NonNvidiaMajor, 0, "", 2},
		{"Non-NVIDIA lowercase name", types.NonNvidiaMajor, 0, "tahiti", 2},
	}

	advisor, err := New()
	require.NoError(t, err)

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			blocks := advisor.BlocksPerMultiprocessor(tc.Major, tc.Minor, tc.DeviceName)
			require.Equal(t, tc.Blocks, blocks)
		})
	}
}

func TestMinorVersionIgnored(t *testing.T) {
	advisor, err := New()
	require.NoError(t, err)

	for _, major := range []int{types.NonNvidiaMajor, 0, 1, 2, 3, 4, 9} {
		expected := advisor.BlocksPerMultiprocessor(major, 0, "Tahiti")
		for _, minor := range []int{-7, 1, 2, 5, 9, 1000} {
			t.Run(fmt.Sprintf("%d.%d", major, minor), func(t *testing.T) {
				require.Equal(t, expected, advisor.BlocksPerMultiprocessor(major, minor, "Tahiti"))
			})
		}
	}
}

func TestNonNvidiaRuleOrder(t *testing.T) {
	rules := nonNvidiaRules
	defer func() { nonNvidiaRules = rules }()

	nonNvidiaRules = []vendorRule{
		{"Tahiti", 3},
		{"Cypress", 5},
	}

	advisor, err := New()
	require.NoError(t, err)

	require.Equal(t, 3, advisor.BlocksPerMultiprocessor(types.NonNvidiaMajor, 0, "Tahiti"))
	require.Equal(t, 5, advisor.BlocksPerMultiprocessor(types.NonNvidiaMajor, 0, "Cypress"))
	require.Equal(t, 3, advisor.BlocksPerMultiprocessor(types.NonNvidiaMajor, 0, "Cypress Tahiti"))
	require.Equal(t, NonNvidia, advisor.BlocksPerMultiprocessor(types.NonNvidiaMajor, 0, "Hawaii"))
}

func TestOverride(t *testing.T) {
	advisor, err := New(WithBlocksPerMultiprocessor(7))
	require.NoError(t, err)

	override, ok := advisor.Override()
	require.True(t, ok)
	require.Equal(t, 7, override)

	for _, major := range []int{types.NonNvidiaMajor, 0, 1, 2, 3, 42} {
		for _, name := range []string{"", "Tahiti", "Cypress", "Tesla K20c"} {
			require.Equal(t, 7, advisor.BlocksPerMultiprocessor(major, 5, name))
		}
	}
}

func TestNoOverride(t *testing.T) {
	advisor, err := New()
	require.NoError(t, err)

	_, ok := advisor.Override()
	require.False(t, ok)
}

func TestInvalidOverride(t *testing.T) {
	for _, blocks := range []int{0, -1, -100} {
		t.Run(fmt.Sprintf("%d", blocks), func(t *testing.T) {
			_, err := New(WithBlocksPerMultiprocessor(blocks))
			require.Error(t, err)
		})
	}
}

func TestAdvise(t *testing.T) {
	advisor, err := New()
	require.NoError(t, err)

	device := types.Device{
		Architecture: types.NewArchitecture(3, 5),
		Name:         "Tesla K20c",
	}
	require.Equal(t, 4, advisor.Advise(device))

	device = types.Device{
		Architecture: types.NewArchitecture(types.NonNvidiaMajor, 0),
		Name:         "AMD Radeon HD 7970 Tahiti",
	}
	require.Equal(t, 2, advisor.Advise(device))
}

func TestConcurrentQueries(t *testing.T) {
	advisor, err := New()
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]int, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = advisor.BlocksPerMultiprocessor(3, i, "Tesla K20c")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, 4, r)
	}
}
