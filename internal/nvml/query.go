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

package nvml

import (
	"fmt"

	"github.com/rieder/sapporo2/pkg/types"
)

// QueryDevice returns the name and compute capability of the GPU at 'index'.
// NVML is initialized and shut down around the query.
func QueryDevice(nvmlLib Interface, index int) (types.Device, error) {
	if nvmlLib == nil {
		nvmlLib = New()
	}

	ret := nvmlLib.Init()
	if ret != SUCCESS {
		return types.Device{}, fmt.Errorf("error initializing NVML: %v", ret)
	}
	defer func() {
		_ = nvmlLib.Shutdown()
	}()

	count, ret := nvmlLib.DeviceGetCount()
	if ret != SUCCESS {
		return types.Device{}, fmt.Errorf("error getting device count: %v", ret)
	}
	if index < 0 || index >= count {
		return types.Device{}, fmt.Errorf("device index %d out of range [0, %d)", index, count)
	}

	device, ret := nvmlLib.DeviceGetHandleByIndex(index)
	if ret != SUCCESS {
		return types.Device{}, fmt.Errorf("error getting handle for device %d: %v", index, ret)
	}

	name, ret := device.GetName()
	if ret != SUCCESS {
		return types.Device{}, fmt.Errorf("error getting name of device %d: %v", index, ret)
	}

	major, minor, ret := device.GetCudaComputeCapability()
	if ret != SUCCESS {
		return types.Device{}, fmt.Errorf("error getting compute capability of device %d: %v", index, ret)
	}

	return types.Device{
		Architecture: types.NewArchitecture(major, minor),
		Name:         name,
	}, nil
}
