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
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

type Return = nvml.Return

const (
	SUCCESS                = nvml.SUCCESS
	ERROR_INVALID_ARGUMENT = nvml.ERROR_INVALID_ARGUMENT
	ERROR_NOT_SUPPORTED    = nvml.ERROR_NOT_SUPPORTED
	ERROR_UNINITIALIZED    = nvml.ERROR_UNINITIALIZED
)

// Interface is the subset of NVML used to look up a single device.
type Interface interface {
	Init() Return
	Shutdown() Return
	DeviceGetCount() (int, Return)
	DeviceGetHandleByIndex(Index int) (Device, Return)
}

type Device interface {
	GetName() (string, Return)
	GetCudaComputeCapability() (int, int, Return)
}

type nvmlLib struct {
	nvml.Interface
}

var _ Interface = (*nvmlLib)(nil)

// New returns an 'Interface' backed by the system's NVML library.
func New() Interface {
	return &nvmlLib{nvml.New()}
}

func (n *nvmlLib) DeviceGetHandleByIndex(index int) (Device, Return) {
	device, ret := n.Interface.DeviceGetHandleByIndex(index)
	if ret != SUCCESS {
		return nil, ret
	}
	return device, ret
}
