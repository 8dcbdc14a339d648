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

type MockServer struct {
	Devices     []Device
	InitReturn  Return
	Initialized bool
}

type MockDevice struct {
	Name  string
	Major int
	Minor int
	// Return is returned from every query when set to anything other than SUCCESS.
	Return Return
}

var _ Interface = (*MockServer)(nil)
var _ Device = (*MockDevice)(nil)

// NewMockKeplerServer returns a server with a Kepler, a Fermi and a Volta GPU.
func NewMockKeplerServer() *MockServer {
	return &MockServer{
		Devices: []Device{
			&MockDevice{Name: "Tesla K20c", Major: 3, Minor: 5},
			&MockDevice{Name: "Tesla C2050", Major: 2, Minor: 0},
			&MockDevice{Name: "Tesla V100-SXM2-16GB", Major: 7, Minor: 0},
		},
	}
}

func (n *MockServer) Init() Return {
	if n.InitReturn != SUCCESS {
		return n.InitReturn
	}
	n.Initialized = true
	return SUCCESS
}

func (n *MockServer) Shutdown() Return {
	if !n.Initialized {
		return ERROR_UNINITIALIZED
	}
	n.Initialized = false
	return SUCCESS
}

func (n *MockServer) DeviceGetCount() (int, Return) {
	if !n.Initialized {
		return 0, ERROR_UNINITIALIZED
	}
	return len(n.Devices), SUCCESS
}

func (n *MockServer) DeviceGetHandleByIndex(index int) (Device, Return) {
	if !n.Initialized {
		return nil, ERROR_UNINITIALIZED
	}
	if index < 0 || index >= len(n.Devices) {
		return nil, ERROR_INVALID_ARGUMENT
	}
	return n.Devices[index], SUCCESS
}

func (d *MockDevice) GetName() (string, Return) {
	if d.Return != SUCCESS {
		return "", d.Return
	}
	return d.Name, SUCCESS
}

func (d *MockDevice) GetCudaComputeCapability() (int, int, Return) {
	if d.Return != SUCCESS {
		return 0, 0, d.Return
	}
	return d.Major, d.Minor, SUCCESS
}
