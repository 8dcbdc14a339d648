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
	"encoding/json"
	"fmt"
)

// Version indicates the version of the 'Spec' struct used to hold tuning information.
const Version = "v1"

// Spec is a versioned struct used to hold the tuning parameters of a run.
type Spec struct {
	Version string      `json:"version"          yaml:"version"`
	Tuning  *TuningSpec `json:"tuning,omitempty" yaml:"tuning,omitempty"`
}

// TuningSpec declares the neighbour-list capacities, launch geometry and
// optional occupancy override. Absent fields take their default values.
type TuningSpec struct {
	NgbPP          *int `json:"ngb-pp,omitempty"           yaml:"ngb-pp,omitempty"`
	NgbPB          *int `json:"ngb-pb,omitempty"           yaml:"ngb-pb,omitempty"`
	NPipes         *int `json:"npipes,omitempty"           yaml:"npipes,omitempty"`
	NThreads       *int `json:"nthreads,omitempty"         yaml:"nthreads,omitempty"`
	BlocksPerMulti *int `json:"blocks-per-multi,omitempty" yaml:"blocks-per-multi,omitempty"`
}

// UnmarshalJSON unmarshals raw bytes into a versioned 'Spec'.
func (s *Spec) UnmarshalJSON(b []byte) error {
	spec := make(map[string]json.RawMessage)
	err := json.Unmarshal(b, &spec)
	if err != nil {
		return err
	}

	if !containsKey(spec, "version") && len(spec) > 0 {
		return fmt.Errorf("unable to parse with missing 'version' field")
	}

	result := Spec{}
	if v, exists := spec["version"]; exists {
		var version string
		err := json.Unmarshal(v, &version)
		if err != nil {
			return err
		}
		result.Version = version
	}

	if result.Version != Version {
		return fmt.Errorf("unknown version: %v", result.Version)
	}

	delete(spec, "version")
	for k, v := range spec {
		switch k {
		case "tuning":
			tuning := TuningSpec{}
			err := json.Unmarshal(v, &tuning)
			if err != nil {
				return fmt.Errorf("error parsing '%v': %v", k, err)
			}
			result.Tuning = &tuning
		default:
			return fmt.Errorf("unexpected field: %v", k)
		}
	}

	*s = result
	return nil
}

// UnmarshalJSON unmarshals raw bytes into a 'TuningSpec'.
func (t *TuningSpec) UnmarshalJSON(b []byte) error {
	spec := make(map[string]json.RawMessage)
	err := json.Unmarshal(b, &spec)
	if err != nil {
		return err
	}

	result := TuningSpec{}
	for k, v := range spec {
		var field **int
		switch k {
		case "ngb-pp":
			field = &result.NgbPP
		case "ngb-pb":
			field = &result.NgbPB
		case "npipes":
			field = &result.NPipes
		case "nthreads":
			field = &result.NThreads
		case "blocks-per-multi":
			field = &result.BlocksPerMulti
		default:
			return fmt.Errorf("unexpected field: %v", k)
		}

		var value int
		err := json.Unmarshal(v, &value)
		if err != nil {
			return fmt.Errorf("invalid value for '%v': %v", k, err)
		}
		if value <= 0 {
			return fmt.Errorf("value for '%v' must be positive: %v", k, value)
		}
		*field = &value
	}

	*t = result
	return nil
}

func containsKey(m map[string]json.RawMessage, s string) bool {
	_, exists := m[s]
	return exists
}
