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

package util

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v2"
	k8syaml "sigs.k8s.io/yaml"

	v1 "github.com/rieder/sapporo2/api/spec/v1"
)

const (
	JSONFormat = "json"
	YAMLFormat = "yaml"
)

func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[0:1]) + s[1:]
}

// CheckOutputFormat ensures 'format' is one of the supported output formats.
func CheckOutputFormat(format string) error {
	switch format {
	case JSONFormat:
	case YAMLFormat:
	default:
		return fmt.Errorf("unrecognized 'output-format': %v", format)
	}
	return nil
}

// ParseConfigFile reads a tuning file and unmarshals it into a 'v1.Spec'.
// A 'configFile' of "-" reads from 'stdin'. An empty 'configFile' yields a
// spec holding only defaults.
func ParseConfigFile(configFile string, stdin io.Reader) (*v1.Spec, error) {
	if configFile == "" {
		return &v1.Spec{Version: v1.Version}, nil
	}

	var err error
	var configYaml []byte

	if configFile == "-" {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			configYaml = append(configYaml, scanner.Bytes()...)
			configYaml = append(configYaml, '\n')
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read error: %v", err)
		}
	} else {
		configYaml, err = os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read error: %v", err)
		}
	}

	var spec v1.Spec
	err = k8syaml.Unmarshal(configYaml, &spec)
	if err != nil {
		return nil, fmt.Errorf("unmarshal error: %v", err)
	}

	return &spec, nil
}

// WriteOutput writes 'obj' to 'w' in the requested format.
func WriteOutput(w io.Writer, obj interface{}, format string) error {
	switch format {
	case YAMLFormat:
		output, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("error marshaling output to YAML: %v", err)
		}
		if _, err := w.Write(output); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case JSONFormat:
		output, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling output to JSON: %v", err)
		}
		output = append(output, '\n')
		if _, err := w.Write(output); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	default:
		return fmt.Errorf("unrecognized output format: %v", format)
	}
	return nil
}
