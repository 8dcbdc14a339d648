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

package export

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	v1 "github.com/rieder/sapporo2/api/spec/v1"
	"github.com/rieder/sapporo2/cmd/sapporo2-tune/util"
)

var log = logrus.New()

func GetLogger() *logrus.Logger {
	return log
}

type Flags struct {
	ConfigFile   string
	OutputFormat string
}

type Context struct {
	Flags  *Flags
	Stdin  io.Reader
	Stdout io.Writer
}

func BuildCommand() *cli.Command {
	// Create a flags struct to hold our flags
	exportFlags := Flags{}

	// Create the 'export' command
	export := cli.Command{}
	export.Name = "export"
	export.Usage = "Export the effective tuning configuration, with defaults filled in"
	export.Action = func(c *cli.Context) error {
		return exportWrapper(c, &exportFlags)
	}

	// Setup the flags for this command
	export.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config-file",
			Aliases:     []string{"f"},
			Usage:       "Path to the tuning file ('-' for stdin)",
			Destination: &exportFlags.ConfigFile,
			EnvVars:     []string{"SAPPORO2_CONFIG_FILE"},
		},
		&cli.StringFlag{
			Name:        "output-format",
			Aliases:     []string{"o"},
			Usage:       "Format for the output [json | yaml]",
			Destination: &exportFlags.OutputFormat,
			Value:       util.YAMLFormat,
			EnvVars:     []string{"SAPPORO2_OUTPUT_FORMAT"},
		},
	}

	return &export
}

func exportWrapper(c *cli.Context, f *Flags) error {
	err := util.CheckOutputFormat(f.OutputFormat)
	if err != nil {
		_ = cli.ShowSubcommandHelp(c)
		return err
	}

	context := Context{
		Flags:  f,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}

	spec, err := ExportTuning(&context)
	if err != nil {
		return err
	}

	return util.WriteOutput(context.Stdout, spec, f.OutputFormat)
}

// ExportTuning returns the tuning file with every field populated.
func ExportTuning(c *Context) (*v1.Spec, error) {
	log.Debugf("Parsing config file...")
	spec, err := util.ParseConfigFile(c.Flags.ConfigFile, c.Stdin)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	config, err := spec.LaunchConfig()
	if err != nil {
		return nil, fmt.Errorf("error building launch config: %v", err)
	}

	return v1.NewSpec(config), nil
}
