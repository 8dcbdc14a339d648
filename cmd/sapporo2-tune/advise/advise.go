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
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	"github.com/rieder/sapporo2/cmd/sapporo2-tune/util"
	"github.com/rieder/sapporo2/internal/nvml"
	"github.com/rieder/sapporo2/pkg/launch"
	"github.com/rieder/sapporo2/pkg/types"
)

var log = logrus.New()

// GetLogger returns the 'logrus.Logger' instance used by this package.
func GetLogger() *logrus.Logger {
	return log
}

// Flags holds variables that represent the set of flags that can be passed to the 'advise' subcommand.
type Flags struct {
	Arch              string
	DeviceName        string
	DeviceIndex       int
	DeviceIndexSet    bool
	ConfigFile        string
	BlocksPerMulti    int
	BlocksPerMultiSet bool
	OutputFormat      string
}

// Context holds the state we want to pass around between functions associated with the 'advise' subcommand.
type Context struct {
	Flags  *Flags
	Nvml   nvml.Interface
	Stdin  io.Reader
	Stdout io.Writer
}

// BuildCommand builds the 'advise' subcommand for injection into the main CLI.
func BuildCommand() *cli.Command {
	// Create a flags struct to hold our flags
	adviseFlags := Flags{}

	// Create the 'advise' command
	advise := cli.Command{}
	advise.Name = "advise"
	advise.Usage = "Print the kernel launch tuning (including blocks per multiprocessor) for a GPU"
	advise.Action = func(c *cli.Context) error {
		adviseFlags.DeviceIndexSet = c.IsSet("device-index")
		adviseFlags.BlocksPerMultiSet = c.IsSet("blocks-per-multi")
		return adviseWrapper(c, &adviseFlags)
	}

	// Setup the flags for this command
	advise.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "arch",
			Aliases:     []string{"a"},
			Usage:       "Compute capability of the GPU as '<major>.<minor>' (use -1 for non-NVIDIA devices)",
			Destination: &adviseFlags.Arch,
			EnvVars:     []string{"SAPPORO2_ARCH"},
		},
		&cli.StringFlag{
			Name:        "device-name",
			Aliases:     []string{"n"},
			Usage:       "Name of the GPU as reported by the platform",
			Destination: &adviseFlags.DeviceName,
			EnvVars:     []string{"SAPPORO2_DEVICE_NAME"},
		},
		&cli.IntFlag{
			Name:        "device-index",
			Aliases:     []string{"i"},
			Usage:       "Query the name and compute capability of this GPU through NVML instead of passing them in",
			Destination: &adviseFlags.DeviceIndex,
			EnvVars:     []string{"SAPPORO2_DEVICE_INDEX"},
		},
		&cli.StringFlag{
			Name:        "config-file",
			Aliases:     []string{"f"},
			Usage:       "Path to the tuning file ('-' for stdin)",
			Destination: &adviseFlags.ConfigFile,
			EnvVars:     []string{"SAPPORO2_CONFIG_FILE"},
		},
		&cli.IntFlag{
			Name:        "blocks-per-multi",
			Aliases:     []string{"b"},
			Usage:       "Fixed number of blocks per multiprocessor, replacing the per-architecture table",
			Destination: &adviseFlags.BlocksPerMulti,
			EnvVars:     []string{"SAPPORO2_BLOCKS_PER_MULTI"},
		},
		&cli.StringFlag{
			Name:        "output-format",
			Aliases:     []string{"o"},
			Usage:       "Format for the output [json | yaml]",
			Destination: &adviseFlags.OutputFormat,
			Value:       util.YAMLFormat,
			EnvVars:     []string{"SAPPORO2_OUTPUT_FORMAT"},
		},
	}

	return &advise
}

// CheckFlags ensures that any required flags are provided and ensures they are well-formed.
func CheckFlags(f *Flags) error {
	if err := util.CheckOutputFormat(f.OutputFormat); err != nil {
		return err
	}
	if f.DeviceIndexSet && (f.Arch != "" || f.DeviceName != "") {
		return fmt.Errorf("'device-index' cannot be combined with 'arch' or 'device-name'")
	}
	if !f.DeviceIndexSet && f.Arch == "" {
		return fmt.Errorf("missing required flags 'arch' or 'device-index'")
	}
	return nil
}

func adviseWrapper(c *cli.Context, f *Flags) error {
	err := CheckFlags(f)
	if err != nil {
		_ = cli.ShowSubcommandHelp(c)
		return err
	}

	context := Context{
		Flags:  f,
		Nvml:   nvml.New(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}

	return Advise(&context)
}

// Advise builds the launch plan for the selected device and writes it out.
func Advise(c *Context) error {
	log.Debugf("Parsing config file...")
	spec, err := util.ParseConfigFile(c.Flags.ConfigFile, c.Stdin)
	if err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}

	var opts []launch.Option
	if c.Flags.BlocksPerMultiSet {
		opts = append(opts, launch.WithBlocksPerMultiprocessor(c.Flags.BlocksPerMulti))
	}

	config, err := spec.LaunchConfig(opts...)
	if err != nil {
		return fmt.Errorf("error building launch config: %v", err)
	}

	log.Debugf("Resolving device...")
	device, err := GetDevice(c)
	if err != nil {
		return err
	}
	log.Debugf("  Device: %v (arch %v)", device.Name, device.Architecture)

	plan, err := config.Plan(device)
	if err != nil {
		return fmt.Errorf("error building launch plan: %v", err)
	}
	if plan.Override {
		log.Debugf("Using fixed blocks per multiprocessor: %v", plan.BlocksPerMultiprocessor)
	}

	return util.WriteOutput(c.Stdout, plan, c.Flags.OutputFormat)
}

// GetDevice returns the device described by the flags, querying NVML if a device index was given.
func GetDevice(c *Context) (types.Device, error) {
	if c.Flags.DeviceIndexSet {
		device, err := nvml.QueryDevice(c.Nvml, c.Flags.DeviceIndex)
		if err != nil {
			return types.Device{}, fmt.Errorf("error querying device %d: %v", c.Flags.DeviceIndex, err)
		}
		return device, nil
	}

	arch, err := types.ParseArchitecture(c.Flags.Arch)
	if err != nil {
		return types.Device{}, fmt.Errorf("error parsing 'arch': %v", err)
	}

	return types.Device{
		Architecture: arch,
		Name:         c.Flags.DeviceName,
	}, nil
}
