package app

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"
	"go.uber.org/multierr"

	"github.com/longhorn/dsm-exporter/types"
)

const (
	FlagConfig = "config"
)

// ExporterFlags returns one flag per exporter setting, bound to the
// setting's environment variable, plus the config file flag.
func ExporterFlags() []cli.Flag {
	flags := []cli.Flag{
		cli.StringFlag{
			Name:   FlagConfig,
			Usage:  "Specify a YAML config file. Flags and environment variables take precedence over it.",
			EnvVar: types.EnvConfigFile,
		},
	}

	for _, name := range types.SettingNameList {
		definition := types.SettingDefinitions[name]
		usage := definition.Description
		if definition.Required {
			usage += " (required)"
		} else if definition.Default != "" {
			usage += fmt.Sprintf(" (default: %v)", definition.Default)
		}

		if definition.Type == types.SettingTypeBool {
			flags = append(flags, cli.BoolFlag{
				Name:   string(name),
				Usage:  usage,
				EnvVar: definition.EnvVar,
			})
			continue
		}
		flags = append(flags, cli.StringFlag{
			Name:   string(name),
			Usage:  usage,
			EnvVar: definition.EnvVar,
		})
	}
	return flags
}

// LoadConfig builds the exporter config from the config file, then the
// flags and environment variables, and validates the result. Every invalid
// setting is reported at once.
func LoadConfig(c *cli.Context) (*types.Config, error) {
	cfg := types.NewDefaultConfig()
	if path := c.String(FlagConfig); path != "" {
		fileCfg, err := types.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	var errs error
	for _, name := range types.SettingNameList {
		if !c.IsSet(string(name)) {
			continue
		}
		value := c.String(string(name))
		if types.SettingDefinitions[name].Type == types.SettingTypeBool {
			value = strconv.FormatBool(c.Bool(string(name)))
		}
		errs = multierr.Append(errs, cfg.SetValue(name, value))
	}
	errs = multierr.Append(errs, cfg.Validate())

	if errs != nil {
		return nil, errs
	}
	return cfg, nil
}
