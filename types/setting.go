package types

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

type SettingType string

const (
	SettingTypeString = SettingType("string")
	SettingTypeInt    = SettingType("int")
	SettingTypeBool   = SettingType("bool")
)

type SettingName string

const (
	SettingNameHost           = SettingName("host")
	SettingNamePort           = SettingName("port")
	SettingNameUsername       = SettingName("username")
	SettingNamePassword       = SettingName("password")
	SettingNameUseTLS         = SettingName("https")
	SettingNameVerifyTLS      = SettingName("verify-ssl")
	SettingNamePollInterval   = SettingName("frequency")
	SettingNameRequestTimeout = SettingName("request-timeout")
	SettingNameListenAddress  = SettingName("listen")
)

var (
	SettingNameList = []SettingName{
		SettingNameHost,
		SettingNamePort,
		SettingNameUsername,
		SettingNamePassword,
		SettingNameUseTLS,
		SettingNameVerifyTLS,
		SettingNamePollInterval,
		SettingNameRequestTimeout,
		SettingNameListenAddress,
	}
)

type SettingDefinition struct {
	DisplayName string      `json:"displayName"`
	Description string      `json:"description"`
	EnvVar      string      `json:"envVar"`
	Type        SettingType `json:"type"`
	Required    bool        `json:"required"`
	Default     string      `json:"default"`
}

var (
	SettingDefinitions = map[SettingName]SettingDefinition{
		SettingNameHost:           SettingDefinitionHost,
		SettingNamePort:           SettingDefinitionPort,
		SettingNameUsername:       SettingDefinitionUsername,
		SettingNamePassword:       SettingDefinitionPassword,
		SettingNameUseTLS:         SettingDefinitionUseTLS,
		SettingNameVerifyTLS:      SettingDefinitionVerifyTLS,
		SettingNamePollInterval:   SettingDefinitionPollInterval,
		SettingNameRequestTimeout: SettingDefinitionRequestTimeout,
		SettingNameListenAddress:  SettingDefinitionListenAddress,
	}

	SettingDefinitionHost = SettingDefinition{
		DisplayName: "DiskStation Address",
		Description: "Host name or IP address of the DiskStation. A http:// or https:// prefix overrides the https setting.",
		EnvVar:      EnvHost,
		Type:        SettingTypeString,
		Required:    true,
	}

	SettingDefinitionPort = SettingDefinition{
		DisplayName: "DiskStation Port",
		Description: "Port of the DSM web interface, usually 5000 for HTTP and 5001 for HTTPS",
		EnvVar:      EnvPort,
		Type:        SettingTypeInt,
		Required:    true,
	}

	SettingDefinitionUsername = SettingDefinition{
		DisplayName: "Username",
		Description: "DSM account used to log in to the Web API",
		EnvVar:      EnvUsername,
		Type:        SettingTypeString,
		Required:    true,
	}

	SettingDefinitionPassword = SettingDefinition{
		DisplayName: "Password",
		Description: "Password of the DSM account",
		EnvVar:      EnvPassword,
		Type:        SettingTypeString,
		Required:    true,
	}

	SettingDefinitionUseTLS = SettingDefinition{
		DisplayName: "Use HTTPS",
		Description: "Connect to the DiskStation over HTTPS instead of HTTP",
		EnvVar:      EnvUseTLS,
		Type:        SettingTypeBool,
		Required:    false,
		Default:     "false",
	}

	SettingDefinitionVerifyTLS = SettingDefinition{
		DisplayName: "Verify TLS Certificate",
		Description: "Validate the certificate presented by the DiskStation. Most DiskStations use a self-signed certificate.",
		EnvVar:      EnvVerifyTLS,
		Type:        SettingTypeBool,
		Required:    false,
		Default:     "false",
	}

	SettingDefinitionPollInterval = SettingDefinition{
		DisplayName: "Poll Interval",
		Description: "In seconds. The period between two polls of the DiskStation. The minimum is 1.",
		EnvVar:      EnvPollInterval,
		Type:        SettingTypeInt,
		Required:    false,
		Default:     strconv.Itoa(DefaultPollInterval),
	}

	SettingDefinitionRequestTimeout = SettingDefinition{
		DisplayName: "Request Timeout",
		Description: "In seconds. The timeout of a single request to the DSM Web API.",
		EnvVar:      EnvRequestTimeout,
		Type:        SettingTypeInt,
		Required:    false,
		Default:     strconv.Itoa(DefaultRequestTimeout),
	}

	SettingDefinitionListenAddress = SettingDefinition{
		DisplayName: "Listen Address",
		Description: "Address the metrics endpoint listens on",
		EnvVar:      EnvListenAddress,
		Type:        SettingTypeString,
		Required:    false,
		Default:     DefaultListenAddress,
	}
)

// ConfigurationError reports a missing or invalid setting.
type ConfigurationError struct {
	Setting SettingName
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if def, ok := SettingDefinitions[e.Setting]; ok && def.EnvVar != "" {
		return fmt.Sprintf("invalid setting %v (%v): %v", e.Setting, def.EnvVar, e.Reason)
	}
	return fmt.Sprintf("invalid setting %v: %v", e.Setting, e.Reason)
}

func IsConfigurationError(err error) bool {
	for _, e := range multierr.Errors(err) {
		if _, ok := errors.Cause(e).(*ConfigurationError); !ok {
			return false
		}
	}
	return err != nil
}

type Config struct {
	Host           string `yaml:"host"`
	Port           string `yaml:"port"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	UseTLS         bool   `yaml:"https"`
	VerifyTLS      bool   `yaml:"verify_ssl"`
	PollInterval   int    `yaml:"frequency"`
	RequestTimeout int    `yaml:"request_timeout"`
	ListenAddress  string `yaml:"listen"`
}

func NewDefaultConfig() *Config {
	return &Config{
		PollInterval:   DefaultPollInterval,
		RequestTimeout: DefaultRequestTimeout,
		ListenAddress:  DefaultListenAddress,
	}
}

// LoadConfigFile reads a YAML config file on top of the default config.
func LoadConfigFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %v", path)
	}

	cfg := NewDefaultConfig()
	if err := yaml.UnmarshalStrict(content, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %v", path)
	}
	return cfg, nil
}

func (c *Config) GetValue(name SettingName) string {
	switch name {
	case SettingNameHost:
		return c.Host
	case SettingNamePort:
		return c.Port
	case SettingNameUsername:
		return c.Username
	case SettingNamePassword:
		return c.Password
	case SettingNameUseTLS:
		return strconv.FormatBool(c.UseTLS)
	case SettingNameVerifyTLS:
		return strconv.FormatBool(c.VerifyTLS)
	case SettingNamePollInterval:
		return strconv.Itoa(c.PollInterval)
	case SettingNameRequestTimeout:
		return strconv.Itoa(c.RequestTimeout)
	case SettingNameListenAddress:
		return c.ListenAddress
	}
	return ""
}

// SetValue parses value into the setting name. A value that does not parse
// is returned as a ConfigurationError and leaves the config unchanged.
func (c *Config) SetValue(name SettingName, value string) error {
	definition, ok := SettingDefinitions[name]
	if !ok {
		return &ConfigurationError{Setting: name, Reason: "unknown setting"}
	}
	if name != SettingNamePassword {
		value = strings.TrimSpace(value)
	}

	switch definition.Type {
	case SettingTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ConfigurationError{Setting: name, Reason: fmt.Sprintf("%q is not a boolean", value)}
		}
		switch name {
		case SettingNameUseTLS:
			c.UseTLS = b
		case SettingNameVerifyTLS:
			c.VerifyTLS = b
		}
		return nil
	case SettingTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return &ConfigurationError{Setting: name, Reason: fmt.Sprintf("%q is not an integer", value)}
		}
		switch name {
		case SettingNamePort:
			c.Port = value
		case SettingNamePollInterval:
			c.PollInterval = i
		case SettingNameRequestTimeout:
			c.RequestTimeout = i
		}
		return nil
	}

	switch name {
	case SettingNameHost:
		c.Host = value
	case SettingNameUsername:
		c.Username = value
	case SettingNamePassword:
		c.Password = value
	case SettingNameListenAddress:
		c.ListenAddress = value
	}
	return nil
}

// Validate returns every problem of the config at once, each one as a
// ConfigurationError.
func (c *Config) Validate() error {
	var err error

	for _, name := range SettingNameList {
		definition := SettingDefinitions[name]
		if definition.Required && strings.TrimSpace(c.GetValue(name)) == "" {
			err = multierr.Append(err, &ConfigurationError{Setting: name, Reason: "required value is missing"})
		}
	}

	if c.Port != "" {
		if _, portErr := c.PortNumber(); portErr != nil {
			err = multierr.Append(err, &ConfigurationError{Setting: SettingNamePort, Reason: portErr.Error()})
		}
	}
	if c.PollInterval < MinimalPollInterval {
		err = multierr.Append(err, &ConfigurationError{
			Setting: SettingNamePollInterval,
			Reason:  fmt.Sprintf("%v is less than the minimum of %v second", c.PollInterval, MinimalPollInterval),
		})
	}
	if c.RequestTimeout <= 0 {
		err = multierr.Append(err, &ConfigurationError{
			Setting: SettingNameRequestTimeout,
			Reason:  fmt.Sprintf("%v is not a positive number of seconds", c.RequestTimeout),
		})
	}
	if strings.TrimSpace(c.ListenAddress) == "" {
		err = multierr.Append(err, &ConfigurationError{Setting: SettingNameListenAddress, Reason: "listen address is empty"})
	}

	return err
}

func (c *Config) PortNumber() (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil {
		return 0, fmt.Errorf("port %q is not a number", c.Port)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %v is out of range 1-65535", port)
	}
	return port, nil
}
