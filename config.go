package functimer

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "FUNCTIMER_"

// Option keys, shared by the YAML file, the environment and flag bindings.
const (
	KeyPrintTime     = "print_time"
	KeyPrintResponse = "print_response"
	KeyLogNotPrint   = "log_not_print"
	KeyColor         = "color"
)

type Options struct {
	PrintTime     bool `yaml:"print_time"`
	PrintResponse bool `yaml:"print_response"`
	LogNotPrint   bool `yaml:"log_not_print"`
	Color         bool `yaml:"color"`
}

func ReadFile(filepath string) (Options, error) {
	opts, _, err := parseFile(filepath)
	return opts, err
}

// Load resolves options from defaults, configFile (if not empty),
// FUNCTIMER_* variables and whatever flags are bound on v, lowest
// precedence first.
func Load(v *viper.Viper, defaults Options, configFile string) (Options, error) {
	v.SetEnvPrefix(strings.TrimSuffix(EnvPrefix, "_"))
	v.AutomaticEnv()

	var opts Options
	fields := []struct {
		key string
		def bool
		dst *bool
	}{
		{KeyPrintTime, defaults.PrintTime, &opts.PrintTime},
		{KeyPrintResponse, defaults.PrintResponse, &opts.PrintResponse},
		{KeyLogNotPrint, defaults.LogNotPrint, &opts.LogNotPrint},
		{KeyColor, defaults.Color, &opts.Color},
	}

	for _, f := range fields {
		v.SetDefault(f.key, f.def)
	}

	if configFile != "" {
		_, raw, err := parseFile(configFile)
		if err != nil {
			return defaults, err
		}
		if err := v.MergeConfigMap(raw); err != nil {
			return defaults, errors.Wrapf(err, "Merge file %#v", configFile)
		}
	}

	for _, f := range fields {
		// env values arrive as raw strings, so a bad one has to fail here
		// rather than silently read as false
		b, err := cast.ToBoolE(v.Get(f.key))
		if err != nil {
			return defaults, errors.Wrapf(err, "Parse %s%s", EnvPrefix, strings.ToUpper(f.key))
		}
		*f.dst = b
	}

	return opts, nil
}

func parseFile(filepath string) (Options, map[string]interface{}, error) {
	var opts Options
	raw := map[string]interface{}{}

	buf, err := os.ReadFile(filepath)
	if err != nil {
		return opts, nil, errors.Wrapf(err, "Read file %#v", filepath)
	}

	if err := yaml.UnmarshalStrict(buf, &opts); err != nil {
		return opts, nil, errors.Wrapf(err, "Parse file %#v", filepath)
	}
	if err := yaml.Unmarshal(buf, &raw); err != nil {
		return opts, nil, errors.Wrapf(err, "Parse file %#v", filepath)
	}

	return opts, raw, nil
}

// LoadEnvFiles loads dotenv files into the environment without overriding
// variables that are already set. With no paths it loads ./.env if present.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		paths = []string{".env"}
	}

	if err := godotenv.Load(paths...); err != nil {
		return errors.Wrapf(err, "Load env files %#v", paths)
	}
	return nil
}
