// Package config loads the settings of a training session.
//
// Settings come from a dotenv style file (KEY=value), then NEURALNET_<KEY>
// environment variables, then command line overrides.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/tom-ludwig/neuralnet/internal/activations"
	"github.com/tom-ludwig/neuralnet/internal/loss"
	"github.com/tom-ludwig/neuralnet/internal/net"
	"github.com/tom-ludwig/neuralnet/internal/opt"
)

// EnvPrefix prefixes environment overrides, e.g. NEURALNET_ETA.
const EnvPrefix = "NEURALNET_"

// Config captures the runtime knobs for a training session.
type Config struct {
	DataPath    string
	Topology    []int // empty means the header of the data file
	Epochs      int
	Eta         float64
	Alpha       float64
	Seed        int64
	ReportEvery int // epochs between progress reports
	Smoothing   float64
	Transfer    string
	CSVLog      string
	Patience    int // epochs without improvement before stopping; 0 disables
}

// Overrides captures CLI supplied values. Zero values are ignored, except for
// the hyperparameters: a non-nil Eta or Alpha is applied even when it is zero.
type Overrides struct {
	DataPath    string
	Topology    string
	Epochs      int
	Eta         *float64
	Alpha       *float64
	Seed        int64
	ReportEvery int
	Transfer    string
	CSVLog      string
	Patience    int
}

// Default returns the stock session settings.
func Default() *Config {
	return &Config{
		Epochs:      1000,
		Eta:         opt.DefaultEta,
		Alpha:       opt.DefaultAlpha,
		ReportEvery: 100,
		Smoothing:   loss.DefaultSmoothingFactor,
		Transfer:    "tanh",
	}
}

// Load reads path (if not empty) and the environment on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := cfg.apply(values, false); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if err := cfg.apply(environ(), true); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	return cfg, nil
}

// environ returns the NEURALNET_* variables with the prefix removed.
func environ() map[string]string {
	values := map[string]string{}
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		key, value, _ := strings.Cut(strings.TrimPrefix(kv, EnvPrefix), "=")
		values[key] = value
	}
	return values
}

func (c *Config) apply(values map[string]string, ignoreUnknown bool) error {
	for key, value := range values {
		value = strings.TrimSpace(value)
		var err error
		switch strings.ToUpper(key) {
		case "DATA_PATH":
			c.DataPath = value
		case "TOPOLOGY":
			c.Topology, err = ParseTopology(value)
		case "EPOCHS":
			c.Epochs, err = strconv.Atoi(value)
		case "ETA":
			c.Eta, err = strconv.ParseFloat(value, 64)
		case "ALPHA":
			c.Alpha, err = strconv.ParseFloat(value, 64)
		case "SEED":
			c.Seed, err = strconv.ParseInt(value, 10, 64)
		case "REPORT_EVERY":
			c.ReportEvery, err = strconv.Atoi(value)
		case "SMOOTHING":
			c.Smoothing, err = strconv.ParseFloat(value, 64)
		case "TRANSFER":
			c.Transfer = value
		case "CSV_LOG":
			c.CSVLog = value
		case "PATIENCE":
			c.Patience, err = strconv.Atoi(value)
		default:
			if !ignoreUnknown {
				return errors.Errorf("unknown key %s", key)
			}
		}
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
	}
	return nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) error {
	if o.DataPath != "" {
		c.DataPath = o.DataPath
	}
	if o.Topology != "" {
		topology, err := ParseTopology(o.Topology)
		if err != nil {
			return errors.Wrap(err, "topology")
		}
		c.Topology = topology
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.Eta != nil {
		c.Eta = *o.Eta
	}
	if o.Alpha != nil {
		c.Alpha = *o.Alpha
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.ReportEvery > 0 {
		c.ReportEvery = o.ReportEvery
	}
	if o.Transfer != "" {
		c.Transfer = o.Transfer
	}
	if o.CSVLog != "" {
		c.CSVLog = o.CSVLog
	}
	if o.Patience > 0 {
		c.Patience = o.Patience
	}
	return nil
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.DataPath == "" {
		return errors.New("data path must be set")
	}
	if len(c.Topology) > 0 {
		if err := net.ValidateTopology(c.Topology); err != nil {
			return err
		}
	}
	if c.Epochs <= 0 {
		return errors.Errorf("epochs must be > 0 (got %d)", c.Epochs)
	}
	if err := c.Momentum().Validate(); err != nil {
		return err
	}
	if !(c.Smoothing > 0) {
		return errors.Errorf("smoothing must be > 0 (got %v)", c.Smoothing)
	}
	if _, err := activations.Parse(c.Transfer); err != nil {
		return err
	}
	if c.Patience < 0 {
		return errors.Errorf("patience must be >= 0 (got %d)", c.Patience)
	}
	if c.ReportEvery <= 0 {
		c.ReportEvery = 100
	}
	return nil
}

// Momentum returns the weight update hyperparameters.
func (c *Config) Momentum() opt.Momentum {
	return opt.NewMomentum(c.Eta, c.Alpha)
}

// ParseTopology parses layer sizes separated by spaces or commas, e.g. "2 4 1".
func ParseTopology(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, nil
	}
	topology := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i+1)
		}
		topology[i] = n
	}
	if err := net.ValidateTopology(topology); err != nil {
		return nil, err
	}
	return topology, nil
}
