package controller

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/francis-chui/rbush-knn/controller/server"
	"github.com/francis-chui/rbush-knn/metric"
	"github.com/tidwall/resp"
)

const (
	defaultMetric = "haversine"
	defaultLimit  = 20
)

var configProperties = []string{"default-metric", "default-limit"}

// Config is the server config
type Config struct {
	ServerID string `json:"server_id,omitempty"`

	// Properties
	DefaultMetricP string `json:"default-metric,omitempty"`
	DefaultMetric  string `json:"-"`
	DefaultLimitP  int    `json:"default-limit,omitempty"`
	DefaultLimit   int    `json:"-"`
}

func (c *Controller) configPath() string {
	return filepath.Join(c.dir, "config")
}

// loadConfig reads the config file. Properties missing from the file take
// the values of defaults.
func (c *Controller) loadConfig(defaults Config) error {
	data, err := os.ReadFile(c.configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return c.initConfig(defaults)
		}
		return err
	}
	if err := json.Unmarshal(data, &c.config); err != nil {
		return err
	}
	return c.applyDefaults(defaults, true)
}

func (c *Controller) applyDefaults(defaults Config, fromLoad bool) error {
	metricName := c.config.DefaultMetricP
	if metricName == "" {
		metricName = defaults.DefaultMetric
	}
	if err := c.setConfigProperty("default-metric", metricName, fromLoad); err != nil {
		return err
	}
	limit := c.config.DefaultLimitP
	if limit == 0 {
		limit = defaults.DefaultLimit
	}
	var slimit string
	if limit != 0 {
		slimit = strconv.Itoa(limit)
	}
	return c.setConfigProperty("default-limit", slimit, fromLoad)
}

func (c *Controller) initConfig(defaults Config) error {
	c.config = Config{ServerID: randomKey(16)}
	if err := c.applyDefaults(defaults, true); err != nil {
		return err
	}
	if c.dir == "" {
		return nil
	}
	return c.writeConfig(true)
}

func (c *Controller) setConfigProperty(name, value string, fromLoad bool) error {
	var invalid bool
	switch name {
	default:
		return fmt.Errorf("Unsupported CONFIG parameter: %s", name)
	case "default-metric":
		if value == "" {
			if !fromLoad {
				invalid = true
				break
			}
			value = defaultMetric
		}
		if _, err := metric.Lookup(value); err != nil {
			invalid = true
			break
		}
		c.config.DefaultMetric = strings.ToLower(value)
	case "default-limit":
		if value == "" {
			if !fromLoad {
				invalid = true
				break
			}
			value = strconv.Itoa(defaultLimit)
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			invalid = true
			break
		}
		c.config.DefaultLimit = n
	}
	if invalid {
		return fmt.Errorf("Invalid argument '%s' for CONFIG SET '%s'", value, name)
	}
	return nil
}

func (c *Controller) getConfigProperty(name string) (string, bool) {
	switch name {
	default:
		return "", false
	case "default-metric":
		return c.config.DefaultMetric, true
	case "default-limit":
		return strconv.Itoa(c.config.DefaultLimit), true
	}
}

func (c *Controller) writeConfig(writeProperties bool) error {
	var err error
	bak := c.config
	defer func() {
		if err != nil {
			// revert changes
			c.config = bak
		}
	}()
	if writeProperties {
		// save properties
		c.config.DefaultMetricP = c.config.DefaultMetric
		c.config.DefaultLimitP = c.config.DefaultLimit
	}
	var data []byte
	data, err = json.MarshalIndent(c.config, "", "\t")
	if err != nil {
		return err
	}
	err = os.WriteFile(c.configPath(), data, 0600)
	return err
}

func (c *Controller) cmdConfigGet(vs []resp.Value) (resp.Value, error) {
	var name string
	var ok bool
	if vs, name, ok = tokenval(vs); !ok || name == "" || len(vs) != 0 {
		return resp.Value{}, errInvalidNumberOfArguments
	}
	var vals []resp.Value
	for _, prop := range configProperties {
		if name != "*" && !lc(name, prop) {
			continue
		}
		value, _ := c.getConfigProperty(prop)
		vals = append(vals, resp.StringValue(prop), resp.StringValue(value))
	}
	return resp.ArrayValue(vals), nil
}

func (c *Controller) cmdConfigSet(vs []resp.Value) (resp.Value, error) {
	var name, value string
	var ok bool
	if vs, name, ok = tokenval(vs); !ok || name == "" {
		return resp.Value{}, errInvalidNumberOfArguments
	}
	if vs, value, ok = tokenval(vs); !ok || len(vs) != 0 {
		return resp.Value{}, errInvalidNumberOfArguments
	}
	if err := c.setConfigProperty(strings.ToLower(name), value, false); err != nil {
		return resp.Value{}, err
	}
	return server.OKMessage(), nil
}

func (c *Controller) cmdConfigRewrite(vs []resp.Value) (resp.Value, error) {
	if len(vs) != 0 {
		return resp.Value{}, errInvalidNumberOfArguments
	}
	if c.dir == "" {
		return resp.Value{}, errNoDataDir
	}
	if err := c.writeConfig(true); err != nil {
		return resp.Value{}, err
	}
	return server.OKMessage(), nil
}
