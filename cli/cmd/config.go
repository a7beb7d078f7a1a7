package cmd

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/twowaysql/twowaysql"
)

// DatabaseConfig names one connection a twowaysql.yaml file can describe.
type DatabaseConfig struct {
	Dialect    string `yaml:"dialect"`
	Connection string `yaml:"connection"`
}

func (dbcfg DatabaseConfig) Open(ctx context.Context, logger logrus.FieldLogger) (*sql.DB, error) {
	logger.WithFields(logrus.Fields{"dialect": dbcfg.Dialect}).Info("opening database connection")
	return twowaysql.Open(dbcfg.Dialect, dbcfg.Connection)
}

// Config is the shape of a twowaysql.yaml file at the root of a
// templates directory: one or more named database connections, each
// bound to a dialect twowaysql.dialect knows how to target.
type Config struct {
	Databases map[string]DatabaseConfig `yaml:"databases"`
	Service   string                    `yaml:"service"`
}

// LoadConfig reads twowaysql.yaml from --directory.
func LoadConfig() (Config, error) {
	var result Config

	configFilename := path.Join(directory, "twowaysql.yaml")
	if _, err := os.Stat(configFilename); os.IsNotExist(err) {
		return Config{}, errors.New("no twowaysql.yaml found in " + directory)
	}

	yamlFile, err := os.ReadFile(configFilename)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(yamlFile, &result); err != nil {
		return Config{}, err
	}
	return result, nil
}
