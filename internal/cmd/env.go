package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/gravitrone/paramedit/internal/config"
	"github.com/gravitrone/paramedit/internal/logging"
	"github.com/gravitrone/paramedit/internal/record"
	"github.com/gravitrone/paramedit/internal/schema"
)

// env is the config and logger shared by every command.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	close  func()
}

func loadEnv() (*env, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, closeFn, err := logging.New(config.Dir(), cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &env{cfg: cfg, logger: logger, close: closeFn}, nil
}

// resolveProperty finds name in the schema file, or treats it as a plain
// scalar array when no schema is given.
func resolveProperty(schemaPath, component, name string) (record.Property, error) {
	if schemaPath == "" {
		return record.Property{Name: name, IsArray: true}, nil
	}
	res, err := schema.Load(schemaPath, component)
	if err != nil {
		return record.Property{}, fmt.Errorf("load schema: %w", err)
	}
	prop, ok := res.Property(name)
	if !ok {
		return record.Property{}, fmt.Errorf("property %q not in schema %s", name, res.Name)
	}
	if !prop.IsArray {
		return record.Property{}, fmt.Errorf("property %q is not an array", name)
	}
	return prop, nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
