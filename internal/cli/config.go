package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mark3labs/msgdoc/internal/document"
	"github.com/mark3labs/msgdoc/internal/logger"
	"github.com/mark3labs/msgdoc/internal/transform"
)

// EnvPrefix prefixes environment overrides, e.g. MSGDOC_CATALOG.
const EnvPrefix = "MSGDOC"

// GenerateConfig captures all inputs that influence generate, inspect and
// serve after merging defaults, config file values, environment variables
// and CLI overrides, in that order.
type GenerateConfig struct {
	Catalog           string
	Document          string
	Out               string
	Format            string
	Legacy            bool
	ClientNamespace   string
	ExcludeNamespaces []string
	VendorPrefix      string
	Validate          bool
	Addr              string
	ConfigPath        string
	Verbose           bool
	LogJSON           bool

	// Stdout receives documents written without --out and command reports.
	Stdout io.Writer
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Addr: ":8080"}
}

// configKeys are the accepted config file keys, in flag spelling. Env
// variables use the same names upper-cased with "-" replaced by "_".
var configKeys = []string{
	"catalog",
	"document",
	"out",
	"format",
	"legacy",
	"client-namespace",
	"exclude-namespaces",
	"vendor-prefix",
	"validate",
	"addr",
	"verbose",
	"log-json",
}

func addDocumentFlags(flags *pflag.FlagSet) {
	flags.String("catalog", "", "Path to the message catalog (YAML or JSON)")
	flags.String("document", "", "Path or URL to a raw OpenAPI/Swagger document; generated from the catalog when omitted")
	flags.Bool("legacy", false, "Produce Swagger 2.0 compatible output (no composition or unions)")
	flags.String("client-namespace", "", "Namespace marker of client-visible types (default "+transform.DefaultClientNamespace+")")
	flags.StringSlice("exclude-namespaces", nil, "Namespaces whose schemas are removed (default "+transform.DefaultExcludedNamespace+")")
	flags.String("vendor-prefix", "", "Vendor extension prefix (default "+transform.DefaultVendorPrefix+")")
	flags.Bool("validate", false, "Validate the transformed document and log problems")
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()
	cfg.Stdout = cmd.OutOrStdout()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateEnv(&cfg); err != nil {
		return nil, err
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Configure(cfg.Verbose, cfg.LogJSON)
	return &cfg, nil
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	for _, key := range v.AllKeys() {
		if err := setConfigValue(cfg, key, v.Get(key)); err != nil {
			if errors.Is(err, errUnknownKey) {
				return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
			}
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}
	return nil
}

func applyGenerateEnv(cfg *GenerateConfig) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
		if !v.IsSet(key) {
			continue
		}
		if err := setConfigValue(cfg, key, v.GetString(key)); err != nil {
			name := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
			return newUsageError(fmt.Sprintf("environment %s: %v", name, err))
		}
	}
	return nil
}

var errUnknownKey = errors.New("unknown field")

func setConfigValue(cfg *GenerateConfig, key string, value any) error {
	var err error
	switch normalizeKey(key) {
	case "catalog":
		cfg.Catalog, err = valueAsString(value)
	case "document":
		cfg.Document, err = valueAsString(value)
	case "out":
		cfg.Out, err = valueAsString(value)
	case "format":
		cfg.Format, err = valueAsString(value)
	case "legacy":
		cfg.Legacy, err = valueAsBool(value)
	case "clientnamespace":
		cfg.ClientNamespace, err = valueAsString(value)
	case "excludenamespaces":
		cfg.ExcludeNamespaces, err = valueAsStringSlice(value)
	case "vendorprefix":
		cfg.VendorPrefix, err = valueAsString(value)
	case "validate":
		cfg.Validate, err = valueAsBool(value)
	case "addr":
		cfg.Addr, err = valueAsString(value)
	case "verbose":
		cfg.Verbose, err = valueAsBool(value)
	case "logjson":
		cfg.LogJSON, err = valueAsBool(value)
	default:
		return errUnknownKey
	}
	return err
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	for _, name := range []string{"catalog", "document", "out", "format", "client-namespace", "vendor-prefix", "addr"} {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		if err := setConfigValue(cfg, name, value); err != nil {
			return err
		}
	}
	for _, name := range []string{"legacy", "validate", "verbose", "log-json"} {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		if err := setConfigValue(cfg, name, value); err != nil {
			return err
		}
	}
	if flags.Lookup("exclude-namespaces") != nil && flags.Changed("exclude-namespaces") {
		value, err := flags.GetStringSlice("exclude-namespaces")
		if err != nil {
			return err
		}
		cfg.ExcludeNamespaces = value
	}
	return nil
}

func (c *GenerateConfig) normalize() {
	c.Catalog = strings.TrimSpace(c.Catalog)
	c.Document = strings.TrimSpace(c.Document)
	c.Out = strings.TrimSpace(c.Out)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.ClientNamespace = strings.TrimSpace(c.ClientNamespace)
	c.VendorPrefix = strings.TrimSpace(c.VendorPrefix)
	c.Addr = strings.TrimSpace(c.Addr)
	c.ExcludeNamespaces = sanitizeList(c.ExcludeNamespaces)
}

func (c *GenerateConfig) validate() error {
	if c.Catalog == "" {
		return newUsageError("--catalog is required (set via flag, config file or " + EnvPrefix + "_CATALOG)")
	}
	if c.Format != "" {
		if _, err := document.ParseFormat(c.Format); err != nil {
			return newUsageError(fmt.Sprintf("--format: %v", err))
		}
	}
	if c.VendorPrefix != "" && !strings.HasPrefix(strings.ToLower(c.VendorPrefix), "x-") {
		return newUsageError(fmt.Sprintf("--vendor-prefix %q must start with x-", c.VendorPrefix))
	}
	return nil
}

// format returns the explicit --format, or the one implied by --out.
func (c *GenerateConfig) format() document.Format {
	if c.Format != "" {
		f, _ := document.ParseFormat(c.Format)
		return f
	}
	return document.FormatForPath(c.Out)
}

// transformOptions maps the config onto pipeline options. legacy is passed
// separately because serve switches mode per request.
func (c *GenerateConfig) transformOptions(legacy bool) []transform.Option {
	opts := []transform.Option{transform.WithLegacy(legacy)}
	if c.ClientNamespace != "" {
		opts = append(opts, transform.WithClientNamespace(c.ClientNamespace))
	}
	if len(c.ExcludeNamespaces) > 0 {
		opts = append(opts, transform.WithExcludedNamespaces(c.ExcludeNamespaces...))
	}
	if c.VendorPrefix != "" {
		opts = append(opts, transform.WithVendorPrefix(c.VendorPrefix))
	}
	return opts
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []string:
		return sanitizeList(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	return sanitizeList(strings.Split(csv, ","))
}

func sanitizeList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
