package transform

import (
	"strings"
)

// Defaults for Options.
const (
	DefaultClientNamespace       = ".Client."
	DefaultVendorPrefix          = "x-unisys"
	DefaultDiscriminatorProperty = "MessageType"
	DefaultClassNameProperty     = "MessageClassName"
	DefaultExcludedNamespace     = "Unisys.Common.EISConnectors"
)

// Options controls how a document is rewritten.
type Options struct {
	// Legacy selects the Swagger 2.0 compatible output: no composition, no
	// discriminator, no response unions.
	Legacy bool
	// ClientNamespace marks the message types registered in the document.
	ClientNamespace string
	// ExcludedNamespaces lists namespaces whose schemas are dropped.
	ExcludedNamespaces []string
	// VendorPrefix prefixes every vendor extension key.
	VendorPrefix string
	// DiscriminatorProperty carries the concrete message type name.
	DiscriminatorProperty string
	// ClassNameProperty is the legacy type-name property, kept only in legacy
	// mode.
	ClassNameProperty string
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the richer-mode defaults.
func DefaultOptions() Options {
	return Options{
		ClientNamespace:       DefaultClientNamespace,
		ExcludedNamespaces:    []string{DefaultExcludedNamespace},
		VendorPrefix:          DefaultVendorPrefix,
		DiscriminatorProperty: DefaultDiscriminatorProperty,
		ClassNameProperty:     DefaultClassNameProperty,
	}
}

// NewOptions applies opts over DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o.normalize()
}

func WithLegacy(legacy bool) Option {
	return func(o *Options) { o.Legacy = legacy }
}

func WithClientNamespace(ns string) Option {
	return func(o *Options) { o.ClientNamespace = ns }
}

func WithExcludedNamespaces(ns ...string) Option {
	return func(o *Options) { o.ExcludedNamespaces = append([]string(nil), ns...) }
}

func WithVendorPrefix(prefix string) Option {
	return func(o *Options) { o.VendorPrefix = prefix }
}

// normalize fills empty values with defaults and trims separators.
func (o Options) normalize() Options {
	d := DefaultOptions()
	if strings.TrimSpace(o.ClientNamespace) == "" {
		o.ClientNamespace = d.ClientNamespace
	}
	o.VendorPrefix = strings.TrimRight(strings.TrimSpace(o.VendorPrefix), "-")
	if o.VendorPrefix == "" {
		o.VendorPrefix = d.VendorPrefix
	}
	if o.DiscriminatorProperty == "" {
		o.DiscriminatorProperty = d.DiscriminatorProperty
	}
	if o.ClassNameProperty == "" {
		o.ClassNameProperty = d.ClassNameProperty
	}
	var ns []string
	for _, n := range o.ExcludedNamespaces {
		if n = strings.TrimSpace(n); n != "" {
			ns = append(ns, n)
		}
	}
	o.ExcludedNamespaces = ns
	return o
}

// Mode names the output mode for logs and summaries.
func (o Options) Mode() string {
	if o.Legacy {
		return "legacy"
	}
	return "richer"
}

func (o Options) ext(name string) string {
	return o.VendorPrefix + "-" + name
}

func (o Options) excluded(id string) bool {
	for _, ns := range o.ExcludedNamespaces {
		if strings.Contains(id, ns) {
			return true
		}
	}
	return false
}
