package asset

import (
	"github.com/matzehuels/needful/pkg/errors"
)

// DefaultSignature is the URL segment the publisher is mounted under unless
// configured otherwise.
const DefaultSignature = "fanstatic"

// Mode selects an alternate file for resources that declare one.
type Mode string

const (
	ModeDefault  Mode = ""
	ModeMinified Mode = "minified"
	ModeDebug    Mode = "debug"
)

// Options controls URL generation and placement. The zero value renders
// unversioned URLs under [DefaultSignature] with everything in the top
// fragment.
type Options struct {
	// PublisherSignature is the URL segment the publisher is mounted under.
	PublisherSignature string `toml:"publisher_signature" env:"PUBLISHER_SIGNATURE"`
	// BaseURL is prepended to every generated URL (e.g. a CDN origin).
	BaseURL string `toml:"base_url" env:"BASE_URL"`
	// Versioning inserts a content fingerprint segment into URLs.
	Versioning bool `toml:"versioning" env:"VERSIONING"`
	// RecomputeHashes recomputes library fingerprints on every render
	// instead of once per process. Useful during development.
	RecomputeHashes bool `toml:"recompute_hashes" env:"RECOMPUTE_HASHES"`
	// Bottom allows scripts flagged with [Bottom] to render in the bottom
	// fragment.
	Bottom bool `toml:"bottom" env:"BOTTOM"`
	// ForceBottom renders every script in the bottom fragment. Implies Bottom.
	ForceBottom bool `toml:"force_bottom" env:"FORCE_BOTTOM"`
	// Minified selects the minified variant of resources that have one.
	Minified bool `toml:"minified" env:"MINIFIED"`
	// Debug selects the debug variant of resources that have one.
	Debug bool `toml:"debug" env:"DEBUG"`
}

// Signature returns the configured publisher signature or the default.
func (o Options) Signature() string {
	if o.PublisherSignature == "" {
		return DefaultSignature
	}
	return o.PublisherSignature
}

// Mode returns the resource variant selected by the options.
func (o Options) Mode() Mode {
	switch {
	case o.Minified:
		return ModeMinified
	case o.Debug:
		return ModeDebug
	}
	return ModeDefault
}

// Validate rejects contradictory settings.
func (o Options) Validate() error {
	if o.Minified && o.Debug {
		return errors.New(errors.ErrCodeConfiguration, "minified and debug modes are mutually exclusive")
	}
	if o.PublisherSignature != "" {
		if err := errors.ValidateName("publisher signature", o.PublisherSignature); err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "invalid publisher_signature")
		}
	}
	return nil
}
