package options

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*APIOptions)(nil)

// APIOptions locates the remote car resource.
type APIOptions struct {
	// BaseURL is the collection endpoint, e.g. https://host/cars.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// Timeout bounds every request to the resource.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// UserAgent is sent with every request.
	UserAgent string `json:"user-agent" mapstructure:"user-agent"`
}

// NewAPIOptions creates an APIOptions object pointing at the public demo resource.
func NewAPIOptions() *APIOptions {
	return &APIOptions{
		BaseURL:   "https://carstockrest.herokuapp.com/cars",
		Timeout:   10 * time.Second,
		UserAgent: "carstock",
	}
}

// Validate checks that the base URL is absolute.
func (o *APIOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	u, err := url.Parse(o.BaseURL)
	if err != nil {
		errors = append(errors, fmt.Errorf("--api.base-url: %w", err))
	} else if u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Errorf("--api.base-url: %q is not an absolute URL", o.BaseURL))
	}
	if o.Timeout < 0 {
		errors = append(errors, fmt.Errorf("--api.timeout must not be negative"))
	}

	return errors
}

// AddFlags adds flags for APIOptions to the specified FlagSet.
func (o *APIOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.BaseURL, "api.base-url", o.BaseURL, "URL of the car collection resource.")
	fs.DurationVar(&o.Timeout, "api.timeout", o.Timeout, "Timeout for each request to the car resource (0 disables it).")
	fs.StringVar(&o.UserAgent, "api.user-agent", o.UserAgent, "User-Agent header sent to the car resource.")
}
