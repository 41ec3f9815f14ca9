package config

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/go-multierror"
)

var endpointPattern = regexp.MustCompile(`^/[A-Za-z0-9_\-./]*$`)

// Validate checks every present section, reporting all problems at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := c.Outline.Validate(); err != nil {
		result = multierror.Append(result, fmt.Errorf("outline: %w", err))
	}
	if err := c.Server.Validate(); err != nil {
		result = multierror.Append(result, fmt.Errorf("server: %w", err))
	}
	if err := c.Cache.Validate(); err != nil {
		result = multierror.Append(result, fmt.Errorf("cache: %w", err))
	}

	return result.ErrorOrNil()
}

func (o *OutlineSection) Validate() error {
	if o == nil {
		return nil
	}

	return validation.ValidateStruct(o,
		validation.Field(&o.APIURL, validation.NilOrNotEmpty, is.RequestURL),
		validation.Field(&o.Timeout, validation.By(positiveDuration)),
	)
}

func (s *ServerSection) Validate() error {
	if s == nil {
		return nil
	}

	// Transport is not checked here, unknown values fall back to stdio at startup.
	return validation.ValidateStruct(s,
		validation.Field(&s.Addr, validation.NilOrNotEmpty, validation.By(hostPort)),
		validation.Field(&s.Endpoint, validation.NilOrNotEmpty, validation.Match(endpointPattern).Error("must be an absolute path")),
		validation.Field(&s.ShutdownTimeout, validation.By(positiveDuration)),
		validation.Field(&s.CORS),
	)
}

func (c *CORSSection) Validate() error {
	if c == nil {
		return nil
	}

	methods := make([]any, 0, len(validHTTPMethods))
	for _, m := range validHTTPMethods {
		methods = append(methods, m)
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.Origins, validation.Each(validation.Required)),
		validation.Field(&c.Methods, validation.Each(validation.By(upper), validation.In(methods...))),
		validation.Field(&c.MaxAge, validation.By(nonNegativeDuration)),
	)
}

func (c *CacheSection) Validate() error {
	if c == nil {
		return nil
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.MaxEntries, validation.Min(0)),
		validation.Field(&c.TTL, validation.By(nonNegativeDuration)),
	)
}

var validHTTPMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

func positiveDuration(value any) error {
	d, _ := value.(*Duration)
	if d != nil && *d <= 0 {
		return errors.New("must be a positive duration")
	}
	return nil
}

func nonNegativeDuration(value any) error {
	d, _ := value.(*Duration)
	if d != nil && *d < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// upper rejects methods that are not written in upper case, so 'get' is reported rather than silently accepted.
func upper(value any) error {
	s, _ := value.(string)
	if s != strings.ToUpper(s) {
		return errors.New("must be upper case")
	}
	return nil
}

// hostPort accepts 'host:port' where host may be empty (all interfaces).
func hostPort(value any) error {
	var addr string
	switch v := value.(type) {
	case *string:
		if v == nil {
			return nil
		}
		addr = *v
	case string:
		addr = v
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return errors.New("must be in host:port form")
	}
	if port == "" {
		return errors.New("must include a port")
	}
	if strings.ContainsAny(host, " \t\n\r") {
		return errors.New("must not contain whitespace")
	}
	return nil
}
