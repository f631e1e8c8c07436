package brain

import "fmt"

// TransportError marks a model call that failed before producing any
// usable response (network, auth, rate limit).
type TransportError struct {
	Tier Tier
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s model request failed: %v", e.Tier, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError marks a model response that arrived but could not be
// decoded into the expected JSON shape.
type ParseError struct {
	Tier Tier
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s model response unparsable: %v", e.Tier, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
