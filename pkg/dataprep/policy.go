package dataprep

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownFillMethod = errors.New("unknown fill method")
	ErrInvalidThreshold  = errors.New("nan threshold must be within [0, 1]")
)

// FillMethod selects how missing cells left after the column drop are handled.
type FillMethod string

const (
	FillMean   FillMethod = "mean"
	FillMedian FillMethod = "median"
	// FillNone drops every row that still has a missing cell.
	FillNone FillMethod = "none"
)

// ParseFillMethod accepts mean, median or none.
func ParseFillMethod(s string) (FillMethod, error) {
	switch m := FillMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case FillMean, FillMedian, FillNone:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (want mean, median or none)", ErrUnknownFillMethod, s)
	}
}

// Policy configures a cleaning pass.
type Policy struct {
	// NaNThreshold drops columns whose missing fraction is strictly greater.
	NaNThreshold float64
	Fill         FillMethod
}

// DefaultPolicy drops columns more than 20% empty and fills the rest with the mean.
func DefaultPolicy() Policy {
	return Policy{NaNThreshold: 0.2, Fill: FillMean}
}

// Validate checks the policy before any data is touched.
func (p Policy) Validate() error {
	if !(p.NaNThreshold >= 0 && p.NaNThreshold <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, p.NaNThreshold)
	}
	if _, err := ParseFillMethod(string(p.Fill)); err != nil {
		return err
	}
	return nil
}
