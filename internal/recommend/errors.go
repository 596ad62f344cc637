// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProduct matches any *UnknownProductError via errors.Is.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrContractViolation reports invalid arguments: k < 1, unusable
	// weights, or image vectors of different dimensionality.
	ErrContractViolation = errors.New("contract violation")
)

// UnknownProductError reports a target or candidate id missing from the catalog.
type UnknownProductError struct {
	ID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %q", e.ID)
}

// Is lets errors.Is(err, ErrUnknownProduct) match.
func (e *UnknownProductError) Is(target error) bool {
	return target == ErrUnknownProduct
}
