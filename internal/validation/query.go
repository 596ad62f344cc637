// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package validation

import (
	"fmt"
	"net/url"
	"strconv"
)

// SimilarQuery is a parsed similar-products request.
//
// K of 0 selects the configured default. The weights are pointers so that
// an omitted weight can be told apart from an explicit zero.
type SimilarQuery struct {
	ProductID   string   `query:"productID" validate:"required,max=256,productid"`
	K           int      `query:"k" validate:"gte=0,lte=1000"`
	Mode        string   `query:"mode" validate:"omitempty,oneof=text image combined"`
	TextWeight  *float64 `query:"text_weight" validate:"omitempty,gte=0,lte=1000"`
	ImageWeight *float64 `query:"image_weight" validate:"omitempty,gte=0,lte=1000"`
}

// ParseSimilarQuery reads the query string of a similar-products request and
// validates it. Values that are not numbers are reported as validation errors.
func ParseSimilarQuery(productID string, q url.Values) (SimilarQuery, *RequestValidationError) {
	sq := SimilarQuery{ProductID: productID, Mode: q.Get("mode")}
	var bad []FieldError

	if raw := q.Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			bad = append(bad, notANumber("k", raw))
		}
		sq.K = k
	}
	for _, w := range []struct {
		name string
		dst  **float64
	}{
		{"text_weight", &sq.TextWeight},
		{"image_weight", &sq.ImageWeight},
	} {
		raw := q.Get(w.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			bad = append(bad, notANumber(w.name, raw))
			continue
		}
		*w.dst = &v
	}

	if len(bad) > 0 {
		return sq, &RequestValidationError{Fields: bad}
	}
	if verr := ValidateStruct(&sq); verr != nil {
		return sq, verr
	}
	return sq, nil
}

func notANumber(field, raw string) FieldError {
	return FieldError{
		Field:   field,
		Tag:     "number",
		Value:   raw,
		Message: fmt.Sprintf(plainMessages["number"], field),
	}
}
