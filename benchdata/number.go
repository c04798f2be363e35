// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchdata

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// A Number is a measurement value. Its zero value is the default for
// a measurement that is absent from a record.
//
// Decoding a Number never fails: JSON numbers decode as themselves,
// strings holding a number are parsed, and anything else (null,
// booleans, arrays, objects, unparsable strings, non-finite values)
// decodes as 0.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && finite(f) {
			*n = Number(f)
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if f, err := strconv.ParseFloat(string(data), 64); err == nil && finite(f) {
			*n = Number(f)
		}
	}
	return nil
}

// Float64 returns n as a float64.
func (n Number) Float64() float64 {
	return float64(n)
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
