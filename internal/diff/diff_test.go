// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import (
	"strings"
	"testing"
)

func TestDiffEqual(t *testing.T) {
	if d := Diff("a\nb\n", "a\nb\n"); d != "" {
		t.Errorf("Diff of equal strings = %q, want empty", d)
	}
	if d := JSON([]byte(`{"a": 1}`), []byte(`{"a":1}`)); d != "" {
		t.Errorf("JSON of equivalent layouts = %q, want empty", d)
	}
}

func TestJSON(t *testing.T) {
	d := JSON([]byte(`{"a":1,"b":2}`), []byte(`{"a":1,"b":3}`))
	if d == "" {
		t.Fatal("JSON of different documents = empty")
	}
	if !strings.Contains(d, `"b": 2`) || !strings.Contains(d, `"b": 3`) {
		t.Errorf("JSON diff does not show the changed member:\n%s", d)
	}
}
