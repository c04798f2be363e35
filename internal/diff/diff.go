// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff reports differences between expected and actual test
// output.
package diff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Diff returns a unified diff of have and want, or "" if they are
// equal. If the diff command is unavailable or fails, the result
// quotes both strings instead.
func Diff(have, want string) string {
	if have == want {
		return ""
	}
	if _, err := exec.LookPath("diff"); err != nil {
		return fmt.Sprintf("diff command unavailable\nhave: %q\nwant: %q", have, want)
	}
	dir, err := os.MkdirTemp("", "benchviz-diff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(dir)

	haveFile, wantFile := filepath.Join(dir, "have"), filepath.Join(dir, "want")
	if err := os.WriteFile(haveFile, []byte(have), 0666); err != nil {
		return err.Error()
	}
	if err := os.WriteFile(wantFile, []byte(want), 0666); err != nil {
		return err.Error()
	}

	out, err := exec.Command("diff", "-u", haveFile, wantFile).CombinedOutput()
	if len(out) > 0 {
		// diff exits with status 1 when the files differ.
		return string(out)
	}
	if err != nil {
		return fmt.Sprintf("diff: %v\nhave: %q\nwant: %q", err, have, want)
	}
	return ""
}

// JSON is like Diff, but first indents have and want so that the
// diff shows which members differ. Documents that are not valid JSON
// are compared as they are.
func JSON(have, want []byte) string {
	return Diff(indent(have), indent(want))
}

func indent(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "\t"); err != nil {
		return string(data)
	}
	buf.WriteByte('\n')
	return buf.String()
}
