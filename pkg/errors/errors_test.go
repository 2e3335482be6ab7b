// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"fmt"
	"os"
	"testing"
)

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "msg") != nil || Wrapf(nil, "id=%d", 1) != nil {
		t.Fatal("wrapping nil must stay nil")
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		match error
		msg   string
	}{
		{"source missing", Wrapf(ErrSourceMissing, "logs for %s", "bearing_wear_03"), ErrSourceMissing,
			"logs for bearing_wear_03: required data source missing"},
		{"not found", Wrap(ErrNotFound, "scenario absent"), ErrNotFound, "scenario absent: not found"},
		{"double wrap", Wrap(Wrapf(ErrInvalidArg, "window %d", -1), "timeseries"), ErrInvalidArg,
			"timeseries: window -1: invalid argument"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !Is(tc.err, tc.match) {
				t.Errorf("Is(%v, %v) = false", tc.err, tc.match)
			}
			if tc.err.Error() != tc.msg {
				t.Errorf("message = %q, want %q", tc.err.Error(), tc.msg)
			}
		})
	}
	if Is(Wrap(ErrSourceMissing, "x"), ErrNotFound) {
		t.Error("ErrSourceMissing must not match ErrNotFound")
	}
}

func TestAs(t *testing.T) {
	_, statErr := os.Stat("/definitely/not/here")
	err := Wrap(fmt.Errorf("open corpus: %w", statErr), "knowledge")
	var pathErr *os.PathError
	if !As(err, &pathErr) {
		t.Fatalf("As should find *os.PathError in %v", err)
	}
	if pathErr.Path != "/definitely/not/here" {
		t.Errorf("path = %q", pathErr.Path)
	}
}
