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

package object

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"iiot-responder/pkg/errors"
)

func readAll(t *testing.T, s Store, path string) string {
	t.Helper()
	rc, err := s.Get(context.Background(), path)
	if err != nil {
		t.Fatalf("Get %s: %v", path, err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	return string(b)
}

func TestStores_PutGetExists(t *testing.T) {
	ctx := context.Background()
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "tickets")),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ok, err := s.Exists(ctx, "a.md")
			if err != nil || ok {
				t.Fatalf("Exists before put: %v %v", ok, err)
			}
			if err := s.Put(ctx, "a.md", strings.NewReader("hello"), nil); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if got := readAll(t, s, "a.md"); got != "hello" {
				t.Errorf("Get: got %q", got)
			}
			ok, _ = s.Exists(ctx, "a.md")
			if !ok {
				t.Errorf("Exists after put: false")
			}
			if _, err := s.Get(ctx, "missing.md"); !errors.Is(err, errors.ErrNotFound) {
				t.Errorf("Get missing: %v", err)
			}
			list, err := s.List(ctx, "a")
			if err != nil || len(list) != 1 || list[0].Path != "a.md" || list[0].Size != 5 {
				t.Errorf("List: %+v %v", list, err)
			}
		})
	}
}

func TestFileStore_LocationAndTraversal(t *testing.T) {
	root := t.TempDir()
	s := NewFileStore(root)
	if got := s.Location("t.md"); got != filepath.Join(root, "t.md") {
		t.Errorf("Location: %q", got)
	}
	if err := s.Put(context.Background(), "../escape.md", strings.NewReader("x"), nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escape.md")); err != nil {
		t.Errorf("path should be confined to root: %v", err)
	}
	if err := s.Put(context.Background(), "", strings.NewReader("x"), nil); !errors.Is(err, errors.ErrInvalidArg) {
		t.Errorf("empty path: %v", err)
	}
}

func TestTicketSink_NamesAndCollisions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sink := NewTicketSink(store)
	sink.now = func() time.Time { return time.Unix(1700000000, 0) }

	var locs []string
	for i := 0; i < 3; i++ {
		loc, err := sink.Store(ctx, "report")
		if err != nil {
			t.Fatalf("Store: %v", err)
		}
		locs = append(locs, loc)
	}
	want := []string{
		"memory://ticket_1700000000.md",
		"memory://ticket_1700000000-1.md",
		"memory://ticket_1700000000-2.md",
	}
	for i := range want {
		if locs[i] != want[i] {
			t.Errorf("location %d: got %q want %q", i, locs[i], want[i])
		}
	}
	if got := readAll(t, store, "ticket_1700000000-1.md"); got != "report" {
		t.Errorf("content: %q", got)
	}
	list, _ := sink.List(ctx)
	if len(list) != 3 {
		t.Errorf("List: %d", len(list))
	}
}

func TestTicketSink_ConcurrentWritesDoNotCollide(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	sink := NewTicketSink(NewFileStore(root))
	sink.now = func() time.Time { return time.Unix(1700000000, 0) }

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sink.Store(ctx, "r"); err != nil {
				t.Errorf("Store: %v", err)
			}
		}()
	}
	wg.Wait()
	entries, _ := os.ReadDir(root)
	if len(entries) != 10 {
		t.Errorf("expected 10 ticket files, got %d", len(entries))
	}
}

func TestNewStore(t *testing.T) {
	if _, err := NewStore("s3", ""); err == nil {
		t.Errorf("expected error for unsupported type")
	}
	s, err := NewStore("", t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("default store should be *FileStore, got %T", s)
	}
}
