package ingest

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nxadm/tail/watch"

	"logview/internal/model"
	"logview/internal/util/logx"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func appendLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	defer f.Close()
	for _, l := range lines {
		if _, err := f.WriteString(l + "\n"); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
}

func appendRaw(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func waitLen(t *testing.T, s *model.Store, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.Len() >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("store length = %d, want %d", s.Len(), n)
}

func messages(s *model.Store) []string {
	snap := s.Snapshot()
	out := make([]string, len(snap))
	for i, r := range snap {
		out[i] = r.Message()
	}
	return out
}

func start(t *testing.T, path string, tailOnly bool) *model.Store {
	t.Helper()
	return startWith(t, Options{Path: path, TailOnly: tailOnly})
}

func startWith(t *testing.T, opt Options) *model.Store {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s := model.NewStore(0)
	if err := Start(ctx, opt, s); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

func TestLoadSnapshotFiltersAndReverses(t *testing.T) {
	content := strings.Join([]string{
		`{"message":"L1"}`,
		`garbage`,
		`{"message":"L2"}`,
		``,
		`[1,2]`,
		`{"message":"L3"}`,
	}, "\n") + "\n"
	s := model.NewStore(0)
	offset, loaded, err := loadSnapshot(strings.NewReader(content), s)
	if err != nil {
		t.Fatalf("loadSnapshot: %v", err)
	}
	if loaded != 3 || s.Len() != 3 {
		t.Fatalf("loaded=%d len=%d, want 3", loaded, s.Len())
	}
	if offset != int64(len(content)) {
		t.Fatalf("offset = %d, want %d", offset, len(content))
	}
	if got := messages(s); !reflect.DeepEqual(got, []string{"L3", "L2", "L1"}) {
		t.Fatalf("order = %v", got)
	}
}

func TestLoadSnapshotUnterminatedLastLine(t *testing.T) {
	s := model.NewStore(0)
	content := "{\"message\":\"a\"}\n{\"message\":\"b\"}"
	offset, _, _ := loadSnapshot(strings.NewReader(content), s)
	if offset != int64(len(content)) || s.Len() != 2 {
		t.Fatalf("complete trailing record: offset=%d len=%d", offset, s.Len())
	}

	s = model.NewStore(0)
	first := "{\"message\":\"a\"}\n"
	offset, _, _ = loadSnapshot(strings.NewReader(first+`{"message":"b`), s)
	if offset != int64(len(first)) || s.Len() != 1 {
		t.Fatalf("partial trailing record: offset=%d len=%d, want %d 1", offset, s.Len(), len(first))
	}
}

func TestSnapshotThenTail(t *testing.T) {
	path := writeFile(t, "{\"timestamp\":\"t1\",\"message\":\"a\"}\nnot json\n{\"timestamp\":\"t2\",\"message\":\"b\"}\n")
	s := start(t, path, false)
	waitLen(t, s, 2)
	if got := messages(s); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("after snapshot = %v", got)
	}

	appendLines(t, path, `{"message":"c"}`, `oops`, `{"message":"d"}`)
	waitLen(t, s, 4)
	if got := messages(s); !reflect.DeepEqual(got, []string{"d", "c", "b", "a"}) {
		t.Fatalf("after tail = %v", got)
	}
}

func TestTailOnlySkipsExisting(t *testing.T) {
	path := writeFile(t, "{\"message\":\"old\"}\n")
	s := start(t, path, true)
	appendLines(t, path, `{"message":"A"}`)
	waitLen(t, s, 1)
	appendLines(t, path, `{"message":"B"}`)
	waitLen(t, s, 2)
	if got := messages(s); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Fatalf("tail-only = %v", got)
	}
}

func TestTailOnlyEmptyFile(t *testing.T) {
	path := writeFile(t, "")
	s := start(t, path, true)
	appendLines(t, path, `{"message":"A"}`, `{"message":"B"}`)
	waitLen(t, s, 2)
	if got := messages(s); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Fatalf("tail-only = %v", got)
	}
}

func TestStartMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.log")
	err := Start(context.Background(), Options{Path: path}, model.NewStore(0))
	var soe *SourceOpenError
	if !errors.As(err, &soe) {
		t.Fatalf("err = %v, want *SourceOpenError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error %q does not name the path", err)
	}
}

func TestStartDirectory(t *testing.T) {
	err := Start(context.Background(), Options{Path: t.TempDir()}, model.NewStore(0))
	var soe *SourceOpenError
	if !errors.As(err, &soe) {
		t.Fatalf("err = %v, want *SourceOpenError", err)
	}
}

func TestPartialLastLineCompletedLater(t *testing.T) {
	path := writeFile(t, "{\"message\":\"a\"}\n{\"message\":\"b")
	s := start(t, path, false)
	waitLen(t, s, 1)
	// let the tailer reach the unfinished line before the writer ends it
	time.Sleep(300 * time.Millisecond)
	appendRaw(t, path, "\"}\n{\"message\":\"c\"}\n")
	waitLen(t, s, 3)
	if got := messages(s); !reflect.DeepEqual(got, []string{"c", "b", "a"}) {
		t.Fatalf("messages = %v", got)
	}
}

func TestTailOnlyLineWrittenInTwoChunks(t *testing.T) {
	path := writeFile(t, "")
	s := start(t, path, true)
	appendRaw(t, path, `{"message":`)
	time.Sleep(400 * time.Millisecond)
	appendRaw(t, path, "\"x\"}\n{\"message\":\"y\"}\n")
	waitLen(t, s, 2)
	if got := messages(s); !reflect.DeepEqual(got, []string{"y", "x"}) {
		t.Fatalf("messages = %v", got)
	}
}

func TestNotifyMode(t *testing.T) {
	path := writeFile(t, "{\"message\":\"a\"}\n")
	s := startWith(t, Options{Path: path, Notify: true})
	waitLen(t, s, 1)
	appendLines(t, path, `{"message":"b"}`)
	waitLen(t, s, 2)
	appendLines(t, path, `skip me`, `{"message":"c"}`)
	waitLen(t, s, 3)
	if got := messages(s); !reflect.DeepEqual(got, []string{"c", "b", "a"}) {
		t.Fatalf("messages = %v", got)
	}
}

func TestPollIntervalAppliedOnce(t *testing.T) {
	logx.SetLevel(logx.Debug)
	t.Cleanup(func() { logx.SetLevel(logx.Info) })

	setPollInterval(0)
	first := watch.POLL_DURATION
	if first != pollSet {
		t.Fatalf("POLL_DURATION = %s, recorded %s", first, pollSet)
	}
	setPollInterval(first + time.Second)
	if watch.POLL_DURATION != first {
		t.Fatalf("POLL_DURATION changed to %s", watch.POLL_DURATION)
	}
	if !strings.Contains(logx.Dump(), "ignored, already set to "+first.String()) {
		t.Fatalf("second interval not logged")
	}
}
