package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/nxadm/tail"
	"github.com/nxadm/tail/watch"

	"logview/internal/model"
	"logview/internal/parse"
	"logview/internal/util/logx"
)

const DefaultPollInterval = 100 * time.Millisecond

type Options struct {
	Path string
	// TailOnly skips the snapshot scan and starts at the current end of file.
	TailOnly bool
	// PollInterval is the wait between file checks when no new line is
	// available. The tail library holds it globally, so only the first
	// Start in a process applies it.
	PollInterval time.Duration
	// Notify uses filesystem notifications instead of polling.
	Notify bool
}

// SourceOpenError reports that the log file could not be opened at startup.
type SourceOpenError struct {
	Path string
	Err  error
}

func (e *SourceOpenError) Error() string {
	return fmt.Sprintf("cannot open log file %q: %v", e.Path, e.Err)
}

func (e *SourceOpenError) Unwrap() error { return e.Err }

func openError(path string, err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	return &SourceOpenError{Path: path, Err: err}
}

var (
	pollOnce sync.Once
	pollSet  time.Duration
)

// setPollInterval configures the tail library's polling cadence. The value
// is global to the library and is applied once per process; later values
// are logged and ignored.
func setPollInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultPollInterval
	}
	pollOnce.Do(func() {
		watch.POLL_DURATION = d
		pollSet = d
	})
	if d != pollSet {
		logx.Debugf("ingest: poll interval %s ignored, already set to %s", d, pollSet)
	}
}

// Start opens the source and launches the background ingest goroutine. Only
// the open is synchronous; its failure is returned as a *SourceOpenError.
// The goroutine runs until ctx is done.
func Start(ctx context.Context, opt Options, store *model.Store) error {
	f, err := os.Open(opt.Path)
	if err != nil {
		return openError(opt.Path, err)
	}
	if st, err := f.Stat(); err != nil {
		f.Close()
		return openError(opt.Path, err)
	} else if st.IsDir() {
		f.Close()
		return openError(opt.Path, errors.New("is a directory"))
	}
	setPollInterval(opt.PollInterval)

	var offset int64
	if opt.TailOnly {
		offset, err = f.Seek(0, io.SeekEnd)
		f.Close()
		if err != nil {
			return openError(opt.Path, err)
		}
		f = nil
	}
	logx.Infof("ingest: path=%s tailOnly=%v notify=%v start=%d", opt.Path, opt.TailOnly, opt.Notify, offset)

	go func() {
		if f != nil {
			n, loaded, err := loadSnapshot(f, store)
			f.Close()
			if err != nil {
				logx.Errorf("ingest: snapshot read %s: %v", opt.Path, err)
			}
			logx.Infof("ingest: snapshot loaded %d records, tailing from byte %d", loaded, n)
			offset = n
		}
		follow(ctx, opt, offset, store)
	}()
	return nil
}

// loadSnapshot reads every line currently in r and appends the records to
// store from the last line to the first. It returns the byte offset where
// tailing must resume. A final line without a newline is consumed only if it
// parses; otherwise tailing resumes at its start so the completed line is
// picked up later.
func loadSnapshot(r io.Reader, store *model.Store) (offset int64, loaded int, err error) {
	br := bufio.NewReaderSize(r, 64*1024)
	var lines [][]byte
	for {
		b, rerr := br.ReadBytes('\n')
		if len(b) > 0 {
			complete := rerr == nil
			if !complete {
				_, complete = parse.Decode(b)
			}
			if complete {
				lines = append(lines, b)
				offset += int64(len(b))
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			err = rerr
			break
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		rec, ok := parse.Decode(lines[i])
		if !ok {
			continue
		}
		store.AppendOlder(rec)
		loaded++
	}
	return offset, loaded, err
}

func follow(ctx context.Context, opt Options, offset int64, store *model.Store) {
	t, err := tail.TailFile(opt.Path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		// hold back a line until its newline arrives, however many
		// writes it takes
		CompleteLines: true,
		Logger:        tail.DiscardingLogger,
		Poll:          !opt.Notify,
		Location:      &tail.SeekInfo{Offset: offset, Whence: io.SeekStart},
	})
	if err != nil {
		logx.Errorf("ingest: tail %s: %v", opt.Path, err)
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				if err := t.Err(); err != nil {
					logx.Errorf("ingest: tail %s stopped: %v", opt.Path, err)
				}
				return
			}
			if l.Err != nil {
				logx.Warnf("ingest: tail %s: %v", opt.Path, l.Err)
				continue
			}
			rec, ok := parse.Parse(l.Text)
			if !ok {
				logx.Debugf("ingest: skipped non-record line (%d bytes)", len(l.Text))
				continue
			}
			store.PrependNewest(rec)
		}
	}
}
