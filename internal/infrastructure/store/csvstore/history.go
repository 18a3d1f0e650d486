package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smartclassroom/classroom-api/internal/core/domain"
)

const (
	historyDirName = "history"
	historySuffix  = "_history.csv"
	archivePrefix  = "archived_class_"
	archiveStamp   = "2006-01-02_15-04-05"

	lockStripes = 32
	loadWorkers = 8
)

var historyHeader = []string{"Time", "Question", "Answer"}

// Summary artifacts the teacher exports leave next to the live store. A
// class archive renames them with the same timestamp suffix as the history
// directory.
var classArtifacts = []string{"all_chats.csv", "teacher_class_summary.xlsx"}

// HistoryStore keeps one append-only CSV per student under
// <dataDir>/history. Appends to the same student are serialized by a
// striped lock keyed on the student name, so concurrent asks never
// interleave half-written rows; ArchiveAndReset takes the store-wide lock
// and excludes every reader and writer while the rename happens.
type HistoryStore struct {
	dataDir string
	dir     string

	// resetMu: read side for Append/Load/LoadAll, write side for
	// ArchiveAndReset.
	resetMu sync.RWMutex
	stripes [lockStripes]sync.Mutex
}

// NewHistoryStore creates the live history directory if needed.
func NewHistoryStore(dataDir string) (*HistoryStore, error) {
	dir := filepath.Join(dataDir, historyDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create history dir: %v", domain.ErrStorage, err)
	}
	return &HistoryStore{dataDir: dataDir, dir: dir}, nil
}

// stripeFor maps a student deterministically to a lock stripe.
func (s *HistoryStore) stripeFor(student string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(student))
	return &s.stripes[int(h.Sum32())%lockStripes]
}

func (s *HistoryStore) fileFor(student string) (string, error) {
	if err := validStudentName(student); err != nil {
		return "", fmt.Errorf("%w: invalid student name %q", domain.ErrStorage, student)
	}
	return filepath.Join(s.dir, student+historySuffix), nil
}

// Append adds one entry to the student's file, creating it (with the header
// row) on first write. The row is synced before Append returns.
func (s *HistoryStore) Append(ctx context.Context, student string, entry domain.ChatEntry) error {
	path, err := s.fileFor(student)
	if err != nil {
		return err
	}

	s.resetMu.RLock()
	defer s.resetMu.RUnlock()

	mu := s.stripeFor(student)
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrStorage, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", domain.ErrStorage, path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(historyHeader); err != nil {
			return fmt.Errorf("%w: write header: %v", domain.ErrStorage, err)
		}
	}
	record := []string{entry.Time.UTC().Format(time.RFC3339), entry.Question, entry.Answer}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("%w: write entry: %v", domain.ErrStorage, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", domain.ErrStorage, path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %v", domain.ErrStorage, path, err)
	}
	return nil
}

// Load returns the student's entries in append order. No file yet means an
// empty history; an existing file that cannot be read or parsed is an error,
// never silently empty.
func (s *HistoryStore) Load(ctx context.Context, student string) ([]domain.ChatEntry, error) {
	path, err := s.fileFor(student)
	if err != nil {
		return nil, err
	}

	s.resetMu.RLock()
	defer s.resetMu.RUnlock()

	mu := s.stripeFor(student)
	mu.Lock()
	defer mu.Unlock()

	return readHistoryFile(path)
}

func readHistoryFile(path string) ([]domain.ChatEntry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return []domain.ChatEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStorage, path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrStorage, path, err)
	}
	if len(records) == 0 {
		return []domain.ChatEntry{}, nil
	}
	if !equalHeader(records[0], historyHeader) {
		return nil, fmt.Errorf("%w: %s: unexpected header %v", domain.ErrStorage, path, records[0])
	}

	entries := make([]domain.ChatEntry, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(historyHeader) {
			return nil, fmt.Errorf("%w: %s: malformed row %v", domain.ErrStorage, path, rec)
		}
		t, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad timestamp %q: %v", domain.ErrStorage, path, rec[0], err)
		}
		entries = append(entries, domain.ChatEntry{Time: t, Question: rec[1], Answer: rec[2]})
	}
	return entries, nil
}

// LoadAll maps every student with at least one append to their entries. The
// scan is over the live directory, not the user table, so it includes
// students who can no longer log in.
func (s *HistoryStore) LoadAll(ctx context.Context) (map[string][]domain.ChatEntry, error) {
	s.resetMu.RLock()
	defer s.resetMu.RUnlock()

	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read history dir: %v", domain.ErrStorage, err)
	}

	out := make(map[string][]domain.ChatEntry)
	var outMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadWorkers)

	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, historySuffix) {
			continue
		}
		student := strings.TrimSuffix(name, historySuffix)
		path := filepath.Join(s.dir, name)

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries, err := readHistoryFile(path)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return nil
			}
			outMu.Lock()
			out[student] = entries
			outMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveClassArtifact writes a summary artifact next to the live store,
// atomically, so ArchiveAndReset can rename it into the archive.
func (s *HistoryStore) SaveClassArtifact(ctx context.Context, name string, data []byte) error {
	if name != filepath.Base(name) {
		return fmt.Errorf("%w: invalid artifact name %q", domain.ErrStorage, name)
	}

	s.resetMu.RLock()
	defer s.resetMu.RUnlock()

	path := filepath.Join(s.dataDir, name)
	return writeFileAtomic(path, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

// ArchiveAndReset renames the summary artifacts and then the live history
// directory to their archived_class_<timestamp> names, and recreates an
// empty live directory. Renames never copy data, so a failure leaves
// everything recoverable; the directory move is last, so an early artifact
// failure leaves the live store untouched.
func (s *HistoryStore) ArchiveAndReset(ctx context.Context) (string, error) {
	s.resetMu.Lock()
	defer s.resetMu.Unlock()

	archive := s.nextArchiveName()

	for _, name := range classArtifacts {
		src := filepath.Join(s.dataDir, name)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		dst := filepath.Join(s.dataDir, archive+filepath.Ext(name))
		if err := os.Rename(src, dst); err != nil {
			return "", fmt.Errorf("%w: archive %s: %v", domain.ErrStorage, name, err)
		}
	}

	if err := os.Rename(s.dir, filepath.Join(s.dataDir, archive)); err != nil {
		return "", fmt.Errorf("%w: archive history dir: %v", domain.ErrStorage, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: recreate history dir: %v", domain.ErrStorage, err)
	}
	return archive, nil
}

// nextArchiveName returns an unused archived_class_<timestamp> name,
// disambiguated with a numeric suffix so a second reset within the same
// wall-clock second never renames over an earlier archive.
func (s *HistoryStore) nextArchiveName() string {
	stamp := time.Now().Format(archiveStamp)
	name := archivePrefix + stamp
	for n := 2; s.archiveNameTaken(name); n++ {
		name = fmt.Sprintf("%s%s_%d", archivePrefix, stamp, n)
	}
	return name
}

// archiveNameTaken checks the archive directory and every artifact rename
// target, since an earlier reset may have moved artifacts before failing on
// the directory.
func (s *HistoryStore) archiveNameTaken(name string) bool {
	paths := []string{filepath.Join(s.dataDir, name)}
	for _, a := range classArtifacts {
		paths = append(paths, filepath.Join(s.dataDir, name+filepath.Ext(a)))
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

// Ping reports whether the live directory is reachable. Used by readiness.
func (s *HistoryStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}
