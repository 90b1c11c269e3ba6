package meetings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/houzhh15/roomz/pkg/logger"
	"github.com/houzhh15/roomz/pkg/metrics"
)

// Load sources reported by Store.Source.
const (
	SourceData = "data"
	SourceSeed = "seed"
	SourceNone = "none"
)

// maxIDAttempts bounds id regeneration when a generated id collides.
const maxIDAttempts = 8

// StoreOptions configures a Store.
type StoreOptions struct {
	// DataPath is read at load and rewritten after every mutation.
	// Empty keeps the store in memory only.
	DataPath string
	// SeedPath is read when DataPath does not exist yet.
	SeedPath string
	// DefaultRoomID receives records without a roomId. Defaults to DefaultRoomID.
	DefaultRoomID string
	Logger        *slog.Logger
	// KnownRoom reports rooms that get their own metrics label. Meetings of
	// other rooms are counted under metrics.OtherRoomLabel. Defaults to
	// accepting only DefaultRoomID.
	KnownRoom func(roomID string) bool
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Store owns the room -> meetings mapping and its on-disk mirror.
// All mutations and the persist that follows them run under the write lock;
// reads take the read lock and return copies.
type Store struct {
	mu    sync.RWMutex
	rooms map[string][]Meeting
	order []string // rooms in first-seen order, used for stable persistence

	dataPath    string
	seedPath    string
	defaultRoom string
	log         *slog.Logger
	now         func() time.Time
	newID       func() string
	knownRoom   func(string) bool

	source     string
	persistErr error
}

// NewStore creates an empty store. Call Load to populate it.
func NewStore(opts StoreOptions) *Store {
	s := &Store{
		rooms:       map[string][]Meeting{},
		dataPath:    opts.DataPath,
		seedPath:    opts.SeedPath,
		defaultRoom: opts.DefaultRoomID,
		log:         opts.Logger,
		now:         opts.Clock,
		newID:       NewMeetingID,
		knownRoom:   opts.KnownRoom,
		source:      SourceNone,
	}
	if s.defaultRoom == "" {
		s.defaultRoom = DefaultRoomID
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.knownRoom == nil {
		defaultRoom := s.defaultRoom
		s.knownRoom = func(roomID string) bool { return roomID == defaultRoom }
	}
	return s
}

// Load rebuilds the in-memory state from DataPath, falling back to SeedPath
// when DataPath does not exist. On any read or parse failure the store is left
// empty and a *PersistenceError is returned; the store stays usable.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms = map[string][]Meeting{}
	s.order = nil
	s.source = SourceNone
	metrics.ResetMeetingsStored()

	path, source := s.dataPath, SourceData
	b, err := readIfPresent(path)
	if errors.Is(err, fs.ErrNotExist) {
		path, source = s.seedPath, SourceSeed
		b, err = readIfPresent(path)
		if errors.Is(err, fs.ErrNotExist) {
			metrics.RecordLoad(SourceNone, true)
			s.log.Info("no meeting data or seed file, starting empty",
				"data_path", s.dataPath, "seed_path", s.seedPath)
			return nil
		}
	}
	if err != nil {
		metrics.RecordLoad(source, false)
		return &PersistenceError{Op: "load", Path: path, Err: err}
	}

	var records []*persistedMeeting
	if err := json.Unmarshal(b, &records); err != nil {
		metrics.RecordLoad(source, false)
		return &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("unmarshal meetings: %w", err)}
	}

	loaded := 0
	for _, r := range records {
		if r == nil {
			continue
		}
		room := r.RoomID
		if room == "" {
			room = s.defaultRoom
		}
		s.appendLocked(room, r.Meeting)
		loaded++
	}
	s.source = source
	s.refreshGaugesLocked()
	metrics.RecordLoad(source, true)

	s.log.Info("loaded meetings", "source", source, "path", path,
		"meetings", loaded, "skipped", len(records)-loaded, "rooms", len(s.order))
	return nil
}

func readIfPresent(path string) ([]byte, error) {
	if path == "" {
		return nil, fs.ErrNotExist
	}
	return os.ReadFile(path)
}

// GetMeetings returns a copy of the room's meetings in insertion order.
// Unknown rooms yield an empty slice.
func (s *Store) GetMeetings(roomID string) []Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.rooms[roomID]
	out := make([]Meeting, len(list))
	copy(out, list)
	return out
}

// Find returns the first meeting in the room with the given id.
func (s *Store) Find(roomID, meetingID string) (Meeting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(roomID, meetingID); i >= 0 {
		return s.rooms[roomID][i], true
	}
	return Meeting{}, false
}

// AddMeeting appends m to the room, assigning an id and creation date when
// they are empty, and persists the whole mapping. A client-supplied id that
// already exists in the room is rejected with ErrDuplicateMeetingID.
func (s *Store) AddMeeting(roomID string, m Meeting) (Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.MeetingID == "" {
		id, err := s.uniqueIDLocked(roomID)
		if err != nil {
			return Meeting{}, err
		}
		m.MeetingID = id
	} else if s.indexLocked(roomID, m.MeetingID) >= 0 {
		metrics.RecordMutation("create", "conflict")
		return Meeting{}, fmt.Errorf("%w: %s", ErrDuplicateMeetingID, m.MeetingID)
	}
	if m.CreationDateUTC == "" {
		m.CreationDateUTC = FormatTimestamp(s.now())
	}

	s.appendLocked(roomID, m)
	s.refreshGaugesLocked()
	s.persistLocked()
	metrics.RecordMutation("create", "ok")
	return m, nil
}

// UpdateMeeting overwrites the fields set in u on the first meeting matching
// meetingID, persists, and returns the full updated record.
func (s *Store) UpdateMeeting(roomID, meetingID string, u FieldUpdates) (Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(roomID, meetingID)
	if i < 0 {
		metrics.RecordMutation("update", "not_found")
		return Meeting{}, ErrMeetingNotFound
	}

	updated := u.Apply(s.rooms[roomID][i])
	if updated.MeetingID != meetingID && s.indexLocked(roomID, updated.MeetingID) >= 0 {
		metrics.RecordMutation("update", "conflict")
		return Meeting{}, fmt.Errorf("%w: %s", ErrDuplicateMeetingID, updated.MeetingID)
	}

	s.rooms[roomID][i] = updated
	s.persistLocked()
	metrics.RecordMutation("update", "ok")
	return updated, nil
}

// Len returns the number of meetings across all rooms.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, list := range s.rooms {
		n += len(list)
	}
	return n
}

// Source reports which file the current state was loaded from.
func (s *Store) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// PersistErr returns the error of the most recent persist, nil if it succeeded
// or none has run yet.
func (s *Store) PersistErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

// DataPath returns the file the store is mirrored to.
func (s *Store) DataPath() string {
	return s.dataPath
}

func (s *Store) appendLocked(roomID string, m Meeting) {
	if _, ok := s.rooms[roomID]; !ok {
		s.order = append(s.order, roomID)
	}
	s.rooms[roomID] = append(s.rooms[roomID], m)
}

func (s *Store) indexLocked(roomID, meetingID string) int {
	for i, m := range s.rooms[roomID] {
		if m.MeetingID == meetingID {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueIDLocked(roomID string) (string, error) {
	for range maxIDAttempts {
		id := s.newID()
		if s.indexLocked(roomID, id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate meeting id: %d collisions in room %s", maxIDAttempts, roomID)
}

// refreshGaugesLocked sets one gauge per known room plus one for all others,
// so client-chosen room ids cannot grow the series set.
func (s *Store) refreshGaugesLocked() {
	counts := map[string]int{}
	for _, room := range s.order {
		counts[s.roomLabel(room)] += len(s.rooms[room])
	}
	for label, n := range counts {
		metrics.SetMeetingsStored(label, n)
	}
}

func (s *Store) roomLabel(roomID string) string {
	if s.knownRoom(roomID) {
		return roomID
	}
	return metrics.OtherRoomLabel
}

// persistLocked rewrites the data file. Failures are logged and remembered but
// never returned: the in-memory mutation stands.
func (s *Store) persistLocked() {
	if s.dataPath == "" {
		return
	}

	start := time.Now()
	err := s.writeLocked()
	metrics.RecordPersist(err == nil, time.Since(start).Seconds())
	s.persistErr = err
	if err != nil {
		s.log.Error("persist meetings failed", "path", s.dataPath, "error", err)
		return
	}
	s.log.Debug("persisted meetings", "path", s.dataPath, "duration", time.Since(start))
}

func (s *Store) writeLocked() error {
	records := []persistedMeeting{}
	for _, room := range s.order {
		for _, m := range s.rooms[room] {
			records = append(records, persistedMeeting{RoomID: room, Meeting: m})
		}
	}

	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "persist", Path: s.dataPath, Err: fmt.Errorf("marshal meetings: %w", err)}
	}

	if dir := filepath.Dir(s.dataPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &PersistenceError{Op: "persist", Path: s.dataPath, Err: fmt.Errorf("create data dir: %w", err)}
		}
	}

	tmp := s.dataPath + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return &PersistenceError{Op: "persist", Path: s.dataPath, Err: fmt.Errorf("write tmp file: %w", err)}
	}
	if err := os.Rename(tmp, s.dataPath); err != nil {
		return &PersistenceError{Op: "persist", Path: s.dataPath, Err: fmt.Errorf("rename tmp file: %w", err)}
	}
	return nil
}
