package peerstore

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
	"github.com/willco-1/cuprate/src/common"
	"github.com/willco-1/cuprate/src/peers"
)

// PeerView is a read-only view of a peer list.
type PeerView interface {
	Peers() []*peers.Peer
}

// BanView is a read-only view of a ban table.
type BanView interface {
	Bans() map[peers.BanID]time.Time
}

// Config contains the options of a Store.
type Config struct {
	// Path is the file holding the peer store. It is used as is; resolving
	// it and creating its directory is the caller's job.
	Path string

	// Compress enables zstd compression of the payload.
	Compress bool

	// BlockingWorkers bounds the number of file operations running at the
	// same time.
	BlockingWorkers int

	// SerializeSaves makes concurrent Saves write one after the other.
	SerializeSaves bool

	// Clock provides the reference time of a Save. Defaults to the wall
	// clock, whose readings carry a monotonic component.
	Clock clock.Clock

	Logger *logrus.Entry
}

// Store saves and loads the address book state to and from a single file.
type Store struct {
	path      string
	compress  bool
	serialize bool

	writeLock sync.Mutex

	clock  clock.Clock
	pool   *Pool
	logger *logrus.Entry
}

// NewStore ...
func NewStore(conf Config) *Store {
	c := conf.Clock
	if c == nil {
		c = clock.New()
	}

	logger := conf.Logger
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	workers := conf.BlockingWorkers
	if workers == 0 {
		workers = DefaultBlockingWorkers
	}

	return &Store{
		path:      conf.Path,
		compress:  conf.Compress,
		serialize: conf.SerializeSaves,
		clock:     c,
		pool:      NewPool(workers),
		logger:    logger.WithField("path", conf.Path),
	}
}

// Path ...
func (s *Store) Path() string {
	return s.path
}

// SaveFuture resolves once the file has been replaced, or failed to be.
type SaveFuture struct {
	*common.DeferError

	// ReferenceTime is the instant every ban was relativized against.
	ReferenceTime time.Time
}

// LoadFuture resolves once the file has been read and decoded.
type LoadFuture struct {
	*common.DeferError

	data *PeerData
}

// Result blocks until the load completes.
func (f *LoadFuture) Result() (*PeerData, error) {
	if err := f.Error(); err != nil {
		return nil, err
	}
	return f.data, nil
}

// Save snapshots the lists and the ban table and writes them to the file.
//
// The views are read, and the file content encoded, before Save returns;
// peer records are referenced, not copied. The write itself runs on the
// blocking pool. The current time is read once and every ban is stored as
// the time left on it at that instant.
func (s *Store) Save(white, gray PeerView, bans BanView) *SaveFuture {
	now := s.clock.Now()

	data := &PeerData{
		White: white.Peers(),
		Gray:  gray.Peers(),
		Bans:  RelativizeBans(bans.Bans(), now),
	}

	future := s.SaveData(data)
	future.ReferenceTime = now

	return future
}

// SaveData writes data, whose bans are already relative, to the file.
func (s *Store) SaveData(data *PeerData) *SaveFuture {
	future := &SaveFuture{
		DeferError:    common.NewDeferError(),
		ReferenceTime: s.clock.Now(),
	}

	buf, err := Encode(data, s.compress)
	if err != nil {
		s.logger.WithError(err).Error("Encoding peer store")
		future.Respond(common.NewStoreErr("save", common.EncodeFailure, s.path, err))
		return future
	}

	logFields := logrus.Fields{
		"white": len(data.White),
		"gray":  len(data.Gray),
		"bans":  len(data.Bans),
		"bytes": len(buf),
	}

	s.pool.Go(func() {
		future.Respond(s.write(buf, logFields))
	})

	return future
}

func (s *Store) write(buf []byte, logFields logrus.Fields) error {
	if s.serialize {
		s.writeLock.Lock()
		defer s.writeLock.Unlock()
	}

	if err := writeFileAtomic(s.path, buf); err != nil {
		s.logger.WithError(err).Error("Writing peer store")
		return common.NewStoreErr("save", common.IOFailure, s.path, err)
	}

	s.logger.WithFields(logFields).Debug("Peer store written")

	return nil
}

// Load reads and decodes the file on the blocking pool.
func (s *Store) Load() *LoadFuture {
	future := &LoadFuture{
		DeferError: common.NewDeferError(),
	}

	s.pool.Go(func() {
		data, err := s.read()
		future.data = data
		future.Respond(err)
	})

	return future
}

func (s *Store) read() (*PeerData, error) {
	buf, err := ioutil.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, common.NewStoreErr("load", common.FileNotFound, s.path, err)
		}
		s.logger.WithError(err).Error("Reading peer store")
		return nil, common.NewStoreErr("load", common.IOFailure, s.path, err)
	}

	data, err := Decode(buf)
	if err != nil {
		s.logger.WithError(err).Error("Decoding peer store")
		return nil, common.NewStoreErr("load", common.DecodeFailure, s.path, err)
	}

	s.logger.WithFields(logrus.Fields{
		"white": len(data.White),
		"gray":  len(data.Gray),
		"bans":  len(data.Bans),
	}).Debug("Peer store read")

	return data, nil
}

// LoadPeers loads the file and returns its white and gray lists. Cancelling
// ctx stops the wait, not the read.
func (s *Store) LoadPeers(ctx context.Context) ([]*peers.Peer, []*peers.Peer, error) {
	future := s.Load()

	select {
	case <-future.Done():
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	data, err := future.Result()
	if err != nil {
		return nil, nil, err
	}

	return data.White, data.Gray, nil
}

// Wait blocks until every file operation handed to the pool has completed.
func (s *Store) Wait() {
	s.pool.Wait()
}
