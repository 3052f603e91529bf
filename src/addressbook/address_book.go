package addressbook

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
	"github.com/willco-1/cuprate/src/common"
	"github.com/willco-1/cuprate/src/config"
	"github.com/willco-1/cuprate/src/peers"
	"github.com/willco-1/cuprate/src/peerstore"
)

var (
	// ErrShutdown is returned by the methods of an AddressBook that has been
	// shut down.
	ErrShutdown = errors.New("address book shut down")
	// ErrBanned ...
	ErrBanned = errors.New("peer is banned")
	// ErrListFull ...
	ErrListFull = errors.New("peer list full")
)

// Stats ...
type Stats struct {
	White int
	Gray  int
	Bans  int
}

type request struct {
	fn     func()
	doneCh chan struct{}
}

// AddressBook holds the white list, the gray list and the ban table of a node.
type AddressBook struct {
	conf   *config.Config
	store  *peerstore.Store
	clock  clock.Clock
	logger *logrus.Entry

	white *peers.PeerList
	gray  *peers.PeerList
	bans  peerstore.BanTable

	// last checkpoint, only accessed from the loop
	pending *peerstore.SaveFuture

	reqCh        chan request
	shutdownCh   chan struct{}
	doneCh       chan struct{}
	shutdownOnce sync.Once

	startLock sync.Mutex
	started   bool
}

// NewAddressBook creates an empty AddressBook persisted to store.
func NewAddressBook(conf *config.Config, store *peerstore.Store) *AddressBook {
	return &AddressBook{
		conf:       conf,
		store:      store,
		clock:      conf.GetClock(),
		logger:     conf.Logger(),
		white:      peers.NewPeerList(nil),
		gray:       peers.NewPeerList(nil),
		bans:       peerstore.BanTable{},
		reqCh:      make(chan request),
		shutdownCh: make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Init restores the state from the peer store. It must be called before Run.
func (ab *AddressBook) Init(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(ab.store.Path()), 0700); err != nil {
		return err
	}

	future := ab.store.Load()

	select {
	case <-future.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	data, err := future.Result()
	switch {
	case common.IsStore(err, common.FileNotFound):
		ab.logger.WithField("path", ab.store.Path()).Info("No peer store, starting with an empty address book")
		return ab.loadSeeds()
	case err != nil:
		return err
	}

	for _, p := range data.White {
		ab.addSome(ab.white, p, ab.conf.MaxWhiteList)
	}
	for _, p := range data.Gray {
		if ab.white.Contains(p.Addr) {
			continue
		}
		ab.addSome(ab.gray, p, ab.conf.MaxGrayList)
	}

	now := ab.clock.Now()
	expired := 0
	for id, expiry := range peerstore.RestoreBans(data.Bans, now) {
		if !expiry.After(now) {
			expired++
			continue
		}
		ab.bans[id] = expiry
	}

	ab.logger.WithFields(logrus.Fields{
		"white":        ab.white.Len(),
		"gray":         ab.gray.Len(),
		"bans":         len(ab.bans),
		"expired_bans": expired,
	}).Info("Loaded address book")

	return nil
}

func (ab *AddressBook) addSome(list *peers.PeerList, p *peers.Peer, max int) {
	if max > 0 && list.Len() >= max {
		return
	}
	list.Add(p)
}

func (ab *AddressBook) loadSeeds() error {
	path := ab.conf.SeedPath()
	if path == "" {
		return nil
	}

	seeds, err := peers.NewJSONPeers(path).Peers()
	if err != nil {
		if os.IsNotExist(err) {
			ab.logger.WithField("path", path).Debug("No seed file")
			return nil
		}
		return err
	}

	for _, p := range seeds {
		ab.addSome(ab.gray, p, ab.conf.MaxGrayList)
	}

	ab.logger.WithField("seeds", ab.gray.Len()).Info("Seeded gray list")

	return nil
}

// RunAsync calls Run in a separate goroutine.
func (ab *AddressBook) RunAsync() {
	ab.markStarted()
	go ab.run()
}

// Run invokes the event loop of the address book. It returns after Shutdown.
func (ab *AddressBook) Run() {
	ab.markStarted()
	ab.run()
}

func (ab *AddressBook) markStarted() {
	ab.startLock.Lock()
	defer ab.startLock.Unlock()
	ab.started = true
}

func (ab *AddressBook) isStarted() bool {
	ab.startLock.Lock()
	defer ab.startLock.Unlock()
	return ab.started
}

func (ab *AddressBook) run() {
	defer close(ab.doneCh)

	var tickCh <-chan time.Time
	if ab.conf.SaveInterval > 0 {
		ticker := ab.clock.Ticker(ab.conf.SaveInterval)
		defer ticker.Stop()
		tickCh = ticker.C
	}

	for {
		select {
		case req := <-ab.reqCh:
			req.fn()
			close(req.doneCh)
		case <-tickCh:
			ab.checkpoint()
		case <-ab.shutdownCh:
			return
		}
	}
}

// exec runs fn on the event loop and waits for it to return.
func (ab *AddressBook) exec(fn func()) error {
	req := request{
		fn:     fn,
		doneCh: make(chan struct{}),
	}

	select {
	case ab.reqCh <- req:
	case <-ab.shutdownCh:
		return ErrShutdown
	}

	<-req.doneCh

	return nil
}

// checkpoint saves the state unless the previous save is still running.
func (ab *AddressBook) checkpoint() *peerstore.SaveFuture {
	if ab.pending != nil {
		select {
		case <-ab.pending.Done():
		default:
			ab.logger.Debug("Previous save still running, skipping checkpoint")
			return ab.pending
		}
	}

	future := ab.store.Save(ab.white, ab.gray, ab.bans)
	ab.pending = future

	go func() {
		if err := future.Error(); err != nil {
			ab.logger.WithError(err).Warn("Saving address book")
		}
	}()

	return future
}

// Checkpoint saves the state now. When a save is already running, its future
// is returned instead.
func (ab *AddressBook) Checkpoint() (*peerstore.SaveFuture, error) {
	var future *peerstore.SaveFuture
	err := ab.exec(func() {
		future = ab.checkpoint()
	})
	return future, err
}

// Shutdown stops the event loop, saves the state one last time and waits for
// every pending file operation to complete. It returns the error of the final
// save. Subsequent calls do nothing and return nil.
func (ab *AddressBook) Shutdown() error {
	var err error

	ab.shutdownOnce.Do(func() {
		ab.logger.Debug("Shutdown")

		close(ab.shutdownCh)
		if ab.isStarted() {
			<-ab.doneCh
		}

		// let a running checkpoint land first so the final save wins
		if ab.pending != nil {
			ab.pending.Error()
		}

		err = ab.store.Save(ab.white, ab.gray, ab.bans).Error()
		if err != nil {
			ab.logger.WithError(err).Error("Saving address book on shutdown")
		}

		ab.store.Wait()
	})

	return err
}

// AddWhitePeer records a peer the node successfully connected to. The peer is
// removed from the gray list.
func (ab *AddressBook) AddWhitePeer(p *peers.Peer) error {
	var res error
	err := ab.exec(func() {
		if ab.isBanned(p.Addr) {
			res = ErrBanned
			return
		}
		if !ab.white.Contains(p.Addr) && ab.full(ab.white, ab.conf.MaxWhiteList) {
			res = ErrListFull
			return
		}
		ab.gray.Remove(p.Addr)
		ab.white.Add(p)
	})
	if err != nil {
		return err
	}
	return res
}

// AddGrayPeer records a peer the node heard of. Peers already in the white
// list are left there.
func (ab *AddressBook) AddGrayPeer(p *peers.Peer) error {
	var res error
	err := ab.exec(func() {
		if ab.isBanned(p.Addr) {
			res = ErrBanned
			return
		}
		if ab.white.Contains(p.Addr) {
			return
		}
		if !ab.gray.Contains(p.Addr) && ab.full(ab.gray, ab.conf.MaxGrayList) {
			res = ErrListFull
			return
		}
		ab.gray.Add(p)
	})
	if err != nil {
		return err
	}
	return res
}

func (ab *AddressBook) full(list *peers.PeerList, max int) bool {
	return max > 0 && list.Len() >= max
}

// Ban bans every address sharing addr's BanID for d, and forgets the peers
// reached through them.
func (ab *AddressBook) Ban(addr peers.NetAddr, d time.Duration) error {
	return ab.exec(func() {
		id := addr.BanID()
		ab.bans[id] = ab.clock.Now().Add(d)

		removed := len(ab.white.RemoveByBanID(id)) + len(ab.gray.RemoveByBanID(id))

		ab.logger.WithFields(logrus.Fields{
			"ban_id":  id,
			"for":     d,
			"removed": removed,
		}).Debug("Ban")
	})
}

// Unban lifts a ban.
func (ab *AddressBook) Unban(id peers.BanID) error {
	return ab.exec(func() {
		delete(ab.bans, id)
	})
}

// IsBanned tells whether addr is currently banned.
func (ab *AddressBook) IsBanned(addr peers.NetAddr) (bool, error) {
	var res bool
	err := ab.exec(func() {
		res = ab.isBanned(addr)
	})
	return res, err
}

// isBanned also forgets the ban of addr once it has lifted.
func (ab *AddressBook) isBanned(addr peers.NetAddr) bool {
	id := addr.BanID()
	expiry, ok := ab.bans[id]
	if !ok {
		return false
	}
	if ab.clock.Now().Before(expiry) {
		return true
	}
	delete(ab.bans, id)
	return false
}

// WhitePeers returns a copy of the white list.
func (ab *AddressBook) WhitePeers() ([]peers.Peer, error) {
	return ab.copyList(ab.white)
}

// GrayPeers returns a copy of the gray list.
func (ab *AddressBook) GrayPeers() ([]peers.Peer, error) {
	return ab.copyList(ab.gray)
}

func (ab *AddressBook) copyList(list *peers.PeerList) ([]peers.Peer, error) {
	var res []peers.Peer
	err := ab.exec(func() {
		for _, p := range list.Peers() {
			res = append(res, *p)
		}
	})
	return res, err
}

// Stats returns the size of the lists and of the ban table.
func (ab *AddressBook) Stats() (Stats, error) {
	var res Stats
	err := ab.exec(func() {
		res = Stats{
			White: ab.white.Len(),
			Gray:  ab.gray.Len(),
			Bans:  len(ab.bans),
		}
	})
	return res, err
}
