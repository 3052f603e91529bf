package command

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/willco-1/cuprate/src/config"
	"github.com/willco-1/cuprate/src/peers"
	"github.com/willco-1/cuprate/src/peerstore"
)

//NewPruneCmd returns the command that drops lifted bans from a peer store
func NewPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune [file]",
		Short: "Drop lifted bans and duplicate gray peers from a peer store",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, args); err != nil {
				return err
			}
			if len(args) == 1 {
				return setPeerStore(args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return prune(cmd.OutOrStdout(), &_config.Peerbook)
		},
	}
	AddStoreFlags(cmd)
	return cmd
}

func prune(w io.Writer, conf *config.Config) error {
	store := peerstore.NewStore(conf.PeerStoreConfig())
	defer store.Wait()

	data, err := store.Load().Result()
	if err != nil {
		return err
	}

	white := peers.NewPeerList(data.White)

	pruned := &peerstore.PeerData{
		White: data.White,
		Gray:  []*peers.Peer{},
		Bans:  map[peers.BanID]uint64{},
	}
	for _, p := range data.Gray {
		if white.Contains(p.Addr) {
			continue
		}
		pruned.Gray = append(pruned.Gray, p)
	}
	for id, ms := range data.Bans {
		if ms == 0 {
			continue
		}
		pruned.Bans[id] = ms
	}

	if err := store.SaveData(pruned).Error(); err != nil {
		return err
	}

	droppedGray := len(data.Gray) - len(pruned.Gray)
	droppedBans := len(data.Bans) - len(pruned.Bans)

	conf.Logger().WithFields(logrus.Fields{
		"path":         store.Path(),
		"dropped_gray": droppedGray,
		"dropped_bans": droppedBans,
	}).Debug("Pruned peer store")

	_, err = fmt.Fprintf(w, "dropped %d gray peers and %d bans\n", droppedGray, droppedBans)
	return err
}
