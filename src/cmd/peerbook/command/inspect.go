package command

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"github.com/ugorji/go/codec"
	"github.com/willco-1/cuprate/src/config"
	"github.com/willco-1/cuprate/src/peers"
	"github.com/willco-1/cuprate/src/peerstore"
)

//NewInspectCmd returns the command that prints the content of a peer store
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the content of a peer store",
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
			return inspect(cmd.OutOrStdout(), &_config.Peerbook, _config.JSON)
		},
	}
	AddStoreFlags(cmd)
	cmd.Flags().Bool("json", _config.JSON, "Print the peer store as JSON")
	return cmd
}

type inspectReport struct {
	Path  string                 `json:"path"`
	White []*peers.Peer          `json:"white"`
	Gray  []*peers.Peer          `json:"gray"`
	Bans  map[peers.BanID]uint64 `json:"bans"`
}

func inspect(w io.Writer, conf *config.Config, asJSON bool) error {
	store := peerstore.NewStore(conf.PeerStoreConfig())
	defer store.Wait()

	data, err := store.Load().Result()
	if err != nil {
		return err
	}

	report := inspectReport{
		Path:  store.Path(),
		White: data.White,
		Gray:  data.Gray,
		Bans:  data.Bans,
	}

	if asJSON {
		jh := new(codec.JsonHandle)
		jh.Canonical = true
		jh.Indent = 2

		var buf []byte
		if err := codec.NewEncoderBytes(&buf, jh).Encode(report); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, string(buf))
		return err
	}

	fmt.Fprintf(w, "peer store: %s\n", report.Path)
	fmt.Fprintf(w, "white: %d gray: %d bans: %d\n", len(report.White), len(report.Gray), len(report.Bans))

	printPeers(w, "white", report.White)
	printPeers(w, "gray", report.Gray)

	if len(report.Bans) > 0 {
		fmt.Fprintln(w, "bans:")

		ids := make([]string, 0, len(report.Bans))
		for id := range report.Bans {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)

		for _, id := range ids {
			fmt.Fprintf(w, "  %s %dms\n", id, report.Bans[peers.BanID(id)])
		}
	}

	return nil
}

func printPeers(w io.Writer, name string, list []*peers.Peer) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", name)
	for _, p := range list {
		fmt.Fprintf(w, "  %s id=%d last_seen=%d pruning_seed=%d rpc_port=%d rpc_credits=%d\n",
			p.Addr, p.ID, p.LastSeen, p.PruningSeed, p.RPCPort, p.RPCCreditsPerHash)
	}
}
