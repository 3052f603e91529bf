package command

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/willco-1/cuprate/src/config"
	"github.com/willco-1/cuprate/src/peers"
	"github.com/willco-1/cuprate/src/peerstore"
)

//NewExportCmd returns the command that writes the peers of a peer store to a
//JSON seed file
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file] <out.json>",
		Short: "Export the peers of a peer store as a JSON seed file",
		Args:  cobra.RangeArgs(1, 2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, args); err != nil {
				return err
			}
			if len(args) == 2 {
				return setPeerStore(args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return export(cmd.OutOrStdout(), &_config.Peerbook, args[len(args)-1])
		},
	}
	AddStoreFlags(cmd)
	return cmd
}

// export writes the white peers, then the gray ones.
func export(w io.Writer, conf *config.Config, out string) error {
	store := peerstore.NewStore(conf.PeerStoreConfig())
	defer store.Wait()

	data, err := store.Load().Result()
	if err != nil {
		return err
	}

	list := make([]*peers.Peer, 0, len(data.White)+len(data.Gray))
	list = append(list, data.White...)
	list = append(list, data.Gray...)

	if err := peers.NewJSONPeers(out).Write(list); err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "exported %d peers to %s\n", len(list), out)
	return err
}
