package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rubusproject/rubus/internal/client/fetch"
	"github.com/rubusproject/rubus/internal/rubus"
)

var (
	fetchOffset uint32
	fetchCount  uint32
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <media-id-hex>",
	Short: "Fetch a range of pieces and print their byte sizes",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().Uint32Var(&fetchOffset, "offset", 0, "starting piece index")
	fetchCmd.Flags().Uint32Var(&fetchCount, "count", 1, "number of pieces to fetch")
}

func runFetch(_ *cobra.Command, args []string) error {
	id, err := rubus.ParseMediaIDHex(args[0])
	if err != nil {
		return fmt.Errorf("parsing media id: %w", err)
	}

	sess, err := fetch.Dial(context.Background(), serverAddr, authToken, 10*time.Second, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	mf, err := sess.Fetch(id, fetchOffset, fetchCount)
	if err != nil {
		return err
	}
	fmt.Printf("offset: %d\n", mf.Offset)
	for i := range mf.Video {
		fmt.Printf("piece %d: video=%dB audio=%dB\n", mf.Offset+uint32(i), len(mf.Video[i]), len(mf.Audio[i]))
	}
	return nil
}
