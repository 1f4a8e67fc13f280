package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rubusproject/rubus/internal/client/fetch"
	"github.com/rubusproject/rubus/internal/rubus"
)

var infoCmd = &cobra.Command{
	Use:   "info <media-id-hex>",
	Short: "Print catalog metadata for one media id",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(_ *cobra.Command, args []string) error {
	id, err := rubus.ParseMediaIDHex(args[0])
	if err != nil {
		return fmt.Errorf("parsing media id: %w", err)
	}

	sess, err := fetch.Dial(context.Background(), serverAddr, authToken, 10*time.Second, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	info, err := sess.Info(id)
	if err != nil {
		return err
	}
	fmt.Printf("title:           %s\n", info.Title)
	fmt.Printf("resolution:      %dx%d\n", info.VideoWidth, info.VideoHeight)
	fmt.Printf("duration:        %ds\n", info.DurationSec)
	fmt.Printf("video encoding:  %s (%s)\n", info.VideoEncoding, info.VideoContainer)
	fmt.Printf("audio encoding:  %s (%s)\n", info.AudioEncoding, info.AudioContainer)
	return nil
}
