package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rubusproject/rubus/internal/client/fetch"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the server's playback catalog",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	sess, err := fetch.Dial(context.Background(), serverAddr, authToken, 10*time.Second, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	list, err := sess.List()
	if err != nil {
		return err
	}
	for id, title := range list {
		fmt.Printf("%s\t%s\n", id.Hex(), title)
	}
	return nil
}
