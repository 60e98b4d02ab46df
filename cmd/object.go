// Handles the "blobfs object" command and its subcommands.
package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/blobfs/blobfs/pkg/blobfs"
)

// objectCmd represents the object command
var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Object interaction",
	Long:  `Commands for inspecting and removing stored objects. Use "put" and "get" for content.`,
}

var objectListCmd = &cobra.Command{
	Use:   "list <container>",
	Short: "List the objects in a container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := blobManager.Provider.ListObjects(context.Background(), tenant(),
			blobfs.ListObjectsRequest{ContainerID: args[0]})
		if err != nil {
			return errors.Wrap(err, "List command failed")
		}
		for _, o := range resp.Objects {
			fmt.Printf("%s\t%d\n", o.ObjectID, o.ContentLength)
		}
		return nil
	},
}

var objectInfoCmd = &cobra.Command{
	Use:   "info <container> <object>",
	Short: "Show object metadata",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := blobManager.Provider.ObjectInfo(context.Background(), tenant(), args[0], args[1])
		if err != nil {
			return errors.Wrap(err, "Info command failed")
		}
		fmt.Printf("object:   %s/%s\n", meta.ContainerID, meta.ObjectID)
		fmt.Printf("size:     %d\n", meta.ContentLength)
		if meta.LastModified != nil {
			fmt.Printf("modified: %s\n", meta.LastModified)
		}
		return nil
	},
}

var objectRmCmd = &cobra.Command{
	Use:   "rm <container> <object> [object...]",
	Short: "Remove objects from a container",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := blobManager.Provider.RemoveObjects(context.Background(), tenant(), args[0], args[1:])
		if err != nil {
			return errors.Wrap(err, "Rm command failed")
		}
		for _, r := range results {
			blobManager.Logger.Error("Not removed: " + r.Key + ": " + r.Error)
		}
		if len(results) > 0 {
			return errors.New("some objects were not removed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(objectCmd)
	objectCmd.AddCommand(objectListCmd)
	objectCmd.AddCommand(objectInfoCmd)
	objectCmd.AddCommand(objectRmCmd)
}
