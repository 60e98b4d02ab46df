// Handles the "blobfs get" command
package cmd

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/blobfs/blobfs/pkg/blobfs"
)

// Filled in by cobra argument parsing in init()
var getCmdConfig struct {
	rangeStart int64
	rangeEnd   int64
	output     string
}

var getCmd = &cobra.Command{
	Use:   "get <container> <object>",
	Short: "Download an object or a byte range of it",
	Long: `Download an object to stdout (or --output). The --range-start and
--range-end bounds are inclusive byte positions; an end past the object is
clamped to its length.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := blobfs.GetObjectRequest{
			ContainerID: args[0],
			ObjectID:    args[1],
		}
		if getCmdConfig.rangeStart >= 0 {
			start := uint64(getCmdConfig.rangeStart)
			req.RangeStart = &start
		}
		if getCmdConfig.rangeEnd >= 0 {
			end := uint64(getCmdConfig.rangeEnd)
			req.RangeEnd = &end
		}

		resp, err := blobManager.Provider.GetObject(context.Background(), tenant(), req)
		if err != nil {
			return errors.Wrap(err, "Get command failed")
		}

		if getCmdConfig.output == "" {
			_, err = os.Stdout.Write(resp.InitialChunk.Bytes)
			return err
		}
		if err := os.WriteFile(getCmdConfig.output, resp.InitialChunk.Bytes, 0644); err != nil {
			return errors.Wrap(err, "Could not write output file")
		}
		blobManager.Logger.Info("Wrote " + getCmdConfig.output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().Int64Var(&getCmdConfig.rangeStart, "range-start", -1, "first byte to return (inclusive)")
	getCmd.Flags().Int64Var(&getCmdConfig.rangeEnd, "range-end", -1, "last byte to return (inclusive)")
	getCmd.Flags().StringVarP(&getCmdConfig.output, "output", "o", "", "write the content to this file instead of stdout")
}
