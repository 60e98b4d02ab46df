// Handles the "blobfs put" command
package cmd

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/blobfs/blobfs/pkg/blobfs"
)

// Filled in by cobra argument parsing in init()
var putCmdConfig struct {
	chunkSize int64
	cancel    bool
}

var putCmd = &cobra.Command{
	Use:   "put <container> <object> [file]",
	Short: "Upload an object",
	Long: `Upload a file as an object. By default the whole content goes up in a
single call; with --chunk-size the upload is split into an ordered chunk
stream. With --cancel, an in-progress upload is aborted and its partial file
removed instead (no source file needed).`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if putCmdConfig.cancel {
			req := blobfs.PutChunkRequest{
				Chunk:           blobfs.Chunk{ContainerID: args[0], ObjectID: args[1]},
				CancelAndRemove: true,
			}
			if err := blobManager.Provider.PutChunk(ctx, tenant(), req); err != nil {
				return errors.Wrap(err, "Cancel failed")
			}
			blobManager.Logger.Info("Canceled upload of " + args[0] + "/" + args[1])
			return nil
		}

		if len(args) < 3 {
			return errors.New("a source file is required unless --cancel is set")
		}
		data, err := os.ReadFile(args[2])
		if err != nil {
			return errors.Wrap(err, "Could not read source file")
		}

		size := putCmdConfig.chunkSize
		if size <= 0 || size >= int64(len(data)) {
			size = int64(len(data))
		}

		first := blobfs.Chunk{
			ContainerID: args[0],
			ObjectID:    args[1],
			Bytes:       data[:size],
			Offset:      0,
			IsLast:      size == int64(len(data)),
		}
		resp, err := blobManager.Provider.PutObject(ctx, tenant(), blobfs.PutObjectRequest{Chunk: first})
		if err != nil {
			return errors.Wrap(err, "Put command failed")
		}

		for offset := size; offset < int64(len(data)); offset += size {
			end := offset + size
			if end > int64(len(data)) {
				end = int64(len(data))
			}
			chunk := blobfs.Chunk{
				ContainerID: args[0],
				ObjectID:    args[1],
				Bytes:       data[offset:end],
				Offset:      uint64(offset),
				IsLast:      end == int64(len(data)),
			}
			req := blobfs.PutChunkRequest{Chunk: chunk, StreamID: resp.StreamID}
			if err := blobManager.Provider.PutChunk(ctx, tenant(), req); err != nil {
				return errors.Wrap(err, "Put command failed")
			}
		}

		blobManager.Logger.Info("Uploaded " + args[0] + "/" + args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)

	putCmd.Flags().Int64VarP(&putCmdConfig.chunkSize, "chunk-size", "c", 0, "split the upload into chunks of this many bytes (0 = single call)")
	putCmd.Flags().BoolVar(&putCmdConfig.cancel, "cancel", false, "abort an in-progress upload and remove the partial file")
}
