// Handles the "blobfs container" command and its subcommands.
package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// containerCmd represents the container command
var containerCmd = &cobra.Command{
	Use:   "container",
	Short: "Container interaction",
	Long:  `Commands for creating, inspecting, and removing containers.`,
}

var containerCreateCmd = &cobra.Command{
	Use:   "create <container>",
	Short: "Create a container (idempotent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := blobManager.Provider.CreateContainer(context.Background(), tenant(), args[0]); err != nil {
			return errors.Wrap(err, "Create command failed")
		}
		blobManager.Logger.Info("Created container: " + args[0])
		return nil
	},
}

var containerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all containers of the tenant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		containers, err := blobManager.Provider.ListContainers(context.Background(), tenant())
		if err != nil {
			return errors.Wrap(err, "List command failed")
		}
		for _, c := range containers {
			fmt.Println(c.ContainerID)
		}
		return nil
	},
}

var containerInfoCmd = &cobra.Command{
	Use:   "info <container>",
	Short: "Show container metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := blobManager.Provider.ContainerInfo(context.Background(), tenant(), args[0])
		if err != nil {
			return errors.Wrap(err, "Info command failed")
		}
		fmt.Printf("container: %s\n", meta.ContainerID)
		if meta.CreatedAt != nil {
			fmt.Printf("created:   %s\n", meta.CreatedAt)
		}
		return nil
	},
}

var containerRmCmd = &cobra.Command{
	Use:   "rm <container> [container...]",
	Short: "Remove containers and everything in them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := blobManager.Provider.RemoveContainers(context.Background(), tenant(), args)
		if err != nil {
			return errors.Wrap(err, "Rm command failed")
		}
		for _, r := range results {
			blobManager.Logger.Error("Not removed: " + r.Key + ": " + r.Error)
		}
		if len(results) > 0 {
			return errors.New("some containers were not removed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(containerCmd)
	containerCmd.AddCommand(containerCreateCmd)
	containerCmd.AddCommand(containerListCmd)
	containerCmd.AddCommand(containerInfoCmd)
	containerCmd.AddCommand(containerRmCmd)
}
