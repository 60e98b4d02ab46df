// Root of command-line argument parsing.
// This file was based off the standard cobra template, see
// https://github.com/spf13/cobra
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blobfs/blobfs/pkg/blobfs"
	"github.com/blobfs/blobfs/pkg/blobmgr"
)

var cfgFile string
var rootDir string
var tenantID string

var blobManager *blobmgr.Manager

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blobfs",
	Short: "Filesystem-backed container/object storage",
	Long: `Container and object storage on a local filesystem. Every tenant is
confined to its own subdirectory of the configured backing root.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		mgrArgs := map[string]interface{}{}
		if cfgFile != "" {
			mgrArgs["config-file"] = cfgFile
		}

		var err error
		blobManager, err = blobmgr.NewManager(mgrArgs)
		if err != nil {
			fmt.Printf("Failed to initialize blobfs manager: %v\n", err)
			os.Exit(1)
		}
		if rootDir != "" {
			blobManager.Cfg.Set("root", rootDir)
		}
		if tenantID != "" {
			blobManager.Cfg.Set("tenant", tenantID)
		}

		err = blobManager.Provider.RegisterTenant(context.Background(), tenant(),
			map[string]string{blobfs.RootOption: blobManager.Cfg.GetString("root")})
		if err != nil {
			blobManager.Logger.Error(err)
			os.Exit(1)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		blobManager.Destroy()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by blobfs.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if blobManager == nil || blobManager.Logger == nil {
			fmt.Printf("%v\n", err)
		} else {
			blobManager.Logger.Error(err)
		}
		os.Exit(1)
	}
}

// tenant is the identity every subcommand operates as.
func tenant() string {
	return blobManager.Cfg.GetString("tenant")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/blobfs.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "backing directory for tenant data (default /tmp)")
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant", "", "tenant identity to operate as")
}
