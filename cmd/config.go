package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/wrenfolk/edascope/internal/config"
	"github.com/wrenfolk/edascope/internal/utils"
)

var cfgInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective settings, or write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgInit {
			path, err := cfgpkg.Save(cfgpkg.Default(), cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Wrote default config to %s\n", path)
			return nil
		}

		data, err := utils.PrettyJSON(cfg)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&cfgInit, "init", false, "write a config file with the default settings")
}
