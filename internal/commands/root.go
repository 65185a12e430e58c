package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mobileops/glogread/internal/config"
)

// NewRootCommand creates the root command, binds its flags through viper
// with a GLOGREAD_ environment prefix, and wires the read and version
// subcommands.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := &cobra.Command{
		Version: version,
		Use:     "glogread",
		Short:   "Decode Glog binary log archives",
		Long: `glogread extracts a zip archive of Glog-format log files, decodes each
entry (with optional ECDH/AES-128-CFB decryption and continuous deflate
decompression), and writes the surviving records as human-readable lines.`,
		TraverseChildren: true,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Must provide a subcommand. Run 'glogread --help' for usage.")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			viper.SetEnvPrefix(cmd.Root().Name())
			viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
			viper.AutomaticEnv()

			if err := viper.BindPFlags(cmd.Root().Flags()); err != nil {
				return fmt.Errorf("binding root flags: %w", err)
			}
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("binding command flags: %w", err)
			}

			return nil
		},
	}

	root.PersistentFlags().StringVarP(&cfg.Key, "key", "k", "", "Server secp256k1 private key (64 hex chars)")
	root.PersistentFlags().StringVarP(&cfg.KeyFile, "key-file", "f", "", "Path to a file containing the server private key")
	root.PersistentFlags().IntVarP(&cfg.Parallel, "parallel", "j", runtime.NumCPU(), "Number of files to decode concurrently")
	root.PersistentFlags().BoolVar(&cfg.JSONLogs, "json-logs", false, "Emit structured JSON logs instead of console output")

	root.AddCommand(NewReadCommand(cfg), NewVersionCommand(version))

	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().SortFlags = false
	root.SetVersionTemplate("{{ .Version }}\n")

	return root
}
