// Command patchbayconf validates, prints, and seeds broker configuration
// files. It exits 0 on success, 2 when the configuration itself is invalid,
// and 1 for any other failure.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/patchbay-lx/patchbay"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor distinguishes bad configuration (2) from operational failures
// such as unreadable files (1).
func exitCodeFor(err error) int {
	var fieldErr *patchbay.FieldError
	var decodeErr *patchbay.DecodeError
	if errors.As(err, &fieldErr) || errors.As(err, &decodeErr) {
		return 2
	}
	return 1
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "patchbayconf",
		Short:         "Inspect and manage broker configuration files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().String("format", "", "Config format: json, yaml, or toml (default: infer from extension)")
	rootCmd.PersistentFlags().String("cid", "", "Default broker CID as a UUID (default: random)")

	rootCmd.AddCommand(newCheckCmd(), newPrintCmd(), newInitCmd())
	return rootCmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "check <config-file>",
		Short:        "Validate a configuration file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := loaderFromFlags(cmd)
			if err != nil {
				return err
			}
			if _, err := loader.LoadFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", args[0])
			return nil
		},
	}
}

func newPrintCmd() *cobra.Command {
	printCmd := &cobra.Command{
		Use:          "print [config-file]",
		Short:        "Print the effective settings a config file produces",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := loaderFromFlags(cmd)
			if err != nil {
				return err
			}

			defaultsOnly, _ := cmd.Flags().GetBool("defaults")
			var settings *patchbay.Settings
			switch {
			case defaultsOnly:
				settings = loader.Defaults()
			case len(args) == 1:
				settings, err = loader.LoadFile(args[0])
				if err != nil {
					return err
				}
			default:
				return errors.New("a config file argument or --defaults is required")
			}

			var opts []patchbay.DumpOption
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				opts = append(opts, patchbay.AsJSON())
			}
			if origins, _ := cmd.Flags().GetBool("origins"); origins {
				opts = append(opts, patchbay.WithOrigins())
			}
			return patchbay.DumpEffective(cmd.OutOrStdout(), settings, opts...)
		},
	}
	printCmd.Flags().Bool("defaults", false, "Print the built-in defaults instead of loading a file")
	printCmd.Flags().Bool("json", false, "Print as a reloadable JSON document")
	printCmd.Flags().Bool("origins", false, "Annotate each setting with where its value came from")
	return printCmd
}

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:          "init <config-file>",
		Short:        "Seed a config file with the default settings",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := loaderFromFlags(cmd)
			if err != nil {
				return err
			}
			path := args[0]

			if force, _ := cmd.Flags().GetBool("force"); force {
				if err := patchbay.WriteConfigFile(path, loader.Defaults()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				return nil
			}

			created, err := patchbay.EnsureConfigFile(path, loader.Defaults())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, keeping it (use --force to overwrite)\n", path)
			}
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return initCmd
}

// loaderFromFlags builds a loader from the persistent --format and --cid
// flags.
func loaderFromFlags(cmd *cobra.Command) (*patchbay.Loader, error) {
	loader := patchbay.NewLoader()

	if cidStr, _ := cmd.Flags().GetString("cid"); cidStr != "" {
		cid, err := uuid.Parse(cidStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --cid: %w", err)
		}
		loader = loader.WithDefaultCID(cid)
	}

	if formatStr, _ := cmd.Flags().GetString("format"); formatStr != "" {
		format, err := parseFormat(formatStr)
		if err != nil {
			return nil, err
		}
		loader = loader.WithFormat(format)
	}

	return loader, nil
}

func parseFormat(s string) (patchbay.Format, error) {
	switch s {
	case "json":
		return patchbay.FormatJSON, nil
	case "yaml", "yml":
		return patchbay.FormatYAML, nil
	case "toml":
		return patchbay.FormatTOML, nil
	default:
		return patchbay.FormatJSON, fmt.Errorf("unknown format %q (want json, yaml, or toml)", s)
	}
}
