package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigName = "sqlc.yaml"

func main() {
	var (
		baseName string
		dryRun   bool
	)

	root := &cobra.Command{
		Use:          "sqlc-gen",
		Short:        "Generate query packages for every sql file listed in .sqlc.base.yaml",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base := viper.New()
			base.SetConfigName(baseName)
			base.SetConfigType("yaml")
			base.AddConfigPath(".")
			if err := base.ReadInConfig(); err != nil {
				return errors.Wrap(err, "read base config")
			}

			g, err := loadGenerator(base)
			if err != nil {
				return err
			}
			files, err := g.queryFiles()
			if err != nil {
				return err
			}
			defer func() { _ = os.Remove(defaultConfigName) }()

			for _, file := range files {
				content, err := g.render(file)
				if err != nil {
					return errors.Wrapf(err, "render config for %s", file)
				}
				if dryRun {
					fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s\n", file, content)
					continue
				}
				if err := writeConfig(defaultConfigName, content); err != nil {
					return err
				}
				if err := callSqlc(defaultConfigName); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s file complete\n", file)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "done")
			return nil
		},
	}
	root.Flags().StringVar(&baseName, "base", ".sqlc.base", "base config name (without extension)")
	root.Flags().BoolVar(&dryRun, "dry-run", false, "print generated configs instead of calling sqlc")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
