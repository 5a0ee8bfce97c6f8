package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// `taskcoach settings`
func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Reads and writes settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <section> <option>",
		Short: "Prints a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(defaultLogger())
			if err != nil {
				return err
			}
			value, err := a.settings.Get(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <section> <option> <value>",
		Short: "Changes a setting",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(defaultLogger())
			if err != nil {
				return err
			}
			a.settings.SetText(args[0], args[1], args[2])
			return a.close(false)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list [section]",
		Short: "Prints settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(defaultLogger())
			if err != nil {
				return err
			}
			sections := a.settings.Sections()
			if len(args) == 1 {
				sections = args
			}
			out := cmd.OutOrStdout()
			for _, section := range sections {
				values := a.settings.Section(section)
				options := make([]string, 0, len(values))
				for option := range values {
					options = append(options, option)
				}
				sort.Strings(options)
				for _, option := range options {
					fmt.Fprintf(out, "%s.%s = %s\n", section, option, values[option])
				}
			}
			return nil
		},
	})
	return cmd
}
