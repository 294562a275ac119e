package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kapu/polyglot-connect-go/internal/adapter"
	"github.com/kapu/polyglot-connect-go/internal/domain"
	"github.com/kapu/polyglot-connect-go/internal/service/catalog"
	"github.com/spf13/cobra"
)

func newBuildCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the catalog and print the summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			s.container.Catalog(s.ctx)
			report := s.container.Initializer.Report()

			summary := adapter.BuildSummary{
				Source:  s.container.Source.Name(),
				State:   s.container.Initializer.State().String(),
				Total:   report.Total,
				Emitted: report.Emitted,
			}
			for _, skip := range report.Skipped {
				summary.Skipped = append(summary.Skipped, adapter.SkipLine{
					Index:  skip.Index,
					ID:     skip.ID,
					Reason: skip.Err.Error(),
				})
			}

			out, err := s.container.Formatter.FormatBuildSummary(summary)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one resolved persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			connector, ok := s.container.Catalog(s.ctx).ByID(args[0])
			if !ok {
				return fmt.Errorf("persona %q not found", args[0])
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(connector)
			}

			out, err := s.container.Formatter.FormatCard(connector)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the resolved persona as JSON")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var language, role string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List personas, optionally filtered by language and role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			matches := s.container.Catalog(s.ctx).Select(language, role)
			out, err := s.container.Formatter.FormatList(matches)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&language, "language", domain.FilterAll, "Language filter")
	cmd.Flags().StringVar(&role, "role", domain.FilterAll, "Role filter (tutor, native, learner)")
	return cmd
}

func newFiltersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "Print the language and role selector tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			cat := s.container.Catalog(s.ctx)
			out, err := s.container.Formatter.FormatFilters(cat.Languages(), cat.Roles())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newFlagsCmd(opts *rootOptions) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Preload every flag image the catalog references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			codes := catalogFlagCodes(s.container.Catalog(s.ctx))
			flags := s.container.Flags
			flags.PreloadAll(s.ctx, codes)

			lines := make([]adapter.FlagLine, 0, len(codes))
			for _, code := range codes {
				line := adapter.FlagLine{
					Code:   code,
					URL:    flags.URL(code),
					Status: string(flags.Status(code)),
				}
				if line.Status == "" {
					line.Status = "skipped"
				}
				if check {
					exists := flags.Exists(s.ctx, code)
					line.Exists = &exists
				}
				lines = append(lines, line)
			}

			out, err := s.container.Formatter.FormatFlagReport(lines)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Also verify each flag with a HEAD request")
	return cmd
}

// catalogFlagCodes collects the distinct lower-cased flag codes in use,
// sorted for stable output.
func catalogFlagCodes(cat *catalog.Catalog) []string {
	seen := make(map[string]struct{})
	add := func(code string) {
		code = strings.ToLower(strings.TrimSpace(code))
		if code != "" {
			seen[code] = struct{}{}
		}
	}
	for _, c := range cat.Connectors() {
		add(c.FlagCode)
		for _, l := range c.NativeLanguages {
			add(l.FlagCode)
		}
		for _, l := range c.PracticeLanguages {
			add(l.FlagCode)
		}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
