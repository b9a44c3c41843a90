package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cuesheet/internal/config"
	"cuesheet/internal/cue"
	"cuesheet/internal/patterns"
	"cuesheet/internal/store"
)

func newPatternsCommand(ctx *commandContext) *cobra.Command {
	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect and curate learned enrichment rules",
	}

	patternsCmd.AddCommand(newPatternsListCommand(ctx))
	patternsCmd.AddCommand(newPatternsConfirmCommand(ctx))
	patternsCmd.AddCommand(newPatternsOverrideCommand(ctx))
	patternsCmd.AddCommand(newPatternsDeleteCommand(ctx))
	patternsCmd.AddCommand(newPatternsRecordCommand(ctx))

	return patternsCmd
}

func newPatternsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List learned rules ordered by confidence",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				engine := newPatternsEngine(cfg, st)
				rules, err := engine.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, rules)
				}
				out := cmd.OutOrStdout()
				if len(rules) == 0 {
					fmt.Fprintln(out, "No learned patterns yet")
					return nil
				}
				headers := []string{"ID", "Type", "Condition", "Field", "Value", "Conf", "Applied", "Confirmed"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}
				rows := make([][]string, 0, len(rules))
				for _, p := range rules {
					rows = append(rows, []string{
						fmt.Sprintf("%d", p.ID),
						p.Type,
						p.Condition,
						p.Field,
						p.Value,
						fmt.Sprintf("%.2f", p.Confidence),
						fmt.Sprintf("%d", p.TimesApplied),
						fmt.Sprintf("%d", p.TimesConfirmed),
					})
				}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit rules as JSON")
	return cmd
}

func newPatternsConfirmCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm an auto-filled value, strengthening its rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePatternID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				p, err := newPatternsEngine(cfg, st).Confirm(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pattern #%d confirmed (confidence %.2f)\n", p.ID, p.Confidence)
				return nil
			})
		},
	}
}

func newPatternsOverrideCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "override <id>",
		Short: "Record that an auto-filled value was replaced, weakening its rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePatternID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				p, err := newPatternsEngine(cfg, st).Override(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pattern #%d weakened (confidence %.2f)\n", p.ID, p.Confidence)
				return nil
			})
		},
	}
}

func newPatternsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a learned rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePatternID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if err := newPatternsEngine(cfg, st).Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pattern #%d deleted\n", id)
				return nil
			})
		},
	}
}

func newPatternsRecordCommand(ctx *commandContext) *cobra.Command {
	var library string
	var catalogPrefix string
	var trackType string

	cmd := &cobra.Command{
		Use:   "record <field> <value>",
		Short: "Record a manual field correction so consistent fixes become rules",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := parseFieldKey(args[0])
			if err != nil {
				return err
			}
			value := strings.TrimSpace(args[1])
			if value == "" {
				return fmt.Errorf("correction value must not be empty")
			}

			cc := patterns.ClipContext{
				Library:       strings.TrimSpace(library),
				CatalogPrefix: strings.TrimSpace(catalogPrefix),
				TrackType:     strings.TrimSpace(trackType),
			}
			if cc.Library == "" && cc.CatalogPrefix == "" && cc.TrackType == "" {
				return fmt.Errorf("one of --library, --catalog-prefix, or --track-type is required")
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if err := newPatternsEngine(cfg, st).RecordCorrection(cmd.Context(), cc, field, value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s correction for %s\n", field, cc.Key())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&library, "library", "", "Production library the corrected clip belongs to")
	cmd.Flags().StringVar(&catalogPrefix, "catalog-prefix", "", "Catalog code prefix of the corrected clip")
	cmd.Flags().StringVar(&trackType, "track-type", "", "Track type of the corrected clip")
	return cmd
}

func parsePatternID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pattern id %q", raw)
	}
	return id, nil
}

func parseFieldKey(raw string) (cue.FieldKey, error) {
	candidate := cue.FieldKey(strings.ToLower(strings.TrimSpace(raw)))
	for _, key := range cue.EnrichableFields {
		if key == candidate {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", raw)
}
