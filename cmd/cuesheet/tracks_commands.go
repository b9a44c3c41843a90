package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cuesheet/internal/config"
	"cuesheet/internal/store"
	"cuesheet/internal/trackdb"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	tracksCmd := &cobra.Command{
		Use:   "tracks",
		Short: "Query and teach the learned track database",
	}

	tracksCmd.AddCommand(newTracksSearchCommand(ctx))
	tracksCmd.AddCommand(newTracksMatchCommand(ctx))
	tracksCmd.AddCommand(newTracksLearnCommand(ctx))

	return tracksCmd
}

func newTracksSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var limit int

	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Search learned tracks by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				cleaned := trackdb.CleanName(args[0])
				words := strings.Fields(cleaned)
				if len(words) == 0 {
					return fmt.Errorf("nothing searchable in %q", args[0])
				}
				tracks, err := st.SearchTracks(cmd.Context(), words, limit)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, tracks)
				}
				out := cmd.OutOrStdout()
				if len(tracks) == 0 {
					fmt.Fprintln(out, "No matching tracks")
					return nil
				}
				headers := []string{"ID", "Track", "Catalog", "Composer", "Publisher", "Library", "Seen"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight}
				rows := make([][]string, 0, len(tracks))
				for _, t := range tracks {
					rows = append(rows, []string{
						fmt.Sprintf("%d", t.ID),
						t.TrackName,
						t.CatalogCode,
						t.Composer,
						t.Publisher,
						t.Library,
						fmt.Sprintf("%d", t.TimesSeen),
					})
				}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit tracks as JSON")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of results")
	return cmd
}

func newTracksMatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "match <clip-name>",
		Short: "Resolve a clip name the way the import enrichment pass would",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				match, err := trackdb.NewLookup(st, nil).Match(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if match == nil {
					fmt.Fprintln(out, "No confident match")
					return nil
				}
				t := match.Track
				fmt.Fprintf(out, "Matched %q (score %.2f)\n", t.TrackName, match.Score)
				if t.CatalogCode != "" {
					fmt.Fprintf(out, "  Catalog:   %s\n", t.CatalogCode)
				}
				if t.Composer != "" {
					fmt.Fprintf(out, "  Composer:  %s\n", t.Composer)
				}
				if t.Publisher != "" {
					fmt.Fprintf(out, "  Publisher: %s\n", t.Publisher)
				}
				if t.Library != "" {
					fmt.Fprintf(out, "  Library:   %s\n", t.Library)
				}
				return nil
			})
		},
	}
}

func newTracksLearnCommand(ctx *commandContext) *cobra.Command {
	var catalog string
	var composer string
	var publisher string
	var artist string
	var library string

	cmd := &cobra.Command{
		Use:   "learn <track-name>",
		Short: "Teach the track database about a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("track name must not be empty")
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				learned, err := trackdb.NewLookup(st, nil).Learn(cmd.Context(), store.Track{
					TrackName:   name,
					CatalogCode: strings.TrimSpace(catalog),
					Composer:    strings.TrimSpace(composer),
					Publisher:   strings.TrimSpace(publisher),
					Artist:      strings.TrimSpace(artist),
					Library:     strings.TrimSpace(library),
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if learned.CatalogCode != "" {
					fmt.Fprintf(out, "Learned %q (catalog %s, seen %d times)\n", learned.TrackName, learned.CatalogCode, learned.TimesSeen)
				} else {
					fmt.Fprintf(out, "Learned %q (seen %d times)\n", learned.TrackName, learned.TimesSeen)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "Catalog code, derived from the name when omitted")
	cmd.Flags().StringVar(&composer, "composer", "", "Composer credit")
	cmd.Flags().StringVar(&publisher, "publisher", "", "Publisher credit")
	cmd.Flags().StringVar(&artist, "artist", "", "Artist credit")
	cmd.Flags().StringVar(&library, "library", "", "Production library name")
	return cmd
}
