package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/mimic/internal/soundpack"
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "List available sound packs",
	Long:  `Display all sound packs, built-in and user-defined, in the order the game cycles through them.`,
	RunE:  runPacks,
}

func init() {
	rootCmd.AddCommand(packsCmd)
}

func runPacks(cmd *cobra.Command, _ []string) error {
	printPacks(cmd.OutOrStdout(), loadRegistry(cfg.SoundPacksDir), cfg.SoundPacksDir)
	return nil
}

func printPacks(w io.Writer, r *soundpack.Registry, userDir string) {
	var builtin, user []soundpack.Pack
	for _, p := range r.List() {
		if p.Source == soundpack.SourceUser {
			user = append(user, p)
		} else {
			builtin = append(builtin, p)
		}
	}

	_, _ = fmt.Fprintln(w, "Built-in Sound Packs:")
	writePackList(w, builtin)
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "User Sound Packs (%s):\n", userDir)
	writePackList(w, user)
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "Cycle packs in game with p, or start with --pack <id>")
}

func writePackList(w io.Writer, packs []soundpack.Pack) {
	if len(packs) == 0 {
		_, _ = fmt.Fprintln(w, "  (none)")
		return
	}
	width := maxIDLen(packs)
	for _, p := range packs {
		kind := string(p.Kind)
		if p.Kind == soundpack.KindTone {
			kind = string(p.Waveform)
		}
		_, _ = fmt.Fprintf(w, "  %-*s  %-10s %s\n", width, p.ID, kind, p.Description)
	}
}

// maxIDLen returns the length of the longest pack ID in the slice.
func maxIDLen(packs []soundpack.Pack) int {
	n := 0
	for _, p := range packs {
		n = max(n, len(p.ID))
	}
	return n
}
