package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rcliao/dynamic-lorebook/internal/lorebook"
	"github.com/rcliao/dynamic-lorebook/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show <book> [uid]",
		Short: "Show parsed lore entries",
		Long:  "Show entries as the engine sees them: parsed clauses, clamped probability and attached shifts.",
		Args:  cobra.RangeArgs(1, 2),
		Run:   runShow,
	}

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sources, err := s.Entries(cmd.Context(), args[0])
	if err != nil {
		exitErr("show", err)
	}
	entries := lorebook.Load(sources)

	if len(args) == 1 {
		printJSON(entries)
		return
	}

	for _, e := range entries {
		if e.ID == args[1] {
			printJSON(struct {
				model.LoreEntry
				Priority int `json:"effective_priority"`
			}{e, e.ClampedPriority()})
			return
		}
	}
	exitErr("show", errors.Errorf("entry %s not found in %s (disabled or a shift?)", args[1], args[0]))
}
