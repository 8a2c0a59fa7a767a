package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/dynamic-lorebook/internal/lorebook"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import <book> [file]",
		Short: "Import a lorebook from world-info JSON",
		Long:  "Import a SillyTavern world-info document (file or stdin) as a named book. Replaces any existing book of that name.",
		Args:  cobra.RangeArgs(1, 2),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	book := args[0]
	logger := newLogger(loadConfig())

	var r io.Reader = os.Stdin
	if len(args) == 2 {
		f, err := os.Open(args[1])
		if err != nil {
			exitErr("open file", err)
		}
		defer f.Close()
		r = f
	}

	entries, err := lorebook.DecodeWorldInfo(r)
	if err != nil {
		exitErr("parse world info", err)
	}
	for _, parent := range lorebook.Orphans(entries) {
		logger.Warn("shift has no parent entry and will never activate", "book", book, "parent", parent)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.ImportBook(cmd.Context(), book, entries)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"book":%q,"imported":%d}`+"\n", book, imported)
}
