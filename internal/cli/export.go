package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export [book]",
		Short: "Export books as JSON",
		Long:  "Export one book as an entry array (re-importable with import), or every book keyed by name.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	var book string
	if len(args) == 1 {
		book = args[0]
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	all, err := s.ExportAll(cmd.Context(), book)
	if err != nil {
		exitErr("export", err)
	}

	if book != "" {
		entries, ok := all[book]
		if !ok {
			exitErr("export", errors.Errorf("book not found: %s", book))
		}
		printJSON(entries)
		return
	}
	printJSON(all)
}
