package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list <book>",
		Short: "List the entries of a book",
		Args:  cobra.ExactArgs(1),
		Run:   runList,
	}

	cmd.Flags().Bool("keys-only", false, "Only output uid and label")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	entries, err := s.Entries(cmd.Context(), args[0])
	if err != nil {
		exitErr("list", err)
	}

	if keysOnly {
		for _, e := range entries {
			fmt.Printf("%s\t%s\n", e.ID, e.Label)
		}
		return
	}

	printJSON(entries)
}
