package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List stored books",
		Run:   runBooks,
	}

	RootCmd.AddCommand(cmd)
}

func runBooks(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	books, err := s.Books(cmd.Context())
	if err != nil {
		exitErr("list books", err)
	}

	printJSON(books)
}
