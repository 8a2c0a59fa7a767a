package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rcliao/dynamic-lorebook/internal/engine"
	"github.com/rcliao/dynamic-lorebook/internal/inject"
	"github.com/rcliao/dynamic-lorebook/internal/interceptor"
	"github.com/rcliao/dynamic-lorebook/internal/lorebook"
	"github.com/rcliao/dynamic-lorebook/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "select [text]",
		Short: "Select lore for the recent conversation",
		Long: "Run the selection engine against a book. The conversation is the positional text (one turn) " +
			"or stdin: a JSON array of {\"text\": ...} turns, or one turn per line.",
		Run: runSelect,
	}

	cmd.Flags().StringP("book", "b", "", "Book to select from")
	cmd.Flags().String("file", "", "Read lore from a world-info JSON file instead of the store")
	cmd.Flags().IntP("limit", "l", 0, "Entries per call before shift expansion (default from config)")
	cmd.Flags().Int("depth", 0, "Turns scanned (default from config)")
	cmd.Flags().Uint64("seed", 0, "Seed the probability rolls for a reproducible run")
	cmd.Flags().Bool("debug", false, "Log every activation decision")

	RootCmd.AddCommand(cmd)
}

func runSelect(cmd *cobra.Command, args []string) {
	book, _ := cmd.Flags().GetString("book")
	file, _ := cmd.Flags().GetString("file")

	cfg := loadConfig()
	if cmd.Flags().Changed("limit") {
		cfg.ApplyLimit, _ = cmd.Flags().GetInt("limit")
	}
	if cmd.Flags().Changed("depth") {
		cfg.WindowDepth, _ = cmd.Flags().GetInt("depth")
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
	}
	cfg = cfg.Sanitize()
	logger := newLogger(cfg)

	var opts []engine.Option
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		opts = append(opts, engine.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
	ic := interceptor.New(logger, opts...)

	var turns []model.Turn
	if len(args) > 0 {
		turns = []model.Turn{{Text: strings.Join(args, " "), IsUser: true}}
	} else {
		var err error
		turns, err = readTurns(os.Stdin)
		if err != nil {
			exitErr("read turns", err)
		}
	}

	sources := loadSources(cmd, book, file)
	res := ic.Explain(turns, sources, cfg)

	if formatFlag == "text" {
		fmt.Print(inject.Compile(res.Activations))
		return
	}
	printJSON(res)
}

func loadSources(cmd *cobra.Command, book, file string) []model.SourceEntry {
	switch {
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			exitErr("open file", err)
		}
		defer f.Close()
		sources, err := lorebook.DecodeWorldInfo(f)
		if err != nil {
			exitErr("parse world info", err)
		}
		return sources
	case book != "":
		s, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()
		sources, err := s.Entries(cmd.Context(), book)
		if err != nil {
			exitErr("load book", err)
		}
		return sources
	}
	exitErr("select", errors.New("one of --book or --file is required"))
	return nil
}

// readTurns accepts a JSON array of turns, or plain text with one turn per
// non-empty line.
func readTurns(r io.Reader) ([]model.Turn, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}

	if strings.HasPrefix(text, "[") {
		var turns []model.Turn
		if err := json.Unmarshal([]byte(text), &turns); err == nil {
			return turns, nil
		}
	}

	var turns []model.Turn
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			turns = append(turns, model.Turn{Text: line})
		}
	}
	return turns, nil
}
