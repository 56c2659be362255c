package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aman-dalan/AI-Hackathon/internal/problem"
	"github.com/aman-dalan/AI-Hackathon/internal/store"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Manage the local problem catalog",
}

var problemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		difficulty, _ := cmd.Flags().GetString("difficulty")
		problems, err := s.Problems.List(context.Background(), problem.Difficulty(difficulty))
		if err != nil {
			return fmt.Errorf("list problems: %w", err)
		}

		if len(problems) == 0 {
			fmt.Println("No problems stored.")
			return nil
		}

		fmt.Printf("%-24s  %-8s  %-5s  %s\n", "ID", "Diff", "Cases", "Title")
		for _, p := range problems {
			fmt.Printf("%-24s  %-8s  %-5d  %s\n", p.ID, p.Difficulty, len(p.TestCases), p.Title)
		}
		return nil
	},
}

var problemsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored problem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.Problems.Get(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("load problem %s: %w", args[0], err)
		}

		fmt.Printf("ID:         %s\n", p.ID)
		fmt.Printf("Title:      %s\n", p.Title)
		fmt.Printf("Difficulty: %s\n", p.Difficulty)
		fmt.Printf("Source:     %s\n\n", p.Source)
		fmt.Println(p.Statement)
		fmt.Println()
		for i, tc := range p.TestCases {
			fmt.Printf("Case %d: input %s | expected %s\n", i+1, tc.Input, tc.Expected)
		}
		return nil
	},
}

var problemsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the built-in fallback problems into an empty catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		seeded, err := s.Problems.Seed(context.Background())
		if err != nil {
			return fmt.Errorf("seed problems: %w", err)
		}
		if seeded == 0 {
			fmt.Println("Catalog is not empty; nothing seeded.")
			return nil
		}
		fmt.Printf("Seeded %d problems.\n", seeded)
		return nil
	},
}

var problemsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a problem from pasted statement text (file or stdin)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text []byte
		var err error
		if len(args) == 1 {
			text, err = os.ReadFile(args[0])
		} else {
			text, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		p := problem.ParsePasted(string(text))
		if id, _ := cmd.Flags().GetString("id"); id != "" {
			p.ID = id
		}
		if p.ID == "" {
			return fmt.Errorf("could not derive a problem id; pass --id")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Problems.Upsert(context.Background(), p); err != nil {
			return fmt.Errorf("store problem: %w", err)
		}
		fmt.Printf("Imported %q (%s) with %d test cases.\n", p.Title, p.ID, len(p.TestCases))
		return nil
	},
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func init() {
	problemsListCmd.Flags().String("difficulty", "", "Filter by difficulty (easy, medium, hard)")
	problemsImportCmd.Flags().String("id", "", "Problem id to store under")

	problemsCmd.AddCommand(problemsListCmd)
	problemsCmd.AddCommand(problemsShowCmd)
	problemsCmd.AddCommand(problemsSeedCmd)
	problemsCmd.AddCommand(problemsImportCmd)
}
