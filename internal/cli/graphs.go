package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dotforge/pkg/dot"
	"github.com/matzehuels/dotforge/pkg/store"
)

// newGraphsCmd creates the graphs command group for store management.
func newGraphsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphs",
		Short: "Manage the persistent graph store",
	}

	cmd.AddCommand(newGraphsListCmd())
	cmd.AddCommand(newGraphsPutCmd())
	cmd.AddCommand(newGraphsShowCmd())
	cmd.AddCommand(newGraphsExportCmd())
	cmd.AddCommand(newGraphsRmCmd())

	return cmd
}

func newGraphsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored graph names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				names, err := st.List(ctx)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					printInfo("No stored graphs")
					return nil
				}
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			})
		},
	}
}

func newGraphsPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put [name] [file]",
		Short: "Store a graph blob under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				g, err := readGraphFile(args[1])
				if err != nil {
					return err
				}
				if err := st.Save(ctx, args[0], g); err != nil {
					return err
				}
				nodes, edges := graphStats(g)
				printSuccess("Stored %s", args[0])
				printDetail("%d nodes, %d edges", nodes, edges)
				return nil
			})
		},
	}
}

func newGraphsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Print a stored graph as DOT text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				g, err := st.Load(ctx, args[0])
				if err != nil {
					return err
				}
				text, err := g.Serialize()
				if err != nil {
					return err
				}
				fmt.Print(text)
				return nil
			})
		},
	}
}

func newGraphsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [name] [file]",
		Short: "Write a stored graph blob to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				g, err := st.Load(ctx, args[0])
				if err != nil {
					return err
				}
				if err := exportGraph(g, args[1]); err != nil {
					return err
				}
				printSuccess("Exported %s", args[0])
				printFile(args[1])
				return nil
			})
		},
	}
}

func newGraphsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [name]",
		Short: "Delete a stored graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				if err := st.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}

// withStore opens the configured store, runs fn, and closes it.
func withStore(ctx context.Context, fn func(context.Context, store.Store) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())
	return fn(ctx, st)
}

// exportGraph writes a graph blob to a file.
func exportGraph(g *dot.Graph, path string) error {
	blob, err := dot.Encode(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0644)
}
