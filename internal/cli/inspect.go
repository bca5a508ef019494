package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dotforge/pkg/dot"
	"github.com/matzehuels/dotforge/pkg/store"
)

// newInspectCmd creates the inspect command for browsing a graph's contents.
func newInspectCmd() *cobra.Command {
	var (
		stored  bool
		dotOnly bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file|name]",
		Short: "Browse a graph's nodes, edges, and groups interactively",
		Long: `Inspect opens an interactive browser over a graph blob. The argument is a
blob file by default, or a stored graph name with --stored. With --dot the
serialized DOT text is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], stored, dotOnly)
		},
	}

	cmd.Flags().BoolVar(&stored, "stored", false, "treat the argument as a stored graph name")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "print the serialized DOT text and exit")

	return cmd
}

func runInspect(ctx context.Context, arg string, stored, dotOnly bool) error {
	var g *dot.Graph
	var err error
	if stored {
		err = withStore(ctx, func(ctx context.Context, st store.Store) error {
			g, err = st.Load(ctx, arg)
			return err
		})
	} else {
		g, err = readGraphFile(arg)
	}
	if err != nil {
		return err
	}

	if dotOnly {
		text, err := g.Serialize()
		if err != nil {
			return err
		}
		fmt.Print(text)
		return nil
	}

	model := newInspectModel(arg, g)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
