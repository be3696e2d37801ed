package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/coltranesx/Project-Area/application/commands"
	"github.com/coltranesx/Project-Area/application/ports"
	"github.com/coltranesx/Project-Area/application/queries"
	querybus "github.com/coltranesx/Project-Area/application/queries/bus"
	"github.com/coltranesx/Project-Area/application/services"
	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	"github.com/coltranesx/Project-Area/infrastructure/storage"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"github.com/spf13/cobra"
)

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "projectarea",
		Short: "Edit a Project Area node graph from the terminal",
		Long: `Edit a Project Area node graph from the terminal.

Every command loads the workspace from the store, applies one change and
saves it back.

Examples:
  projectarea show
  projectarea add-node
  projectarea title 3 "Son Bölüm"
  projectarea connect 2 3
  projectarea export yedek
  projectarea --store memory import ./yedek.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.store, "store", "badger:.projectarea", "document store: memory, badger:<dir> or dynamodb:<table>")
	flags.StringVarP(&opts.workspace, "workspace", "w", "default", "workspace id")
	flags.StringVar(&opts.exportDir, "export-dir", "exports", "directory for exported files")
	flags.StringVar(&opts.settings, "settings", "", "editor settings YAML file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	run := func(fn func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, err := openSession(ctx, opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer s.close()
			err = fn(ctx, s, cmd, args)
			if apperrors.IsCancelled(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			return err
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Render the document",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, s *session, cmd *cobra.Command, _ []string) error {
				view, err := querybus.As[queries.DocumentView](ctx, s.queryBus, queries.GetDocumentQuery{WorkspaceID: s.workspace.WorkspaceID})
				if err != nil {
					return err
				}
				renderDocument(cmd.OutOrStdout(), view, 3)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "add-node",
			Short: "Add a node with the default content",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, s *session, cmd *cobra.Command, _ []string) error {
				result, err := s.mutate(ctx, commands.AddNodeCommand{Workspace: s.workspace})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderNode(result.(commands.AddNodeResult).Node))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "rename <name>",
			Short: "Rename the project",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, s *session, _ *cobra.Command, args []string) error {
				_, err := s.mutate(ctx, commands.RenameProjectCommand{Workspace: s.workspace, Name: args[0]})
				return err
			}),
		},
		&cobra.Command{
			Use:   "title <id> <text>",
			Short: "Set a node's title",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(ctx context.Context, s *session, _ *cobra.Command, args []string) error {
				_, err := s.mutate(ctx, commands.EditTitleCommand{Workspace: s.workspace, NodeID: args[0], Text: args[1]})
				return err
			}),
		},
		&cobra.Command{
			Use:   "label <id> <text>",
			Short: "Set a node's label",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(ctx context.Context, s *session, _ *cobra.Command, args []string) error {
				_, err := s.mutate(ctx, commands.EditLabelCommand{Workspace: s.workspace, NodeID: args[0], Text: args[1]})
				return err
			}),
		},
		&cobra.Command{
			Use:   "cycle-color <id>",
			Short: "Move a node to the next palette color",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, s *session, _ *cobra.Command, args []string) error {
				_, err := s.mutate(ctx, commands.CycleColorCommand{Workspace: s.workspace, NodeID: args[0]})
				return err
			}),
		},
		&cobra.Command{
			Use:   "select <id>...",
			Short: "Select nodes and clear every other selection",
			Args:  cobra.MinimumNArgs(1),
			RunE: run(func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
				doc, _ := s.registry.Get(ctx, s.workspace.WorkspaceID).Snapshot()
				result, err := s.mutate(ctx, commands.ApplyNodeChangesCommand{
					Workspace: s.workspace,
					Changes:   selectChanges(doc, args),
				})
				if err != nil {
					return err
				}
				for _, ignored := range result.(commands.ChangesResult).Ignored {
					fmt.Fprintln(cmd.OutOrStdout(), "Unknown node:", ignored)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete-selected",
			Short: "Delete the selected nodes",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, s *session, cmd *cobra.Command, _ []string) error {
				result, err := s.mutate(ctx, commands.DeleteSelectedCommand{Workspace: s.workspace})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d nodes.\n", result.(commands.DeleteSelectedResult).Removed)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "connect <source> <target>",
			Short: "Connect two nodes",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
				result, err := s.mutate(ctx, commands.ConnectCommand{
					Workspace:  s.workspace,
					Connection: aggregates.Connection{Source: args[0], Target: args[1]},
				})
				if err != nil {
					return err
				}
				if !result.(commands.ConnectResult).Created {
					fmt.Fprintln(cmd.OutOrStdout(), "Already connected.")
				}
				return nil
			}),
		},
		newExportCmd(opts, run),
		&cobra.Command{
			Use:   "import <path>",
			Short: "Replace the document with a project file",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, s *session, _ *cobra.Command, args []string) error {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				dir, err := storage.NewLocal(filepath.Dir(abs))
				if err != nil {
					return err
				}
				_, err = s.mutate(ctx, commands.OpenCommand{
					Workspace: s.workspace,
					Handle:    storage.NewStoredFile(dir, filepath.Base(abs)),
					Wait:      true,
				})
				return err
			}),
		},
		newResetCmd(run),
	)

	return root
}

type runner func(fn func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error

func newExportCmd(opts *options, run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "export [name]",
		Short: "Export the document to a .json file",
		Long:  "Export the document to a .json file. Without a name you are asked for one.",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			var prompter ports.Prompter = newStdinPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if len(args) == 1 {
				prompter = services.StaticPrompter{FileName: args[0]}
			}
			result, err := s.commandBus.Send(ctx, commands.SaveAsCommand{Workspace: s.workspace, Prompter: prompter})
			if err != nil {
				return err
			}
			export := result.(services.ExportResult)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s (%d bytes).\n", export.FileName, opts.exportDir, len(export.Data))
			return nil
		}),
	}
}

func newResetCmd(run runner) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the document and restore the default project",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, s *session, cmd *cobra.Command, _ []string) error {
			var prompter ports.Prompter = newStdinPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				prompter = services.StaticPrompter{Confirmed: true}
			}
			_, err := s.commandBus.Send(ctx, commands.ResetCommand{Workspace: s.workspace, Prompter: prompter})
			return err
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// selectChanges selects ids and deselects every other node, as a click on
// the canvas does.
func selectChanges(doc aggregates.Document, ids []string) []aggregates.NodeChange {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var changes []aggregates.NodeChange
	for _, n := range doc.Nodes() {
		if selected := want[n.ID.String()]; selected != n.Selected {
			changes = append(changes, aggregates.NodeChange{Type: aggregates.ChangeSelect, ID: n.ID.String(), Selected: &selected})
		}
		delete(want, n.ID.String())
	}
	for _, id := range ids {
		if want[id] {
			selected := true
			changes = append(changes, aggregates.NodeChange{Type: aggregates.ChangeSelect, ID: id, Selected: &selected})
		}
	}
	return changes
}
