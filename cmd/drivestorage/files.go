package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Jumpaku/go-drivestorage"
	"github.com/spf13/cobra"
)

// withStorage resolves arg, opens the storage of its account and calls f with both.
func withStorage(cmd *cobra.Command, arg string, f func(ctx context.Context, s *drivestorage.Storage, path string) error) error {
	path, err := resolveArg(arg)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	s, err := openStorage(ctx, path)
	if err != nil {
		return err
	}
	return f(ctx, s, path)
}

var rootPathCmd = &cobra.Command{
	Use:   "root [account]",
	Short: "Print the root path of an account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account := cfg.Account
		if len(args) > 0 {
			account = args[0]
		}
		if account == "" {
			return cmd.Usage()
		}
		fmt.Println(drivestorage.RootPath(account))
		return nil
	},
}

var nameCmd = &cobra.Command{
	Use:   "name <path>",
	Short: "Print the human-readable form of a path without contacting Google Drive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveArg(args[0])
		if err != nil {
			return err
		}
		fmt.Println(drivestorage.DisplayName(path))
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls [folder]",
	Short: "List the entries of a folder",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := "/"
		if len(args) > 0 {
			arg = args[0]
		}
		return withStorage(cmd, arg, func(ctx context.Context, s *drivestorage.Storage, path string) error {
			entries, err := s.List(ctx, path)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				kind := "-"
				if e.IsFolder {
					kind = "d"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", kind, e.Size, e.ModTime.Format("2006-01-02 15:04"), e.Path)
			}
			return w.Flush()
		})
	},
}

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Print the metadata of a file or folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd, args[0], func(ctx context.Context, s *drivestorage.Storage, path string) error {
			e, err := s.Stat(ctx, path)
			if err != nil {
				return err
			}
			fmt.Printf("name:      %s\n", e.Name)
			fmt.Printf("id:        %s\n", e.ID)
			fmt.Printf("mime:      %s\n", e.Mime)
			fmt.Printf("folder:    %t\n", e.IsFolder)
			fmt.Printf("size:      %d\n", e.Size)
			fmt.Printf("modified:  %s\n", e.ModTime)
			fmt.Printf("writable:  %t\n", e.CanWrite)
			return nil
		})
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <file>",
	Short: "Print the content of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd, args[0], func(ctx context.Context, s *drivestorage.Storage, path string) error {
			data, err := s.Read(ctx, path)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		})
	},
}

var putCmd = &cobra.Command{
	Use:   "put <file>",
	Short: "Replace the content of an existing file with the standard input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		return withStorage(cmd, args[0], func(ctx context.Context, s *drivestorage.Storage, path string) error {
			return s.Write(ctx, path, data)
		})
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <parent> <name>",
	Short: "Create a folder and print its path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd, args[0], func(ctx context.Context, s *drivestorage.Storage, path string) error {
			created, err := s.CreateFolder(ctx, path, args[1])
			if err != nil {
				return err
			}
			fmt.Println(created)
			return nil
		})
	},
}

var touchCmd = &cobra.Command{
	Use:   "touch <parent> <name>",
	Short: "Create an empty file and print its path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd, args[0], func(ctx context.Context, s *drivestorage.Storage, path string) error {
			created, err := s.CreateFile(ctx, path, args[1])
			if err != nil {
				return err
			}
			fmt.Println(created)
			return nil
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a file or folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd, args[0], func(ctx context.Context, s *drivestorage.Storage, path string) error {
			return s.Delete(ctx, path)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version <file>",
	Short: "Print the content checksum of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd, args[0], func(ctx context.Context, s *drivestorage.Storage, path string) error {
			version, err := s.CurrentVersion(ctx, path)
			if err != nil {
				return err
			}
			fmt.Println(version)
			return nil
		})
	},
}

var changedCmd = &cobra.Command{
	Use:   "changed <file> <version>",
	Short: "Report whether a file changed since the given checksum",
	Long:  `Prints true or false. Files without a checksum are never reported as changed.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd, args[0], func(ctx context.Context, s *drivestorage.Storage, path string) error {
			changed, err := s.HasChanged(ctx, path, args[1])
			if err != nil {
				return err
			}
			fmt.Println(changed)
			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(rootPathCmd, nameCmd, lsCmd, statCmd, catCmd, putCmd, mkdirCmd, touchCmd, rmCmd, versionCmd, changedCmd)
}
