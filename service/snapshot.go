package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"autoreview/app/repositories"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const (
	defaultSnapshotPath = "data/badger"
	defaultBackupDir    = "data/backups"
)

var errCancelled = errors.New("operation cancelled")

type snapshotFlags struct {
	path string
	yes  bool
}

func snapshotCommand() *cobra.Command {
	f := &snapshotFlags{}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Maintain the local snapshot of the content store",
	}
	cmd.PersistentFlags().StringVar(&f.path, "path", defaultSnapshotPath, "snapshot directory")
	cmd.PersistentFlags().BoolVarP(&f.yes, "yes", "y", false, "answer yes to confirmations")

	cmd.AddCommand(
		snapshotInitCommand(f),
		snapshotCleanCommand(f),
		snapshotBackupCommand(f),
		snapshotRestoreCommand(f),
		snapshotPendingCommand(f),
	)
	for _, sub := range cmd.Commands() {
		sub.Annotations = map[string]string{skipConfig: "true"}
	}
	return cmd
}

func snapshotExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// confirm asks question on cmd's streams unless --yes was given.
func confirm(cmd *cobra.Command, f *snapshotFlags, question string) bool {
	if f.yes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

func snapshotInitCommand(f *snapshotFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new empty snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if snapshotExists(f.path) {
				fmt.Fprintln(cmd.OutOrStdout(), "Snapshot already exists. Use 'clean' first if you want to reinitialize.")
				return nil
			}
			if err := os.MkdirAll(f.path, 0755); err != nil {
				return fmt.Errorf("create snapshot directory: %w", err)
			}
			store, err := repositories.NewStore(f.path)
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshot initialized successfully")
			return nil
		},
	}
}

func snapshotCleanCommand(f *snapshotFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !snapshotExists(f.path) {
				fmt.Fprintln(cmd.OutOrStdout(), "Snapshot is already clean (does not exist)")
				return nil
			}
			if !confirm(cmd, f, "Are you sure you want to delete the snapshot? Pending comments are lost.") {
				return errCancelled
			}
			if err := os.RemoveAll(f.path); err != nil {
				return fmt.Errorf("clean snapshot: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshot cleaned successfully")
			return nil
		},
	}
}

func snapshotBackupCommand(f *snapshotFlags) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a full backup of the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !snapshotExists(f.path) {
				return fmt.Errorf("no snapshot at %s to back up", f.path)
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create backup directory: %w", err)
			}

			store, err := repositories.NewStore(f.path)
			if err != nil {
				return err
			}
			defer store.Close()

			backupFile := filepath.Join(dir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			out, err := os.Create(backupFile)
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			defer out.Close()

			if _, err := store.Backup(out); err != nil {
				return fmt.Errorf("backup snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot backed up successfully to %s\n", backupFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", defaultBackupDir, "directory the backup file is written to")
	return cmd
}

func snapshotRestoreCommand(f *snapshotFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the snapshot with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup: %w", err)
			}
			defer in.Close()

			fi, err := in.Stat()
			if err != nil {
				return fmt.Errorf("stat backup: %w", err)
			}
			if fi.Size() == 0 {
				return fmt.Errorf("backup file is empty: %s", args[0])
			}

			if snapshotExists(f.path) {
				if !confirm(cmd, f, "Existing snapshot found. Do you want to replace it?") {
					return errCancelled
				}
				if err := os.RemoveAll(f.path); err != nil {
					return fmt.Errorf("remove existing snapshot: %w", err)
				}
			}

			store, err := repositories.NewStore(f.path)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := restoreFrom(store, in); err != nil {
				return fmt.Errorf("restore snapshot: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshot restored successfully")
			return nil
		},
	}
}

// restoreFrom turns a panic inside the loader, raised on corrupt input,
// into an error.
func restoreFrom(store *repositories.Store, r io.Reader) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic occurred during restore: %v", p)
		}
	}()
	return store.Restore(r)
}

func snapshotPendingCommand(f *snapshotFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List comments waiting to be uploaded or approved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !snapshotExists(f.path) {
				return fmt.Errorf("no snapshot at %s", f.path)
			}
			store, err := repositories.NewStore(f.path)
			if err != nil {
				return err
			}
			defer store.Close()

			pending, err := store.Comments().Pending(cmd.Context())
			if err != nil {
				return err
			}
			syncedAt, err := store.SyncedAt()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if syncedAt.IsZero() {
				fmt.Fprintln(w, "Snapshot was never synced")
			} else {
				fmt.Fprintf(w, "Last synced %s\n", syncedAt.Format("2006-01-02 15:04:05"))
			}
			if len(pending) == 0 {
				fmt.Fprintln(w, "No pending comments")
				return nil
			}

			table := tablewriter.NewWriter(w)
			table.SetAutoWrapText(false)
			table.SetHeader([]string{"Submitted", "Name", "Post", "Comment"})
			for _, c := range pending {
				table.Append([]string{c.CreatedAt.Format("2006-01-02 15:04"), c.Name, c.PostName, excerpt(c.Comment, 40)})
			}
			table.Render()
			return nil
		},
	}
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
