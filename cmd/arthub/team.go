package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// lock commands
var lockCmd = &cobra.Command{
	Use:   "lock PATH",
	Short: "Take the edit lock on a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Lock")
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := a.Lock(args[0])
		if err != nil {
			return err
		}
		if !ok {
			status, serr := a.CheckLock(args[0])
			if serr == nil && status.IsLocked {
				fmt.Printf("Locked by %s on %s since %s.\n",
					status.LockedBy, status.Machine,
					time.Unix(status.LockedAt, 0).Format("2006-01-02 15:04:05"))
			} else {
				fmt.Println("Could not take the lock.")
			}
			return nil
		}
		fmt.Printf("Locked %s\n", args[0])
		return nil
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock PATH",
	Short: "Release your lock on a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Unlock")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Unlock(args[0]); err != nil {
			return err
		}
		fmt.Printf("Unlocked %s\n", args[0])
		return nil
	},
}

var lockStatusCmd = &cobra.Command{
	Use:   "lock-status PATH",
	Short: "Show who holds a file's lock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("CheckLock")
		if err != nil {
			return err
		}
		defer a.Close()

		status, err := a.CheckLock(args[0])
		if err != nil {
			return err
		}

		switch {
		case status.IsLocked:
			fmt.Printf("Locked by %s on %s since %s.\n",
				status.LockedBy, status.Machine,
				time.Unix(status.LockedAt, 0).Format("2006-01-02 15:04:05"))
		case status.IsStale && status.LockedBy != "":
			fmt.Printf("Not locked. A stale lock from %s remains and will be reclaimed.\n", status.LockedBy)
		default:
			fmt.Println("Not locked.")
		}
		return nil
	},
}

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat PATH",
	Short: "Keep your lock on a file alive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Heartbeat")
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := a.Heartbeat(args[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No lock of yours to refresh.")
			return nil
		}
		fmt.Printf("Heartbeat sent for %s\n", args[0])
		return nil
	},
}

var locksCmd = &cobra.Command{
	Use:   "locks",
	Short: "List all live locks on the shared root",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListLocks")
		if err != nil {
			return err
		}
		defer a.Close()

		locks, err := a.ActiveLocks()
		if err != nil {
			return err
		}

		if len(locks) == 0 {
			fmt.Println("No live locks.")
			return nil
		}
		for _, l := range locks {
			fmt.Printf("%-12s %-12s %s  %s\n",
				l.LockedBy, l.Machine,
				time.Unix(l.LockedAt, 0).Format("2006-01-02 15:04:05"),
				l.FilePath,
			)
		}
		return nil
	},
}

// version commands
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Manage file versions on the shared root",
}

var versionSaveCmd = &cobra.Command{
	Use:   "save PATH",
	Short: "Snapshot a file's current bytes as its next version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		comment, _ := cmd.Flags().GetString("message")

		a, err := newApp("SaveVersion")
		if err != nil {
			return err
		}
		defer a.Close()

		version, err := a.SaveVersion(args[0], comment)
		if err != nil {
			return err
		}
		fmt.Printf("Saved v%d of %s (%s)\n", version.Version, args[0], formatSize(version.FileSize))
		return nil
	},
}

var versionListCmd = &cobra.Command{
	Use:   "list PATH",
	Short: "Show a file's version history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("VersionHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		history, err := a.VersionHistory(args[0])
		if err != nil {
			return err
		}
		if history == nil || len(history.Versions) == 0 {
			fmt.Println("No version history.")
			return nil
		}

		for _, v := range history.Versions {
			comment := v.Comment
			if comment == "" {
				comment = "-"
			}
			fmt.Printf("v%-4d %-12s %s %10s  %s\n",
				v.Version, v.Author,
				time.Unix(v.Timestamp, 0).Format("2006-01-02 15:04:05"),
				formatSize(v.FileSize), comment,
			)
		}
		return nil
	},
}

var versionRestoreCmd = &cobra.Command{
	Use:   "restore PATH VERSION",
	Short: "Copy an old snapshot back over the file (or to --to)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version: %q", args[1])
		}
		target, _ := cmd.Flags().GetString("to")

		a, err := newApp("RestoreVersion")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RestoreVersion(args[0], version, target); err != nil {
			return err
		}
		if target == "" {
			target = args[0]
		}
		fmt.Printf("Restored v%d of %s to %s\n", version, args[0], target)
		return nil
	},
}

// role commands
var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage team roles",
}

var roleGetCmd = &cobra.Command{
	Use:   "get [USER]",
	Short: "Show a user's effective role (default: you)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetString("project")

		a, err := newApp("GetRole")
		if err != nil {
			return err
		}
		defer a.Close()

		userName := ""
		if len(args) > 0 {
			userName = args[0]
		}

		role, err := a.Role(userName, project)
		if err != nil {
			return err
		}
		if userName == "" {
			userName = a.User()
		}
		fmt.Printf("%s: %s\n", userName, role)
		return nil
	},
}

var roleSetCmd = &cobra.Command{
	Use:   "set USER ROLE",
	Short: "Grant a role (viewer, editor or admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetString("project")

		a, err := newApp("SetRole")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SetRole(args[0], args[1], project); err != nil {
			return err
		}
		if project != "" {
			fmt.Printf("Granted %s on %s to %s.\n", args[1], project, args[0])
		} else {
			fmt.Printf("Granted %s to %s.\n", args[1], args[0])
		}
		return nil
	},
}

// activity command
var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent team activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		window, _ := cmd.Flags().GetDuration("since")

		a, err := newApp("Activity")
		if err != nil {
			return err
		}
		defer a.Close()

		since := time.Now().Add(-window).Unix()
		entries, err := a.Activity(since)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No activity.")
			return nil
		}
		for _, e := range entries {
			target := e.TargetPath
			if target == "" {
				target = "-"
			}
			fmt.Printf("%s  %-12s %-16s %s\n",
				time.Unix(e.Timestamp, 0).Format("2006-01-02 15:04:05"),
				e.User, e.Action, target,
			)
		}
		return nil
	},
}

func init() {
	// version subcommands
	versionCmd.AddCommand(versionSaveCmd)
	versionCmd.AddCommand(versionListCmd)
	versionCmd.AddCommand(versionRestoreCmd)
	versionSaveCmd.Flags().StringP("message", "m", "", "Comment stored with the version")
	versionRestoreCmd.Flags().String("to", "", "Restore to this path instead of the original")

	// role subcommands
	roleCmd.AddCommand(roleGetCmd)
	roleCmd.AddCommand(roleSetCmd)
	roleGetCmd.Flags().String("project", "", "Resolve against a project path")
	roleSetCmd.Flags().String("project", "", "Scope the grant to a project path")

	activityCmd.Flags().Duration("since", 24*time.Hour, "How far back to look")

	// root commands
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(lockStatusCmd)
	rootCmd.AddCommand(heartbeatCmd)
	rootCmd.AddCommand(locksCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(activityCmd)
}
