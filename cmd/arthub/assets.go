package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"arthub-go/internal/arthub"
	"arthub-go/internal/thumb"

	"github.com/spf13/cobra"
)

// addQueryFlags registers the asset filter flags shared by list and the
// smart folder commands.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("folder", 0, "Only assets in this folder id")
	cmd.Flags().String("search", "", "Substring match on file name")
	cmd.Flags().StringSlice("ext", nil, "Only these extensions (case-insensitive, repeatable)")
	cmd.Flags().Int("min-width", 0, "Minimum pixel width")
	cmd.Flags().Int("max-width", 0, "Maximum pixel width")
	cmd.Flags().String("sort", "", "Sort key: name, size, modified, width, ext")
	cmd.Flags().String("order", "", "Sort order: asc or desc")
	cmd.Flags().Int64("page", 0, "Page number (1-based)")
	cmd.Flags().Int64("page-size", 0, "Assets per page")
}

// queryParamsFromFlags builds QueryParams from the flags addQueryFlags
// registered. Pointer fields are only set when the flag was given.
func queryParamsFromFlags(cmd *cobra.Command) arthub.QueryParams {
	var p arthub.QueryParams

	if cmd.Flags().Changed("folder") {
		id, _ := cmd.Flags().GetInt64("folder")
		p.FolderID = &id
	}
	p.Search, _ = cmd.Flags().GetString("search")
	p.Extensions, _ = cmd.Flags().GetStringSlice("ext")
	if cmd.Flags().Changed("min-width") {
		w, _ := cmd.Flags().GetInt("min-width")
		p.MinWidth = &w
	}
	if cmd.Flags().Changed("max-width") {
		w, _ := cmd.Flags().GetInt("max-width")
		p.MaxWidth = &w
	}
	p.SortBy, _ = cmd.Flags().GetString("sort")
	p.SortOrder, _ = cmd.Flags().GetString("order")
	p.Page, _ = cmd.Flags().GetInt64("page")
	p.PageSize, _ = cmd.Flags().GetInt64("page-size")

	return p
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Query")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Query(queryParamsFromFlags(cmd))
		if err != nil {
			return err
		}

		if result.Total == 0 {
			fmt.Println("No assets found.")
			return nil
		}

		for _, asset := range result.Assets {
			dims := ""
			if asset.Width > 0 {
				dims = fmt.Sprintf("%dx%d", asset.Width, asset.Height)
			}
			fmt.Printf("#%-6d %-5s %9s %10s  %s\n",
				asset.ID,
				asset.FileExt,
				dims,
				formatSize(asset.FileSize),
				asset.FileName,
			)
		}
		fmt.Printf("\nPage %d (%d of %d asset(s))\n", result.Page, len(result.Assets), result.Total)
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one asset with its curation state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("AssetDetail")
		if err != nil {
			return err
		}
		defer a.Close()

		detail, err := a.AssetDetail(id)
		if err != nil {
			return err
		}

		asset := detail.Asset
		fmt.Printf("Asset #%d: %s\n", asset.ID, asset.FileName)
		fmt.Printf("Path:     %s\n", asset.FilePath)
		fmt.Printf("Category: %s\n", thumb.Category(asset.FileExt))
		fmt.Printf("Size:     %s\n", formatSize(asset.FileSize))
		if asset.Width > 0 {
			fmt.Printf("Pixels:   %dx%d\n", asset.Width, asset.Height)
		}
		fmt.Printf("Modified: %s\n", time.Unix(asset.ModifiedAt, 0).Format("2006-01-02 15:04:05"))
		if asset.ThumbPath != "" {
			fmt.Printf("Thumb:    %s\n", asset.ThumbPath)
		}

		if len(detail.Tags) > 0 {
			names := make([]string, len(detail.Tags))
			for i, tag := range detail.Tags {
				names[i] = tag.Name
			}
			fmt.Printf("Tags:     %s\n", strings.Join(names, ", "))
		}
		if detail.Rating > 0 {
			fmt.Printf("Rating:   %s\n", strings.Repeat("*", detail.Rating))
		}
		if detail.Favorite {
			fmt.Println("Favorite: yes")
		}
		if detail.Note != "" {
			fmt.Printf("Note:     %s\n", detail.Note)
		}
		return nil
	},
}

// tag command
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var tagCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, _ := cmd.Flags().GetString("color")

		a, err := newApp("CreateTag")
		if err != nil {
			return err
		}
		defer a.Close()

		tag, err := a.CreateTag(args[0], color)
		if err != nil {
			return err
		}

		fmt.Printf("Tag #%d: %s (%s)\n", tag.ID, tag.Name, tag.Color)
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags with usage counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListTags")
		if err != nil {
			return err
		}
		defer a.Close()

		tags, err := a.Tags()
		if err != nil {
			return err
		}

		if len(tags) == 0 {
			fmt.Println("No tags.")
			return nil
		}

		for _, tag := range tags {
			fmt.Printf("#%-4d %-20s %-8s %d asset(s)\n", tag.ID, tag.Name, tag.Color, tag.AssetCount)
		}
		return nil
	},
}

var tagUpdateCmd = &cobra.Command{
	Use:   "update ID NAME",
	Short: "Rename or recolor a tag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		color, _ := cmd.Flags().GetString("color")

		a, err := newApp("UpdateTag")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.UpdateTag(id, args[1], color); err != nil {
			return err
		}
		fmt.Printf("Tag #%d updated.\n", id)
		return nil
	},
}

var tagDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a tag everywhere",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("DeleteTag")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteTag(id); err != nil {
			return err
		}
		fmt.Printf("Tag #%d deleted.\n", id)
		return nil
	},
}

var tagAddCmd = &cobra.Command{
	Use:   "add TAG_ID ASSET_ID...",
	Short: "Attach a tag to one or more assets",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tagID, err := parseID(args[0])
		if err != nil {
			return err
		}
		assetIDs, err := parseIDs(args[1:])
		if err != nil {
			return err
		}

		a, err := newApp("TagAssets")
		if err != nil {
			return err
		}
		defer a.Close()

		if len(assetIDs) == 1 {
			if err := a.TagAsset(assetIDs[0], tagID); err != nil {
				return err
			}
			fmt.Printf("Tagged asset #%d.\n", assetIDs[0])
			return nil
		}

		n, err := a.BatchTag(assetIDs, tagID)
		if err != nil {
			return err
		}
		fmt.Printf("Tagged %d of %d asset(s).\n", n, len(assetIDs))
		return nil
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "rm TAG_ID ASSET_ID",
	Short: "Detach a tag from an asset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tagID, err := parseID(args[0])
		if err != nil {
			return err
		}
		assetID, err := parseID(args[1])
		if err != nil {
			return err
		}

		a, err := newApp("UntagAsset")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.UntagAsset(assetID, tagID); err != nil {
			return err
		}
		fmt.Printf("Untagged asset #%d.\n", assetID)
		return nil
	},
}

// rate command
var rateCmd = &cobra.Command{
	Use:   "rate RATING ASSET_ID...",
	Short: "Rate assets 0-5 (0 clears)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, err := parseID(args[0])
		if err != nil {
			return fmt.Errorf("invalid rating: %q", args[0])
		}
		assetIDs, err := parseIDs(args[1:])
		if err != nil {
			return err
		}

		a, err := newApp("Rate")
		if err != nil {
			return err
		}
		defer a.Close()

		if len(assetIDs) == 1 {
			if err := a.Rate(assetIDs[0], int(rating)); err != nil {
				return err
			}
			fmt.Printf("Rated asset #%d.\n", assetIDs[0])
			return nil
		}

		n, err := a.BatchRate(assetIDs, int(rating))
		if err != nil {
			return err
		}
		fmt.Printf("Rated %d of %d asset(s).\n", n, len(assetIDs))
		return nil
	},
}

// note command
var noteCmd = &cobra.Command{
	Use:   "note ASSET_ID [TEXT]",
	Short: "Set or clear an asset's note",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		note := strings.Join(args[1:], " ")

		a, err := newApp("SetNote")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SetNote(id, note); err != nil {
			return err
		}
		if note == "" {
			fmt.Printf("Cleared note on asset #%d.\n", id)
		} else {
			fmt.Printf("Noted asset #%d.\n", id)
		}
		return nil
	},
}

// fav command
var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favorites",
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle ASSET_ID",
	Short: "Flip an asset's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("ToggleFavorite")
		if err != nil {
			return err
		}
		defer a.Close()

		fav, err := a.ToggleFavorite(id)
		if err != nil {
			return err
		}
		if fav {
			fmt.Printf("Asset #%d is now a favorite.\n", id)
		} else {
			fmt.Printf("Asset #%d is no longer a favorite.\n", id)
		}
		return nil
	},
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite asset ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListFavorites")
		if err != nil {
			return err
		}
		defer a.Close()

		ids, err := a.FavoriteIDs()
		if err != nil {
			return err
		}

		if len(ids) == 0 {
			fmt.Println("No favorites.")
			return nil
		}
		for _, id := range ids {
			fmt.Printf("#%d\n", id)
		}
		return nil
	},
}

var favSetCmd = &cobra.Command{
	Use:   "set ASSET_ID...",
	Short: "Mark assets as favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFavBatch(true),
}

var favClearCmd = &cobra.Command{
	Use:   "clear ASSET_ID...",
	Short: "Unmark assets as favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFavBatch(false),
}

func runFavBatch(favorite bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		assetIDs, err := parseIDs(args)
		if err != nil {
			return err
		}

		a, err := newApp("SetFavorites")
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.BatchFavorite(assetIDs, favorite)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %d of %d asset(s).\n", n, len(assetIDs))
		return nil
	}
}

// smart command
var smartCmd = &cobra.Command{
	Use:   "smart",
	Short: "Manage smart folders (saved queries)",
}

var smartCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Save the given filters as a smart folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		space, _ := cmd.Flags().GetString("space")

		a, err := newApp("CreateSmartFolder")
		if err != nil {
			return err
		}
		defer a.Close()

		sf, err := a.CreateSmartFolder(args[0], queryParamsFromFlags(cmd), space)
		if err != nil {
			return err
		}
		fmt.Printf("Smart folder #%d: %s\n", sf.ID, sf.Name)
		return nil
	},
}

var smartListCmd = &cobra.Command{
	Use:   "list",
	Short: "List smart folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		space, _ := cmd.Flags().GetString("space")

		a, err := newApp("ListSmartFolders")
		if err != nil {
			return err
		}
		defer a.Close()

		folders, err := a.SmartFolders(space)
		if err != nil {
			return err
		}

		if len(folders) == 0 {
			fmt.Println("No smart folders.")
			return nil
		}
		for _, sf := range folders {
			fmt.Printf("#%-4d %-8s %-20s %s\n", sf.ID, sf.SpaceType, sf.Name, sf.Conditions)
		}
		return nil
	},
}

var smartUpdateCmd = &cobra.Command{
	Use:   "update ID NAME",
	Short: "Replace a smart folder's name and filters",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("UpdateSmartFolder")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.UpdateSmartFolder(id, args[1], queryParamsFromFlags(cmd)); err != nil {
			return err
		}
		fmt.Printf("Smart folder #%d updated.\n", id)
		return nil
	},
}

var smartRunCmd = &cobra.Command{
	Use:   "run ID",
	Short: "Execute a smart folder's saved query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt64("page")
		pageSize, _ := cmd.Flags().GetInt64("page-size")

		a, err := newApp("RunSmartFolder")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.RunSmartFolder(id, page, pageSize)
		if err != nil {
			return err
		}

		for _, asset := range result.Assets {
			fmt.Printf("#%-6d %-5s %10s  %s\n", asset.ID, asset.FileExt, formatSize(asset.FileSize), asset.FileName)
		}
		fmt.Printf("\nPage %d (%d of %d asset(s))\n", result.Page, len(result.Assets), result.Total)
		return nil
	},
}

var smartDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a smart folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("DeleteSmartFolder")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteSmartFolder(id); err != nil {
			return err
		}
		fmt.Printf("Smart folder #%d deleted.\n", id)
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export DIR ASSET_ID...",
	Short: "Copy asset files into a directory",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving target: %w", err)
		}
		ids, err := parseIDs(args[1:])
		if err != nil {
			return err
		}

		a, err := newApp("Export")
		if err != nil {
			return err
		}
		defer a.Close()

		count, err := a.Export(ids, target)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d of %d asset(s) to %s\n", count, len(ids), target)
		return nil
	},
}

// rm command
var removeCmd = &cobra.Command{
	Use:   "rm ASSET_ID...",
	Short: "Remove assets from the index (files stay on disk)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		a, err := newApp("DeleteAssets")
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.DeleteAssets(ids)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d of %d asset(s) from the index.\n", n, len(ids))
		return nil
	},
}

func init() {
	addQueryFlags(listCmd)

	// tag subcommands
	tagCmd.AddCommand(tagCreateCmd)
	tagCmd.AddCommand(tagListCmd)
	tagCmd.AddCommand(tagUpdateCmd)
	tagCmd.AddCommand(tagDeleteCmd)
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRemoveCmd)
	tagCreateCmd.Flags().String("color", "", "Hex color, e.g. #ef4444")
	tagUpdateCmd.Flags().String("color", "", "Hex color, e.g. #ef4444")

	// fav subcommands
	favCmd.AddCommand(favToggleCmd)
	favCmd.AddCommand(favListCmd)
	favCmd.AddCommand(favSetCmd)
	favCmd.AddCommand(favClearCmd)

	// smart subcommands
	smartCmd.AddCommand(smartCreateCmd)
	smartCmd.AddCommand(smartListCmd)
	smartCmd.AddCommand(smartUpdateCmd)
	smartCmd.AddCommand(smartRunCmd)
	smartCmd.AddCommand(smartDeleteCmd)
	addQueryFlags(smartCreateCmd)
	addQueryFlags(smartUpdateCmd)
	smartCreateCmd.Flags().String("space", "", "Space type: personal or shared (default personal)")
	smartListCmd.Flags().String("space", "", "Filter by space type")
	smartRunCmd.Flags().Int64("page", 0, "Page number (1-based)")
	smartRunCmd.Flags().Int64("page-size", 0, "Assets per page")

	// root commands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(smartCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(removeCmd)
}
