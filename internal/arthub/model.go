package arthub

// Folder is a tracked top-level directory in the asset index.
type Folder struct {
	ID         int64  `json:"id"`
	Path       string `json:"path"`
	Name       string `json:"name"`
	SpaceType  string `json:"space_type"`
	AssetCount int64  `json:"asset_count"`
}

// Space types partition folders and smart folders by visibility.
const (
	SpacePersonal = "personal"
	SpaceShared   = "shared"
)

// Asset is one indexed file.
type Asset struct {
	ID         int64  `json:"id"`
	FolderID   int64  `json:"folder_id"`
	FilePath   string `json:"file_path"`
	FileName   string `json:"file_name"`
	FileExt    string `json:"file_ext"`
	FileSize   int64  `json:"file_size"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ThumbPath  string `json:"thumb_path"`
	ModifiedAt int64  `json:"modified_at"`
}

// AssetUpsert carries one scanned file into the index. Rows are keyed on
// FilePath: re-upserting an existing path updates the mutable columns in
// place and keeps the row id, so tags, ratings and notes survive re-scans.
type AssetUpsert struct {
	FolderID   int64
	FilePath   string
	FileName   string
	FileExt    string
	FileSize   int64
	Width      int
	Height     int
	ThumbPath  string
	ModifiedAt int64
	ScannedAt  int64
}

// Tag is a label that can be attached to any number of assets.
type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	AssetCount int64  `json:"asset_count"`
}

// AssetDetail bundles an asset with its curation state for a single lookup.
type AssetDetail struct {
	Asset    *Asset `json:"asset"`
	Tags     []*Tag `json:"tags"`
	Rating   int    `json:"rating"`
	Note     string `json:"note"`
	Favorite bool   `json:"favorite"`
}

// SmartFolder is a saved query. Conditions holds a JSON-encoded QueryParams.
type SmartFolder struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	Conditions string `json:"conditions"`
	SpaceType  string `json:"space_type"`
}

// QueryParams selects and orders a page of assets. Zero values mean
// "no constraint"; pointer fields distinguish unset from zero.
type QueryParams struct {
	FolderID   *int64   `json:"folder_id,omitempty"`
	Search     string   `json:"search,omitempty"`
	Extensions []string `json:"extensions,omitempty"`
	MinWidth   *int     `json:"min_width,omitempty"`
	MaxWidth   *int     `json:"max_width,omitempty"`
	SortBy     string   `json:"sort_by,omitempty"`
	SortOrder  string   `json:"sort_order,omitempty"`
	Page       int64    `json:"page,omitempty"`
	PageSize   int64    `json:"page_size,omitempty"`
}

// QueryResult is one page of query matches plus the unpaged total.
type QueryResult struct {
	Assets   []*Asset `json:"assets"`
	Total    int64    `json:"total"`
	Page     int64    `json:"page"`
	PageSize int64    `json:"page_size"`
}

// FormatCount is one entry of the per-extension breakdown in Stats.
type FormatCount struct {
	Ext   string `json:"ext"`
	Count int64  `json:"count"`
}

// Stats summarizes the whole index.
type Stats struct {
	TotalAssets  int64         `json:"total_assets"`
	TotalFolders int64         `json:"total_folders"`
	TotalSize    int64         `json:"total_size"`
	FormatCounts []FormatCount `json:"format_counts"`
}

// ScannedFile is one file found by the scanner collaborator.
type ScannedFile struct {
	Path     string
	Name     string
	Ext      string
	Size     int64
	Modified int64
}

// Thumbnail is the result of generating (or finding) a cached thumbnail.
// Width and Height are the source image dimensions, not the thumbnail's.
type Thumbnail struct {
	ThumbPath string
	Width     int
	Height    int
}

// Scan progress phases, in emission order.
const (
	PhaseScanning   = "scanning"
	PhaseThumbnails = "thumbnails"
	PhaseComplete   = "complete"
)

// ScanProgress is one progress event from a folder scan.
type ScanProgress struct {
	FolderID int64  `json:"folder_id"`
	Current  int    `json:"current"`
	Total    int    `json:"total"`
	FileName string `json:"file_name"`
	Phase    string `json:"phase"`
}
