package arthub

// Index provides metadata storage for folders, assets and curation state.
// Lookups for absent rows return nil (or the zero value) with a nil error;
// batch operations are best-effort and report how many rows they touched.
type Index interface {
	// Folder operations

	// InsertFolder registers a directory for tracking. Inserting a path that
	// is already tracked returns the existing row unchanged.
	InsertFolder(path, name, spaceType string) (*Folder, error)

	// Folders lists tracked folders with their asset counts, name-ordered.
	// An empty spaceType lists every space.
	Folders(spaceType string) ([]*Folder, error)

	// FolderByID returns a folder, or nil when the id is unknown.
	FolderByID(id int64) (*Folder, error)

	// RemoveFolder deletes a folder and (by cascade) its assets, returning
	// the removed assets' file paths so callers can clean thumbnail caches.
	RemoveFolder(id int64) ([]string, error)

	// Asset operations

	// UpsertAssets writes one batch of scanned files in a single
	// transaction. Existing rows (matched on file_path) keep their id.
	UpsertAssets(batch []*AssetUpsert) error

	// PruneFolderAssets removes a folder's rows whose scanned_at predates
	// the given watermark, i.e. files a completed scan no longer saw.
	PruneFolderAssets(folderID, scannedBefore int64) (int64, error)

	// Query returns one page of assets matching the params. See QueryParams
	// for filter semantics; the total is computed independently of paging.
	Query(p QueryParams) (*QueryResult, error)

	// AssetByID returns an asset, or nil when the id is unknown.
	AssetByID(id int64) (*Asset, error)

	// AssetDetail returns an asset with its tags, rating, note and favorite
	// flag, or nil when the id is unknown.
	AssetDetail(id int64) (*AssetDetail, error)

	// DeleteAssets removes the given rows, returning the file paths of the
	// rows that existed and the number removed.
	DeleteAssets(ids []int64) ([]string, int64, error)

	// Stats summarizes the index.
	Stats() (*Stats, error)

	// Tag operations

	// CreateTag creates a tag, or returns the existing one on a
	// case-insensitive name match.
	CreateTag(name, color string) (*Tag, error)

	// UpdateTag renames or recolors a tag.
	UpdateTag(id int64, name, color string) error

	// DeleteTag removes a tag and its asset associations.
	DeleteTag(id int64) error

	// Tags lists all tags with usage counts, most used first.
	Tags() ([]*Tag, error)

	// TagsForAsset lists one asset's tags, name-ordered.
	TagsForAsset(assetID int64) ([]*Tag, error)

	// AddTag attaches a tag to an asset; attaching twice is a no-op.
	AddTag(assetID, tagID int64, user string) error

	// RemoveTag detaches a tag from an asset.
	RemoveTag(assetID, tagID int64) error

	// BatchTag attaches a tag to many assets, returning the number of
	// assets newly tagged. Unknown asset ids are skipped.
	BatchTag(assetIDs []int64, tagID int64, user string) (int64, error)

	// Rating and note operations

	// SetRating upserts an asset's rating; 0 clears it. Values outside
	// 0..5 fail with ErrValidation.
	SetRating(assetID int64, rating int, user string) error

	// Rating returns an asset's rating, 0 when unrated.
	Rating(assetID int64) (int, error)

	// BatchRate applies one rating to many assets, returning the count.
	BatchRate(assetIDs []int64, rating int, user string) (int64, error)

	// SetNote upserts an asset's note; an empty note clears it.
	SetNote(assetID int64, note, user string) error

	// Note returns an asset's note, "" when absent.
	Note(assetID int64) (string, error)

	// Favorite operations

	// ToggleFavorite flips an asset's favorite flag and returns the new state.
	ToggleFavorite(assetID int64, user string) (bool, error)

	// IsFavorite reports whether an asset is favorited.
	IsFavorite(assetID int64) (bool, error)

	// FavoriteIDs returns the ids of all favorited assets.
	FavoriteIDs() ([]int64, error)

	// SetFavorites sets the favorite flag on many assets, returning the
	// number whose state changed.
	SetFavorites(assetIDs []int64, favorite bool, user string) (int64, error)

	// Smart folder operations

	// CreateSmartFolder saves a named query.
	CreateSmartFolder(name, conditions, spaceType string) (*SmartFolder, error)

	// UpdateSmartFolder replaces a saved query's name and conditions.
	UpdateSmartFolder(id int64, name, conditions string) error

	// DeleteSmartFolder removes a saved query.
	DeleteSmartFolder(id int64) error

	// SmartFolderByID returns a saved query, or nil when the id is unknown.
	SmartFolderByID(id int64) (*SmartFolder, error)

	// SmartFolders lists saved queries, name-ordered. An empty spaceType
	// lists every space.
	SmartFolders(spaceType string) ([]*SmartFolder, error)

	// Lifecycle

	// Migrate brings the schema to the latest version.
	Migrate() error

	// CheckMigrations fails when the schema is missing or out of date.
	CheckMigrations() error

	// Close closes the underlying connection.
	Close() error
}
