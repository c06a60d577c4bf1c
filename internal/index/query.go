package index

import (
	"fmt"
	"strings"

	"arthub-go/internal/arthub"
)

// Paging bounds for Query.
const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// sortColumns maps the sort keys Query accepts to the columns they order
// by. Anything else falls back to file_name, so user input never reaches
// the SQL text.
var sortColumns = map[string]string{
	"name":      "file_name",
	"size":      "file_size",
	"modified":  "modified_at",
	"width":     "width",
	"ext":       "file_ext",
	"extension": "file_ext",
}

func (s *SQLiteIndex) Query(p arthub.QueryParams) (*arthub.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conds []string
	var args []any

	if p.FolderID != nil {
		conds = append(conds, "folder_id = ?")
		args = append(args, *p.FolderID)
	}
	if p.Search != "" {
		conds = append(conds, "file_name LIKE ?")
		args = append(args, "%"+p.Search+"%")
	}
	if len(p.Extensions) > 0 {
		conds = append(conds, "LOWER(file_ext) IN ("+placeholders(len(p.Extensions))+")")
		for _, ext := range p.Extensions {
			args = append(args, strings.ToLower(strings.TrimPrefix(ext, ".")))
		}
	}
	if p.MinWidth != nil {
		conds = append(conds, "width >= ?")
		args = append(args, *p.MinWidth)
	}
	if p.MaxWidth != nil {
		conds = append(conds, "width <= ?")
		args = append(args, *p.MaxWidth)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	// The total ignores paging so clients can render page controls.
	var total int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM assets"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting matches: %w", err)
	}

	column, ok := sortColumns[p.SortBy]
	if !ok {
		column = "file_name"
	}
	direction := "ASC"
	if p.SortOrder == "desc" {
		direction = "DESC"
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf("SELECT %s FROM assets%s ORDER BY %s %s LIMIT ? OFFSET ?",
		assetColumns, where, column, direction)
	rows, err := s.db.Query(query, append(args, pageSize, offset)...)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	var assets []*arthub.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning asset row: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating asset rows: %w", err)
	}

	return &arthub.QueryResult{
		Assets:   assets,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
