package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/database"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/models"
)

// IconRepository is the primary, PostgreSQL-backed Store.
type IconRepository struct {
	querier *database.Querier
	logger  logger.Logger
}

// NewIconRepository creates the PostgreSQL-backed store.
func NewIconRepository(querier *database.Querier, log logger.Logger) *IconRepository {
	return &IconRepository{
		querier: querier,
		logger:  log,
	}
}

// iconRow is the scan target for icon queries with aggregated tags.
type iconRow struct {
	ID          string         `db:"id"`
	Provider    string         `db:"provider"`
	IconName    string         `db:"icon_name"`
	Description string         `db:"description"`
	SVGPath     string         `db:"svg_path"`
	PNGPath     sql.NullString `db:"png_path"`
	License     sql.NullString `db:"license"`
	Tags        pq.StringArray `db:"tags"`
}

func (r *iconRow) toModel() models.Icon {
	return models.Icon{
		ID:          r.ID,
		Provider:    r.Provider,
		IconName:    r.IconName,
		Description: r.Description,
		Tags:        models.NormalizeTags(r.Tags),
		SVGPath:     r.SVGPath,
		PNGPath:     r.PNGPath.String,
		License:     r.License.String,
	}
}

const iconSelectColumns = `
	SELECT i.id, i.provider, i.icon_name, i.description, i.svg_path,
	       i.png_path, i.license,
	       COALESCE(array_agg(t.name) FILTER (WHERE t.name IS NOT NULL), '{}') AS tags
	FROM icons i
	LEFT JOIN icon_tags it ON i.id = it.icon_id
	LEFT JOIN tags t ON it.tag_id = t.id
`

// ListIcons pages through matching icons. The page of rows and the total
// count run inside one transaction so the count is consistent with the page
// under concurrent writes.
func (r *IconRepository) ListIcons(ctx context.Context, query ListQuery) (*models.PaginatedIcons, error) {
	query = query.Normalize()
	whereClause, args := buildIconWhere(query)

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+2)

	// whereClause is assembled from fixed fragments with positional
	// parameters only.
	pageQuery := iconSelectColumns + whereClause + `
	GROUP BY i.id
	ORDER BY LOWER(i.provider), LOWER(i.icon_name)
	LIMIT ` + limitPlaceholder + ` OFFSET ` + offsetPlaceholder

	countQuery := `SELECT COUNT(*) FROM icons i` + whereClause

	pageArgs := append(append([]any{}, args...), query.PageSize, query.Offset())

	var rows []iconRow
	var total int
	err := r.querier.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if selectErr := tx.SelectContext(ctx, &rows, pageQuery, pageArgs...); selectErr != nil {
			return fmt.Errorf("select icons page: %w", selectErr)
		}
		if countErr := tx.GetContext(ctx, &total, countQuery, args...); countErr != nil {
			return fmt.Errorf("count icons: %w", countErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	icons := make([]models.Icon, 0, len(rows))
	for i := range rows {
		icons = append(icons, rows[i].toModel())
	}

	return &models.PaginatedIcons{
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
		Data:     icons,
	}, nil
}

// GetIcon fetches one icon by case-insensitive (provider, id).
func (r *IconRepository) GetIcon(ctx context.Context, provider, id string) (*models.Icon, error) {
	query := iconSelectColumns + `
	WHERE LOWER(i.provider) = LOWER($1) AND LOWER(i.id) = LOWER($2)
	GROUP BY i.id`

	var row iconRow
	err := r.querier.Get(ctx, &row, query, provider, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	icon := row.toModel()
	return &icon, nil
}

// ListProviders returns all distinct providers.
func (r *IconRepository) ListProviders(ctx context.Context) ([]string, error) {
	var providers []string
	err := r.querier.Select(ctx, &providers,
		`SELECT DISTINCT provider FROM icons ORDER BY provider`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return providers, nil
}

// ListTags returns all distinct tag names.
func (r *IconRepository) ListTags(ctx context.Context) ([]string, error) {
	var tags []string
	err := r.querier.Select(ctx, &tags,
		`SELECT DISTINCT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return tags, nil
}

// Health checks database reachability and reports the icon count.
func (r *IconRepository) Health(ctx context.Context) (*models.HealthStatus, error) {
	var count int
	err := r.querier.Get(ctx, &count, `SELECT COUNT(*) FROM icons`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return &models.HealthStatus{
		Status:    "healthy",
		ItemCount: count,
	}, nil
}

// buildIconWhere assembles the WHERE clause shared by the page and count
// queries. Provider is an equality predicate unless it is the "all"
// sentinel; search ORs across name, description, id, and tag names; the tag
// filter matches icons holding at least one requested tag.
func buildIconWhere(query ListQuery) (string, []any) {
	var clauses []string
	args := make([]any, 0, 3)

	if !query.wantsAllProviders() {
		args = append(args, query.Provider)
		clauses = append(clauses, fmt.Sprintf("LOWER(i.provider) = $%d", len(args)))
	}

	if query.Search != "" {
		args = append(args, "%"+query.Search+"%")
		pos := len(args)
		clauses = append(clauses, fmt.Sprintf(`(
			LOWER(i.icon_name) LIKE $%d OR
			LOWER(i.description) LIKE $%d OR
			LOWER(i.id) LIKE $%d OR
			EXISTS (
				SELECT 1 FROM icon_tags it2
				JOIN tags t2 ON it2.tag_id = t2.id
				WHERE it2.icon_id = i.id AND LOWER(t2.name) LIKE $%d
			)
		)`, pos, pos, pos, pos))
	}

	if len(query.Tags) > 0 {
		args = append(args, pq.Array(query.Tags))
		clauses = append(clauses, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM icon_tags it3
			JOIN tags t3 ON it3.tag_id = t3.id
			WHERE it3.icon_id = i.id AND LOWER(t3.name) = ANY($%d)
		)`, len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "\n\tWHERE " + strings.Join(clauses, " AND "), args
}
