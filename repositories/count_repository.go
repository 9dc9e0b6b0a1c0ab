package repositories

import (
	"errors"
	"fmt"
	"time"

	"fiber-wms/models"
	"fiber-wms/wms/counting"
	"fiber-wms/wms/wmserr"

	"gorm.io/gorm"
)

type CountRepository struct {
	db *gorm.DB
}

func NewCountRepository(db *gorm.DB) *CountRepository {
	return &CountRepository{db: db}
}

// generateCountNo builds IC-<whs>-<seq>, sequence scoped to the warehouse,
// zero-padded to 3 digits. Must run inside the same transaction as the
// insert.
func generateCountNo(tx *gorm.DB, whsCode string) (string, error) {
	prefix := fmt.Sprintf("IC-%s-", whsCode)

	var count int64
	if err := tx.Model(&models.CountHeader{}).Unscoped().
		Where("count_no LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

func (r *CountRepository) Create(doc *models.CountHeader) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		countNo, err := generateCountNo(tx, doc.WhsCode)
		if err != nil {
			return err
		}
		doc.CountNo = countNo
		return tx.Create(doc).Error
	})
}

func (r *CountRepository) GetByID(id int64) (*models.CountHeader, error) {
	var doc models.CountHeader
	err := r.db.Preload("Lines").Preload("Details").Preload("ZeroLocations").
		First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wmserr.NewNotFound("count", fmt.Sprintf("%d", id))
		}
		return nil, err
	}
	return &doc, nil
}

func (r *CountRepository) GetByCountNo(countNo string) (*models.CountHeader, error) {
	var doc models.CountHeader
	err := r.db.Preload("Lines").Preload("Details").Preload("ZeroLocations").
		First(&doc, "count_no = ?", countNo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wmserr.NewNotFound("count", countNo)
		}
		return nil, err
	}
	return &doc, nil
}

// Snapshot resolves the scope against current stock in one transaction:
// count lines frozen from inventory joined with item master for tracking
// type, plus the zero-required set built from every scoped location, stocked
// or not.
func (r *CountRepository) Snapshot(in counting.ScopeInput) ([]models.CountLine, []models.CountZeroLocation, error) {
	var lines []models.CountLine
	var zeroLocations []models.CountZeroLocation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		stockSQL := `SELECT
				i.id AS item_id,
				a.item_code,
				a.location,
				i.uom,
				i.tracking_type,
				SUM(a.qty_onhand) AS system_qty
			FROM inventories a
			INNER JOIN items i ON a.item_code = i.item_code
			WHERE a.whs_code = ?`
		args := []interface{}{in.WhsCode}

		if in.ScopeType == models.CountScopeLocation {
			stockSQL += ` AND a.location IN ?`
			args = append(args, in.Locations)
		}
		if in.ScopeType == models.CountScopeModel {
			stockSQL += ` AND a.item_code IN ?`
			args = append(args, in.ItemCodes)
		}
		stockSQL += ` GROUP BY i.id, a.item_code, a.location, i.uom, i.tracking_type
			ORDER BY a.location, a.item_code`

		type stockRow struct {
			ItemId       int
			ItemCode     string
			Location     string
			Uom          string
			TrackingType string
			SystemQty    int
		}
		var rows []stockRow
		if err := tx.Raw(stockSQL, args...).Scan(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			lines = append(lines, models.CountLine{
				ItemId:       row.ItemId,
				ItemCode:     row.ItemCode,
				Location:     row.Location,
				Uom:          row.Uom,
				TrackingType: row.TrackingType,
				SystemQty:    row.SystemQty,
			})
		}

		var locations []string
		switch in.ScopeType {
		case models.CountScopeLocation:
			locations = in.Locations
		case models.CountScopeModel:
			// model scope pins no locations beyond where the items sit
			for _, row := range rows {
				locations = append(locations, row.Location)
			}
		default:
			if err := tx.Model(&models.Location{}).
				Where("whs_code = ? AND is_active = ?", in.WhsCode, true).
				Order("location_code").
				Pluck("location_code", &locations).Error; err != nil {
				return err
			}
		}

		seen := make(map[string]bool, len(locations))
		for _, loc := range locations {
			if seen[loc] {
				continue
			}
			seen[loc] = true
			zeroLocations = append(zeroLocations, models.CountZeroLocation{Location: loc})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return lines, zeroLocations, nil
}

func (r *CountRepository) CreateDetail(d *models.CountDetail) error {
	return r.db.Create(d).Error
}

func (r *CountRepository) CreateLine(l *models.CountLine) error {
	return r.db.Create(l).Error
}

func (r *CountRepository) SaveLine(l *models.CountLine) error {
	return r.db.Save(l).Error
}

// ConfirmZero marks a scoped location confirmed-empty. Returns false when it
// was already confirmed so the caller can skip the audit entry.
func (r *CountRepository) ConfirmZero(countID int64, location string, actor int, at time.Time) (bool, error) {
	res := r.db.Model(&models.CountZeroLocation{}).
		Where("count_id = ? AND location = ? AND confirmed = ?", countID, location, false).
		Updates(map[string]interface{}{
			"confirmed":    true,
			"confirmed_by": actor,
			"confirmed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CountRepository) UpdateStatusIf(doc *models.CountHeader, expected, next string, actor int) error {
	res := r.db.Model(&models.CountHeader{}).
		Where("id = ? AND status = ?", doc.ID, expected).
		Updates(map[string]interface{}{
			"status":     next,
			"updated_by": actor,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &wmserr.ConcurrencyConflictError{DocNo: doc.CountNo, Expected: expected}
	}
	return nil
}

func (r *CountRepository) SetVarianceRef(countID int64, ref string) error {
	return r.db.Model(&models.CountHeader{}).
		Where("id = ?", countID).
		Update("variance_ref", ref).Error
}

type ListCount struct {
	ID          int64  `json:"id"`
	CountNo     string `json:"count_no"`
	WhsCode     string `json:"whs_code"`
	ScopeType   string `json:"scope_type"`
	BlindMode   bool   `json:"blind_mode"`
	Status      string `json:"status"`
	SnapshotAt  string `json:"snapshot_at"`
	TotalLine   int    `json:"total_line"`
	TotalZero   int    `json:"total_zero"`
	ZeroPending int    `json:"zero_pending"`
}

func (r *CountRepository) GetAllCounts() ([]ListCount, error) {
	var result []ListCount
	sql := `WITH line AS (
				SELECT count_id, COUNT(id) AS total_line
				FROM count_lines GROUP BY count_id
			),
			zero AS (
				SELECT count_id,
					COUNT(id) AS total_zero,
					SUM(CASE WHEN confirmed THEN 0 ELSE 1 END) AS zero_pending
				FROM count_zero_locations GROUP BY count_id
			)
			SELECT a.id, a.count_no, a.whs_code, a.scope_type, a.blind_mode,
			a.status, a.snapshot_at,
			COALESCE(b.total_line, 0) AS total_line,
			COALESCE(c.total_zero, 0) AS total_zero,
			COALESCE(c.zero_pending, 0) AS zero_pending
			FROM count_headers a
			LEFT JOIN line b ON a.id = b.count_id
			LEFT JOIN zero c ON a.id = c.count_id
			ORDER BY a.created_at DESC`

	if err := r.db.Raw(sql).Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

type CountProgress struct {
	CountNo      string `json:"count_no"`
	TotalLine    int    `json:"total_line"`
	CountedLine  int    `json:"counted_line"`
	VarianceLine int    `json:"variance_line"`
	TotalZero    int    `json:"total_zero"`
	ZeroDone     int    `json:"zero_done"`
}

// GetProgressByCountID summarizes counting completeness for one document.
func (r *CountRepository) GetProgressByCountID(countID int64) (*CountProgress, error) {
	sql := `WITH line AS (
		SELECT count_id,
			COUNT(id) AS total_line,
			SUM(CASE WHEN counted THEN 1 ELSE 0 END) AS counted_line,
			SUM(CASE WHEN counted AND diff_qty <> 0 THEN 1 ELSE 0 END) AS variance_line
		FROM count_lines
		WHERE count_id = ?
		GROUP BY count_id
	),
	zero AS (
		SELECT count_id,
			COUNT(id) AS total_zero,
			SUM(CASE WHEN confirmed THEN 1 ELSE 0 END) AS zero_done
		FROM count_zero_locations
		WHERE count_id = ?
		GROUP BY count_id
	)
	SELECT a.count_no,
		COALESCE(b.total_line, 0) AS total_line,
		COALESCE(b.counted_line, 0) AS counted_line,
		COALESCE(b.variance_line, 0) AS variance_line,
		COALESCE(c.total_zero, 0) AS total_zero,
		COALESCE(c.zero_done, 0) AS zero_done
	FROM count_headers a
	LEFT JOIN line b ON a.id = b.count_id
	LEFT JOIN zero c ON a.id = c.count_id
	WHERE a.id = ?`

	var result CountProgress
	if err := r.db.Raw(sql, countID, countID, countID).Scan(&result).Error; err != nil {
		return nil, err
	}
	if result.CountNo == "" {
		return nil, wmserr.NewNotFound("count", fmt.Sprintf("%d", countID))
	}
	return &result, nil
}
