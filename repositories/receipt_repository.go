package repositories

import (
	"errors"
	"fmt"
	"time"

	"fiber-wms/models"
	"fiber-wms/wms/wmserr"

	"gorm.io/gorm"
)

type ReceiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// GenerateReceiptNo builds GR-<whs>-<YYYYMM>-<seq>, sequence scoped to
// warehouse+month, zero-padded to 6 digits. Must run inside the same
// transaction as the insert.
func generateReceiptNo(tx *gorm.DB, whsCode string, at time.Time) (string, error) {
	prefix := fmt.Sprintf("GR-%s-%s-", whsCode, at.Format("200601"))

	var count int64
	if err := tx.Model(&models.ReceiptHeader{}).Unscoped().
		Where("receipt_no LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%06d", prefix, count+1), nil
}

// Create persists a new draft. The receipt number is assigned here, exactly
// once, on first persistence.
func (r *ReceiptRepository) Create(doc *models.ReceiptHeader) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		receiptNo, err := generateReceiptNo(tx, doc.WhsCode, time.Now())
		if err != nil {
			return err
		}
		doc.ReceiptNo = receiptNo
		return tx.Create(doc).Error
	})
}

func (r *ReceiptRepository) GetByID(id int64) (*models.ReceiptHeader, error) {
	var doc models.ReceiptHeader
	if err := r.db.Preload("Lines.Actuals").Preload("Lines").First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wmserr.NewNotFound("receipt", fmt.Sprintf("%d", id))
		}
		return nil, err
	}
	return &doc, nil
}

func (r *ReceiptRepository) GetByReceiptNo(receiptNo string) (*models.ReceiptHeader, error) {
	var doc models.ReceiptHeader
	if err := r.db.Preload("Lines.Actuals").Preload("Lines").First(&doc, "receipt_no = ?", receiptNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wmserr.NewNotFound("receipt", receiptNo)
		}
		return nil, err
	}
	return &doc, nil
}

func (r *ReceiptRepository) CreateActual(a *models.ReceiptActual) error {
	return r.db.Create(a).Error
}

func (r *ReceiptRepository) SaveLine(l *models.ReceiptLine) error {
	return r.db.Save(l).Error
}

// UpdateStatusIf commits a transition only while the expected status still
// holds; otherwise the document changed under us and the caller must retry
// against fresh state.
func (r *ReceiptRepository) UpdateStatusIf(doc *models.ReceiptHeader, expected, next string, actor int) error {
	res := r.db.Model(&models.ReceiptHeader{}).
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
		return &wmserr.ConcurrencyConflictError{DocNo: doc.ReceiptNo, Expected: expected}
	}
	return nil
}

type ListReceipt struct {
	ID           int64  `json:"id"`
	ReceiptNo    string `json:"receipt_no"`
	Type         string `json:"type"`
	WhsCode      string `json:"whs_code"`
	PartnerName  string `json:"partner_name"`
	RefNo        string `json:"ref_no"`
	ExpectedDate string `json:"expected_date"`
	Status       string `json:"status"`
	TotalLine    int    `json:"total_line"`
	TotalPlanned int    `json:"total_planned"`
	TotalActual  int    `json:"total_actual"`
}

func (r *ReceiptRepository) GetAllReceipts() ([]ListReceipt, error) {
	var result []ListReceipt
	sql := `WITH detail AS (
				SELECT receipt_id, COUNT(item_code) AS total_line, SUM(qty_planned) AS total_planned
				FROM receipt_lines GROUP BY receipt_id
			),
			actual AS (
				SELECT receipt_id, SUM(quantity) AS total_actual
				FROM receipt_actuals GROUP BY receipt_id
			)
			SELECT a.id, a.receipt_no, a.type, a.whs_code, a.ref_no,
			a.expected_date, a.status,
			p.name AS partner_name,
			b.total_line, b.total_planned, COALESCE(c.total_actual, 0) AS total_actual
			FROM receipt_headers a
			LEFT JOIN detail b ON a.id = b.receipt_id
			LEFT JOIN actual c ON a.id = c.receipt_id
			LEFT JOIN partners p ON a.partner_id = p.id
			ORDER BY a.created_at DESC`

	if err := r.db.Raw(sql).Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

type ReceiptProgress struct {
	ReceiptNo     string `json:"receipt_no"`
	ReceiptLineID uint   `json:"receipt_line_id"`
	ItemCode      string `json:"item_code"`
	ItemName      string `json:"item_name"`
	QtyPlanned    int    `json:"qty_planned"`
	QtyReceived   int    `json:"qty_received"`
	QtyRemaining  int    `json:"qty_remaining"`
}

// GetProgressByReceiptID reports planned vs received vs remaining per line.
func (r *ReceiptRepository) GetProgressByReceiptID(receiptID int64) ([]ReceiptProgress, error) {
	sql := `WITH actual AS (
		SELECT receipt_line_id, SUM(quantity) AS qty_received
		FROM receipt_actuals
		WHERE receipt_id = ?
		GROUP BY receipt_line_id
	)
	SELECT
		h.receipt_no,
		a.id AS receipt_line_id,
		a.item_code,
		i.item_name,
		a.qty_planned,
		COALESCE(b.qty_received, 0) AS qty_received,
		CASE WHEN a.qty_planned - COALESCE(b.qty_received, 0) > 0
			THEN a.qty_planned - COALESCE(b.qty_received, 0) ELSE 0 END AS qty_remaining
	FROM receipt_lines a
	INNER JOIN receipt_headers h ON a.receipt_id = h.id
	LEFT JOIN actual b ON a.id = b.receipt_line_id
	LEFT JOIN items i ON a.item_code = i.item_code
	WHERE a.receipt_id = ?
	ORDER BY a.id ASC`

	var result []ReceiptProgress
	if err := r.db.Raw(sql, receiptID, receiptID).Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
