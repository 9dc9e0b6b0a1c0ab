// Batch importer: watches a drop folder for receipt line CSV files, creates
// draft receipts from them and mails a summary per file. File names follow
// <type>_<whs_code>_<ref_no>.csv, e.g. po_WH1_PO12345.csv.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fiber-wms/config"
	"fiber-wms/controllers/idgen"
	"fiber-wms/database"
	"fiber-wms/models"
	"fiber-wms/repositories"
	"fiber-wms/services"
	"fiber-wms/wms/audit"
	"fiber-wms/wms/receiving"
	"fiber-wms/wms/warning"

	"gorm.io/gorm"
)

const systemActorID = 0

func main() {
	config.LoadConfig()
	idgen.Init()

	db, err := database.OpenMainDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	dropFolder := os.Getenv("IMPORT_FOLDER")
	if dropFolder == "" {
		dropFolder = "./import-data/unprocessed"
	}
	processedFolder := filepath.Join(filepath.Dir(dropFolder), "processed")
	if err := os.MkdirAll(processedFolder, 0o755); err != nil {
		log.Fatalf("Failed to create processed folder: %v", err)
	}

	for {
		processAllCSV(db, dropFolder, processedFolder)
		time.Sleep(30 * time.Second)
	}
}

func processAllCSV(db *gorm.DB, dropFolder, processedFolder string) {
	files, err := os.ReadDir(dropFolder)
	if err != nil {
		log.Println("Failed to read drop folder:", err)
		return
	}

	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".csv" {
			continue
		}
		path := filepath.Join(dropFolder, file.Name())
		log.Println("Processing:", path)

		if err := processReceiptCSV(db, path); err != nil {
			log.Printf("Failed to process %s: %v", file.Name(), err)
			continue
		}

		if err := os.Rename(path, filepath.Join(processedFolder, file.Name())); err != nil {
			log.Printf("Failed to move %s: %v", file.Name(), err)
		}
	}
}

// headerFromFilename decodes <type>_<whs_code>_<ref_no>.csv.
func headerFromFilename(name string) (docType, whsCode, refNo string, err error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	parts := strings.SplitN(base, "_", 3)
	if len(parts) < 2 {
		return "", "", "", fmt.Errorf("filename %q does not match <type>_<whs_code>_<ref_no>.csv", name)
	}
	docType = strings.ToLower(parts[0])
	whsCode = parts[1]
	if len(parts) == 3 {
		refNo = parts[2]
	}
	return docType, whsCode, refNo, nil
}

func processReceiptCSV(db *gorm.DB, path string) error {
	docType, whsCode, refNo, err := headerFromFilename(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	master := repositories.NewMasterRepository(db)
	lines, dropped, err := receiving.ImportLinesCSV(f, master)
	if err != nil {
		return err
	}

	input := receiving.DraftInput{
		Type:    docType,
		WhsCode: whsCode,
		RefNo:   refNo,
		Remarks: "imported from " + filepath.Base(path),
		Lines:   lines,
	}
	if docType == models.ReceiptTypePO || docType == models.ReceiptTypeReturn {
		// batch PO/return files use a default partner configured per site
		input.PartnerCode = os.Getenv("IMPORT_PARTNER_CODE")
	}

	trail := audit.NewRecorder(repositories.NewAuditRepository(db))
	classifier := warning.NewClassifier(master)
	wf := receiving.NewWorkflow(repositories.NewReceiptRepository(db), master, classifier, trail)

	actor := audit.Actor{ID: systemActorID, Role: "admin"}
	doc, err := wf.CreateDraft(actor, input)
	if err != nil {
		return err
	}

	log.Printf("Created %s from %s (%d lines, %d rows dropped)", doc.ReceiptNo, filepath.Base(path), len(doc.Lines), len(dropped))

	summary := fmt.Sprintf("%d lines imported", len(doc.Lines))
	if len(dropped) > 0 {
		summary += "\nDropped rows:\n" + strings.Join(dropped, "\n")
	}
	services.NewNotifier().NotifyAsync(audit.DocTypeReceipt, doc.ReceiptNo, "imported", summary)

	return nil
}
