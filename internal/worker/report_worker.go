package worker

// report_worker.go
// Processes closing-report jobs from QueueReport: renders the reconciliation
// PDF and, when a recipient is configured, chains an email job with the PDF
// attached. Rendering failures are logged and dropped — the report data is
// already persisted on the session, the PDF is a convenience artifact.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pabloh4516/sellx-sub001/internal/dto"
	"github.com/pabloh4516/sellx-sub001/internal/infra"
)

type ReportWorker struct {
	storagePath string
	storeName   string
	reportEmail string
	dispatcher  *Dispatcher
}

func NewReportWorker(storagePath, storeName, reportEmail string, dispatcher *Dispatcher) *ReportWorker {
	return &ReportWorker{
		storagePath: storagePath,
		storeName:   storeName,
		reportEmail: reportEmail,
		dispatcher:  dispatcher,
	}
}

// Process renders the closing report PDF and optionally mails it.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var report dto.ClosingReportResponse
	if err := json.Unmarshal(raw, &report); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return
	}

	pdfPath, err := infra.RenderClosingReportPDF(&report, w.storagePath, w.storeName)
	if err != nil {
		log.Error().Err(err).Str("session_id", report.Session.ID).Msg("report_worker: PDF render failed")
		return
	}
	log.Info().Str("session_id", report.Session.ID).Str("path", pdfPath).Msg("report_worker: closing report rendered")

	if w.reportEmail == "" || w.dispatcher == nil {
		return
	}
	payload := EmailJobPayload{
		ToEmail: w.reportEmail,
		Subject: fmt.Sprintf("Closing report — session %s", report.Session.ID),
		Body:    fmt.Sprintf("Drawer session %s closed. Reconciliation report attached.", report.Session.ID),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("report_worker: failed to enqueue email job")
	}
}
