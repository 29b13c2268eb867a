package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
)

const MsgReportFailed = "Erro ao gerar relatório"

// Report is a streamed PDF. The caller must Close it.
type Report struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

func (r *Report) Close() error {
	return r.Body.Close()
}

// Report opens the report of catID for streaming.
func (a *API) Report(ctx context.Context, catID string) (*Report, error) {
	resp, err := a.do(ctx, http.MethodGet, "/reports/"+escape(catID), nil, nil, "")
	if err != nil {
		a.notifier.Error(MsgReportFailed)
		return nil, fmt.Errorf("report %s: %w", catID, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		err := a.parseResponse(resp, nil)
		a.notifier.Error(UserMessage(err, MsgReportFailed))
		return nil, fmt.Errorf("report %s: %w", catID, err)
	}

	r := &Report{
		Filename:    "relatorio-" + catID + ".pdf",
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
		Body:        resp.Body,
	}
	if r.ContentType == "" {
		r.ContentType = "application/pdf"
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		r.Filename = params["filename"]
	}
	return r, nil
}

// DownloadReport copies the report of catID to w.
func (a *API) DownloadReport(ctx context.Context, catID string, w io.Writer) (int64, error) {
	r, err := a.Report(ctx, catID)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	n, err := io.Copy(w, r.Body)
	if err != nil {
		return n, fmt.Errorf("copy report %s: %w", catID, err)
	}
	return n, nil
}
