package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closingmachines/leads-api/internal/usecase"
)

type fakeImporter struct {
	gotFile     string
	gotImportID string
	out         *usecase.ImportOutput
	err         error
}

func (f *fakeImporter) Execute(ctx context.Context, fileText, importID string) (*usecase.ImportOutput, error) {
	f.gotFile = fileText
	f.gotImportID = importID
	if f.err != nil {
		return nil, f.err
	}
	out := *f.out
	out.ImportID = importID
	return &out, nil
}

func multipartUpload(t *testing.T, fields map[string]string, fileContent string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", "leads.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(fileContent))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestImportHappyPath(t *testing.T) {
	importer := &fakeImporter{out: &usecase.ImportOutput{Rows: 3, Created: 2, Updated: 1}}
	h := NewImportHandler(importer, nil)

	body, contentType := multipartUpload(t, map[string]string{"importId": "imp-1"}, "id,ad_id\nl:1,a:1\n")
	req := httptest.NewRequest(http.MethodPost, "/leads/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Import(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "imp-1", importer.gotImportID)
	assert.Equal(t, "id,ad_id\nl:1,a:1\n", importer.gotFile)

	var out usecase.ImportOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 3, out.Rows)
	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 1, out.Updated)
	assert.Equal(t, "imp-1", out.ImportID)
}

func TestImportGeneratesImportID(t *testing.T) {
	importer := &fakeImporter{out: &usecase.ImportOutput{}}
	h := NewImportHandler(importer, nil)

	body, contentType := multipartUpload(t, nil, "id,ad_id\n")
	req := httptest.NewRequest(http.MethodPost, "/leads/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Import(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, importer.gotImportID)
}

func TestImportMissingFile(t *testing.T) {
	h := NewImportHandler(&fakeImporter{out: &usecase.ImportOutput{}}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("importId", "imp-1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/leads/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Import(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file is required")
}

func TestImportRepoFailureIsGeneric500(t *testing.T) {
	importer := &fakeImporter{err: &usecase.TechnicalError{Code: "DB_DOWN", Message: "connection refused"}}
	h := NewImportHandler(importer, nil)

	body, contentType := multipartUpload(t, nil, "id,ad_id\n")
	req := httptest.NewRequest(http.MethodPost, "/leads/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Import(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// internals stay out of the response body
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

type fakeClubLeadSender struct {
	gotInput usecase.SendClubLeadsInput
	out      *usecase.SendClubLeadsOutput
	err      error
}

func (f *fakeClubLeadSender) Execute(ctx context.Context, input usecase.SendClubLeadsInput) (*usecase.SendClubLeadsOutput, error) {
	f.gotInput = input
	return f.out, f.err
}

func TestSendHappyPath(t *testing.T) {
	sender := &fakeClubLeadSender{out: &usecase.SendClubLeadsOutput{Queued: 4, Skipped: 1}}
	h := NewSendHandler(sender)

	body, _ := json.Marshal(usecase.SendClubLeadsInput{IDs: []string{"lead-1"}, Target: "kids"})
	rec := httptest.NewRecorder()
	h.Send(rec, httptest.NewRequest(http.MethodPost, "/leads/send", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kids", sender.gotInput.Target)

	var out usecase.SendClubLeadsOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 4, out.Queued)
	assert.Equal(t, 1, out.Skipped)
}

func TestSendDomainErrorIs422(t *testing.T) {
	sender := &fakeClubLeadSender{err: &usecase.DomainError{Code: "INVALID_TARGET", Message: "target must be kids or nutrition"}}
	h := NewSendHandler(sender)

	rec := httptest.NewRecorder()
	h.Send(rec, httptest.NewRequest(http.MethodPost, "/leads/send", bytes.NewReader([]byte(`{"target":"spa"}`))))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSendInvalidJSON(t *testing.T) {
	h := NewSendHandler(&fakeClubLeadSender{})

	rec := httptest.NewRecorder()
	h.Send(rec, httptest.NewRequest(http.MethodPost, "/leads/send", bytes.NewReader([]byte(`{`))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
