package payslip_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maikimilk/KyuyoBiyori/internal/payslip"
	paysliperrors "github.com/maikimilk/KyuyoBiyori/internal/payslip/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakePayslipService struct {
	uploadFn      func(ctx context.Context, filename, mimeType string, content []byte) (payslip.PreviewResponse, error)
	saveFn        func(ctx context.Context, req payslip.SavePayslipRequest) (payslip.PayslipResponse, error)
	getAllFn      func(ctx context.Context, filter payslip.ListPayslipsRequest) ([]payslip.PayslipResponse, error)
	getByIDFn     func(ctx context.Context, id string) (payslip.PayslipResponse, error)
	updateItemsFn func(ctx context.Context, id string, req payslip.UpdateItemsRequest) (payslip.PayslipResponse, error)
	reparseFn     func(ctx context.Context, id string) (payslip.PreviewResponse, error)
	deleteFn      func(ctx context.Context, id string) error
}

func (f *fakePayslipService) Upload(ctx context.Context, filename, mimeType string, content []byte) (payslip.PreviewResponse, error) {
	if f.uploadFn != nil {
		return f.uploadFn(ctx, filename, mimeType, content)
	}
	return payslip.PreviewResponse{}, nil
}

func (f *fakePayslipService) Save(ctx context.Context, req payslip.SavePayslipRequest) (payslip.PayslipResponse, error) {
	if f.saveFn != nil {
		return f.saveFn(ctx, req)
	}
	return payslip.PayslipResponse{}, nil
}

func (f *fakePayslipService) GetAll(ctx context.Context, filter payslip.ListPayslipsRequest) ([]payslip.PayslipResponse, error) {
	if f.getAllFn != nil {
		return f.getAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakePayslipService) GetByID(ctx context.Context, id string) (payslip.PayslipResponse, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return payslip.PayslipResponse{}, nil
}

func (f *fakePayslipService) UpdateItems(ctx context.Context, id string, req payslip.UpdateItemsRequest) (payslip.PayslipResponse, error) {
	if f.updateItemsFn != nil {
		return f.updateItemsFn(ctx, id, req)
	}
	return payslip.PayslipResponse{}, nil
}

func (f *fakePayslipService) Reparse(ctx context.Context, id string) (payslip.PreviewResponse, error) {
	if f.reparseFn != nil {
		return f.reparseFn(ctx, id)
	}
	return payslip.PreviewResponse{}, nil
}

func (f *fakePayslipService) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func setupPayslipRouter(svc payslip.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := payslip.NewHandler(svc)
	api := router.Group("/api/v1")
	payslip.RegisterRoutes(api, handler, nil)
	return router
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestUploadHandlerReturnsPreview(t *testing.T) {
	svc := &fakePayslipService{
		uploadFn: func(ctx context.Context, filename, mimeType string, content []byte) (payslip.PreviewResponse, error) {
			return payslip.PreviewResponse{
				Filename:    filename,
				GrossAmount: 269000,
				NetAmount:   258472,
				Warnings:    []string{},
			}, nil
		},
	}
	router := setupPayslipRouter(svc)

	body, contentType := multipartBody(t, "file", "202406.pdf", []byte("pdf bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payslips/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "202406.pdf")
	assert.Contains(t, w.Body.String(), "258472")
}

func TestUploadHandlerRequiresFile(t *testing.T) {
	router := setupPayslipRouter(&fakePayslipService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payslips/upload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveHandlerCreated(t *testing.T) {
	svc := &fakePayslipService{
		saveFn: func(ctx context.Context, req payslip.SavePayslipRequest) (payslip.PayslipResponse, error) {
			return payslip.PayslipResponse{ID: uuid.NewString(), Filename: req.Filename}, nil
		},
	}
	router := setupPayslipRouter(svc)

	payload := `{"filename":"202406.pdf","items":[{"name":"基本給","amount":269000,"category":"payment"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payslips", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSaveHandlerValidationFailure(t *testing.T) {
	svc := &fakePayslipService{
		saveFn: func(ctx context.Context, req payslip.SavePayslipRequest) (payslip.PayslipResponse, error) {
			return payslip.PayslipResponse{}, paysliperrors.ValidationFailed([]string{"残業"})
		},
	}
	router := setupPayslipRouter(svc)

	payload := `{"filename":"202406.pdf","items":[{"name":"残業","amount":44000}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payslips", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "残業")
}

func TestSaveHandlerRejectsMissingFilename(t *testing.T) {
	router := setupPayslipRouter(&fakePayslipService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payslips", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByIDHandlerNotFound(t *testing.T) {
	svc := &fakePayslipService{
		getByIDFn: func(ctx context.Context, id string) (payslip.PayslipResponse, error) {
			return payslip.PayslipResponse{}, paysliperrors.ErrPayslipNotFound
		},
	}
	router := setupPayslipRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payslips/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAllHandlerPassesFilter(t *testing.T) {
	var gotFilter payslip.ListPayslipsRequest
	svc := &fakePayslipService{
		getAllFn: func(ctx context.Context, filter payslip.ListPayslipsRequest) ([]payslip.PayslipResponse, error) {
			gotFilter = filter
			return []payslip.PayslipResponse{}, nil
		},
	}
	router := setupPayslipRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payslips?year=2024&kind=salary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, gotFilter.Year)
	assert.Equal(t, 2024, *gotFilter.Year)
	assert.Equal(t, "salary", gotFilter.Kind)
}

func TestUpdateItemsHandler(t *testing.T) {
	svc := &fakePayslipService{
		updateItemsFn: func(ctx context.Context, id string, req payslip.UpdateItemsRequest) (payslip.PayslipResponse, error) {
			return payslip.PayslipResponse{ID: id, NetAmount: 275000}, nil
		},
	}
	router := setupPayslipRouter(svc)

	payload := `{"items":[{"name":"基本給","amount":275000,"category":"payment"}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/payslips/"+uuid.NewString()+"/items", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "275000")
}

func TestReparseHandler(t *testing.T) {
	svc := &fakePayslipService{
		reparseFn: func(ctx context.Context, id string) (payslip.PreviewResponse, error) {
			return payslip.PreviewResponse{NetAmount: 258472, Warnings: []string{}}, nil
		},
	}
	router := setupPayslipRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payslips/"+uuid.NewString()+"/reparse", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteHandlerNoContent(t *testing.T) {
	router := setupPayslipRouter(&fakePayslipService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/payslips/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestEnvelopeShape(t *testing.T) {
	svc := &fakePayslipService{
		getByIDFn: func(ctx context.Context, id string) (payslip.PayslipResponse, error) {
			return payslip.PayslipResponse{ID: id}, nil
		},
	}
	router := setupPayslipRouter(svc)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payslips/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var envelope struct {
		Ok   bool            `json:"ok"`
		Data json.RawMessage `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Ok)
	assert.Contains(t, string(envelope.Data), id)
}
