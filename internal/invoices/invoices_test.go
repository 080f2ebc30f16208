package invoices

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
	"invoice-pdf/invoice-pdf-backend/internal/templateconfig"
)

// MockS3Client is a mock implementation of storage.S3Client
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	args := m.Called(ctx, bucket, key, body, contentType)
	return args.Error(0)
}

func (m *MockS3Client) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockS3Client) Delete(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *MockS3Client) GetPresignedURL(ctx context.Context, bucket, key string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expiration)
	return args.String(0), args.Error(1)
}

// MockLoader is a mock implementation of ConfigLoader
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) GetTemplateConfig(ctx context.Context, shop string) (*templateconfig.ShopTemplateConfig, error) {
	args := m.Called(ctx, shop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*templateconfig.ShopTemplateConfig), args.Error(1)
}

// MockRenderer is a mock implementation of Renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Generate(ctx context.Context, data *domain.InvoiceData, cfg *domain.TemplateConfig) ([]byte, error) {
	args := m.Called(ctx, data, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockUploader is a mock implementation of Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadInvoice(ctx context.Context, pdf []byte, orderName, shop string) (string, string, error) {
	args := m.Called(ctx, pdf, orderName, shop)
	return args.String(0), args.String(1), args.Error(2)
}

// MockDispatcher is a mock implementation of notifications.Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) NotifyInvoice(ctx context.Context, data *domain.InvoiceData, url string, cfg *domain.TemplateConfig) (string, error) {
	args := m.Called(ctx, data, url, cfg)
	return args.String(0), args.Error(1)
}

const (
	shop      = "abc-fashion.myshopify.com"
	fileName  = "shops/abc-fashion.myshopify.com/invoices/invoice-1001-1767002400000.pdf"
	signedURL = "https://invoices.s3.amazonaws.com/" + fileName + "?X-Amz-Signature=abc"
)

var pdfBytes = []byte("%PDF-1.3 test")

func sampleInvoice() *domain.InvoiceData {
	return &domain.InvoiceData{
		Order:    domain.Order{Name: "#1001", Date: "29/12/2025"},
		Customer: domain.Customer{Name: "Rahul Sharma", Email: "rahul@example.com"},
		LineItems: []domain.LineItem{
			{Name: "Classic Cotton Shirt", Quantity: "2", SellingPrice: "₹899.00", Tax: "₹161.82"},
		},
		Totals: domain.Totals{Subtotal: "₹1,798.00", Total: "₹2,123.64"},
	}
}

type fixture struct {
	loader   *MockLoader
	renderer *MockRenderer
	uploader *MockUploader
	notifier *MockDispatcher
	service  Service
}

func newFixture() *fixture {
	f := &fixture{
		loader:   new(MockLoader),
		renderer: new(MockRenderer),
		uploader: new(MockUploader),
		notifier: new(MockDispatcher),
	}
	f.service = NewService(f.loader, f.renderer, f.uploader, f.notifier, zap.NewNop())
	return f
}

func TestStorageProviderUploadInvoice(t *testing.T) {
	ctx := context.Background()
	s3 := new(MockS3Client)
	provider := NewStorageProvider(s3, "invoices", time.Hour)
	provider.now = func() time.Time { return time.UnixMilli(1767002400000) }

	s3.On("Upload", ctx, "invoices", fileName, mock.Anything, "application/pdf").Return(nil)
	s3.On("GetPresignedURL", ctx, "invoices", fileName, time.Hour).Return(signedURL, nil)

	key, url, err := provider.UploadInvoice(ctx, pdfBytes, "#1001", shop)
	require.NoError(t, err)
	assert.Equal(t, fileName, key)
	assert.Equal(t, signedURL, url)
	s3.AssertExpectations(t)
}

func TestStorageProviderUploadFailure(t *testing.T) {
	ctx := context.Background()
	s3 := new(MockS3Client)
	s3.On("Upload", ctx, "invoices", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("AccessDenied"))

	_, _, err := NewStorageProvider(s3, "invoices", time.Hour).UploadInvoice(ctx, pdfBytes, "#1001", shop)
	assert.EqualError(t, err, "AccessDenied")
	s3.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSanitizeOrderName(t *testing.T) {
	assert.Equal(t, "1001", sanitizeOrderName("#1001"))
	assert.Equal(t, "SO-12_a", sanitizeOrderName("SO-12_a/"))
	assert.Equal(t, "order", sanitizeOrderName("##"))
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("runs the whole pipeline", func(t *testing.T) {
		f := newFixture()
		data := sampleInvoice()
		stored := &templateconfig.ShopTemplateConfig{Shop: shop, Template: "zen"}

		f.loader.On("GetTemplateConfig", ctx, shop).Return(stored, nil)
		f.renderer.On("Generate", ctx, data, mock.MatchedBy(func(cfg *domain.TemplateConfig) bool {
			return cfg.Template == "zen" && cfg.Source == templateconfig.SourceDatabase
		})).Return(pdfBytes, nil)
		f.uploader.On("UploadInvoice", ctx, pdfBytes, "#1001", shop).Return(fileName, signedURL, nil)
		f.notifier.On("NotifyInvoice", ctx, data, signedURL, mock.Anything).Return("rahul@example.com", nil)

		result, err := f.service.Generate(ctx, GenerateRequest{InvoiceData: data, Shop: shop, OrderID: "12345", OrderName: "#1001"})
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.NotEqual(t, uuid.Nil, result.InvoiceID)
		assert.Equal(t, fileName, result.FileName)
		assert.Equal(t, signedURL, result.S3URL)
		require.NotNil(t, result.EmailSentTo)
		assert.Equal(t, "rahul@example.com", *result.EmailSentTo)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.Generate(ctx, GenerateRequest{Shop: shop})
		assert.ErrorIs(t, err, ErrInvalidRequest)
		_, err = f.service.Generate(ctx, GenerateRequest{InvoiceData: sampleInvoice(), Shop: "  "})
		assert.ErrorIs(t, err, ErrInvalidRequest)
		f.renderer.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("config failures use defaults", func(t *testing.T) {
		f := newFixture()
		data := sampleInvoice()

		f.loader.On("GetTemplateConfig", ctx, shop).Return(nil, errors.New("connection refused"))
		f.renderer.On("Generate", ctx, data, mock.MatchedBy(func(cfg *domain.TemplateConfig) bool {
			return cfg.Template == "" && cfg.Source == templateconfig.SourceEnvironment
		})).Return(pdfBytes, nil)
		f.uploader.On("UploadInvoice", ctx, pdfBytes, "#1001", shop).Return(fileName, signedURL, nil)
		f.notifier.On("NotifyInvoice", ctx, data, signedURL, mock.Anything).Return("", nil)

		result, err := f.service.Generate(ctx, GenerateRequest{InvoiceData: data, Shop: shop})
		require.NoError(t, err)
		assert.Nil(t, result.EmailSentTo)
	})

	t.Run("notification failures do not fail the request", func(t *testing.T) {
		f := newFixture()
		data := sampleInvoice()

		f.loader.On("GetTemplateConfig", ctx, shop).Return(nil, nil)
		f.renderer.On("Generate", ctx, data, mock.Anything).Return(pdfBytes, nil)
		f.uploader.On("UploadInvoice", ctx, pdfBytes, "#1001", shop).Return(fileName, signedURL, nil)
		f.notifier.On("NotifyInvoice", ctx, data, signedURL, mock.Anything).Return("", errors.New("throttled"))

		result, err := f.service.Generate(ctx, GenerateRequest{InvoiceData: data, Shop: shop, OrderName: "#1001"})
		require.NoError(t, err)
		assert.Nil(t, result.EmailSentTo)
		assert.Equal(t, signedURL, result.S3URL)
	})

	t.Run("render failure stops the pipeline", func(t *testing.T) {
		f := newFixture()
		data := sampleInvoice()
		boom := errors.New("failed to render totals: broken")

		f.loader.On("GetTemplateConfig", ctx, shop).Return(nil, nil)
		f.renderer.On("Generate", ctx, data, mock.Anything).Return(nil, boom)

		_, err := f.service.Generate(ctx, GenerateRequest{InvoiceData: data, Shop: shop})
		assert.ErrorIs(t, err, boom)
		f.uploader.AssertNotCalled(t, "UploadInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.notifier.AssertNotCalled(t, "NotifyInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upload failure", func(t *testing.T) {
		f := newFixture()
		data := sampleInvoice()

		f.loader.On("GetTemplateConfig", ctx, shop).Return(nil, nil)
		f.renderer.On("Generate", ctx, data, mock.Anything).Return(pdfBytes, nil)
		f.uploader.On("UploadInvoice", ctx, pdfBytes, "#1001", shop).Return("", "", errors.New("AccessDenied"))

		_, err := f.service.Generate(ctx, GenerateRequest{InvoiceData: data, Shop: shop})
		assert.EqualError(t, err, "failed to upload invoice: AccessDenied")
	})
}

func TestPreview(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	data := sampleInvoice()

	f.renderer.On("Generate", ctx, data, (*domain.TemplateConfig)(nil)).Return(pdfBytes, nil)

	pdf, err := f.service.Preview(ctx, GenerateRequest{InvoiceData: data})
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, pdf)
	f.loader.AssertNotCalled(t, "GetTemplateConfig", mock.Anything, mock.Anything)
	f.uploader.AssertNotCalled(t, "UploadInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	_, err = f.service.Preview(ctx, GenerateRequest{Shop: shop})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// MockService is a mock implementation of Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GenerateResult), args.Error(1)
}

func (m *MockService) Preview(ctx context.Context, req GenerateRequest) ([]byte, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const requestBody = `{
	"invoiceData": {
		"order": {"name": "#1001", "date": "29/12/2025"},
		"customer": {"name": "Rahul Sharma", "email": "rahul@example.com"},
		"shippingAddress": {"address": "12 MG Road", "city": "Bengaluru", "state": "Karnataka", "zip": "560001"},
		"lineItems": [{"name": "Classic Cotton Shirt", "quantity": 2, "mrp": "₹999.00", "discount": "₹100.00", "sellingPrice": "₹899.00", "sellingPriceAfterTax": "₹1,060.82", "tax": "₹161.82", "_cgst": 80.91, "_sgst": 80.91}],
		"totals": {"subtotal": "₹1,798.00", "cgst": "₹161.82", "sgst": "₹161.82", "total": "₹2,121.64"}
	},
	"shop": "abc-fashion.myshopify.com",
	"orderId": "12345",
	"orderName": "#1001"
}`

func TestHandlerGenerate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockService)
		email := "rahul@example.com"
		svc.On("Generate", mock.Anything, mock.MatchedBy(func(req GenerateRequest) bool {
			return req.Shop == shop && req.OrderID == "12345" && req.InvoiceData.LineItems[0].CGST == "80.91"
		})).Return(&GenerateResult{StatusCode: 200, FileName: fileName, S3URL: signedURL, EmailSentTo: &email}, nil)

		w := post(newRouter(svc), "/api/v1/invoices", requestBody)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(200), body["statusCode"])
		assert.Equal(t, fileName, body["fileName"])
		assert.Equal(t, signedURL, body["s3Url"])
		assert.Equal(t, email, body["emailSentTo"])
		assert.Contains(t, body, "invoiceId")
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Generate", mock.Anything, mock.Anything).Return(nil, ErrInvalidRequest)

		w := post(newRouter(svc), "/api/v1/invoices", `{"shop": "abc-fashion.myshopify.com"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "Missing required fields: invoiceData, shop"}`, w.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(MockService)

		w := post(newRouter(svc), "/api/v1/invoices", `{"invoiceData":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("render failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("failed to generate invoice pdf: boom"))

		w := post(newRouter(svc), "/api/v1/invoices", requestBody)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error": "failed to generate invoice pdf: boom"}`, w.Body.String())
	})
}

func TestHandlerPreview(t *testing.T) {
	svc := new(MockService)
	svc.On("Preview", mock.Anything, mock.Anything).Return(pdfBytes, nil)

	w := post(newRouter(svc), "/api/v1/invoices/preview", requestBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="invoice-1001.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.Equal(pdfBytes, w.Body.Bytes()))
}
