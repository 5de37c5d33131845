package httphandler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/catalog-engine/internal/adapter/httphandler"
	"github.com/niksmo/catalog-engine/internal/core/domain"
)

type MockProductWriter struct {
	mock.Mock
}

func (m *MockProductWriter) CreateProduct(
	ctx context.Context, draft domain.ProductDraft,
) (domain.Product, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductWriter) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Product), args.Error(1)
}

type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) GetProduct(
	ctx context.Context, id string,
) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductReader) ListProducts(
	ctx context.Context, f domain.Filters, page domain.Page,
) ([]domain.Product, error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).([]domain.Product), args.Error(1)
}

type MockRecallPublisher struct {
	mock.Mock
}

func (m *MockRecallPublisher) PublishRecall(
	ctx context.Context, rule domain.RecallRule,
) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:           "p-1",
		SKU:          "CAM-001",
		Name:         "Dome Camera",
		SellingPrice: 2800,
		StockQty:     10,
		IsActive:     true,
		Specification: domain.Specification{
			TypeTag:    domain.TypeCCTVCamera,
			Version:    domain.SpecVersionCurrent,
			Attributes: domain.Attrs{"resolution": "4MP"},
		},
	}
}

func TestPostProduct(t *testing.T) {
	const body = `{
		"sku": "CAM-001",
		"name": "Dome Camera",
		"is_active": true,
		"specification": {
			"type_tag": "cctv_camera",
			"attributes": {"resolution": "4MP"}
		}
	}`

	t.Run("Created", func(t *testing.T) {
		writer := new(MockProductWriter)
		writer.On("CreateProduct", mock.Anything, mock.Anything).
			Return(sampleProduct(), nil)

		mux := http.NewServeMux()
		httphandler.RegisterProducts(mux, writer, new(MockProductReader))

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(
			"POST", "/v1/products", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, w.Code)

		var resp httphandler.ProductResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "p-1", resp.ID)
		assert.Equal(t, "cctv_camera", resp.Specification.TypeTag)

		draft := writer.Calls[0].Arguments.Get(1).(domain.ProductDraft)
		assert.Equal(t, "4MP", draft.Specification.Attributes["resolution"])
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		writer := new(MockProductWriter)
		writer.On("CreateProduct", mock.Anything, mock.Anything).
			Return(domain.Product{}, domain.ValidationErrors{
				{Field: "body_type", Reason: "required"},
			})

		mux := http.NewServeMux()
		httphandler.RegisterProducts(mux, writer, new(MockProductReader))

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(
			"POST", "/v1/products", strings.NewReader(body)))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp httphandler.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "body_type", resp.Fields[0].Field)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		mux := http.NewServeMux()
		httphandler.RegisterProducts(
			mux, new(MockProductWriter), new(MockProductReader))

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(
			"POST", "/v1/products", strings.NewReader("{broken")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPatchProduct(t *testing.T) {
	t.Run("TypeChangeConflict", func(t *testing.T) {
		writer := new(MockProductWriter)
		writer.On("UpdateProduct", mock.Anything, "p-1", mock.Anything).
			Return(domain.Product{}, domain.ErrImmutableField)

		mux := http.NewServeMux()
		httphandler.RegisterProducts(mux, writer, new(MockProductReader))

		body := `{"specification": {"type_tag": "wifi_camera"}}`
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(
			"PATCH", "/v1/products/p-1", strings.NewReader(body)))

		require.Equal(t, http.StatusConflict, w.Code)

		patch := writer.Calls[0].Arguments.Get(2).(domain.ProductPatch)
		assert.True(t, patch.TypeTag.Set)
		assert.Equal(t, domain.TypeWiFiCamera, patch.TypeTag.TypeTag)
	})

	t.Run("NotFound", func(t *testing.T) {
		writer := new(MockProductWriter)
		writer.On("UpdateProduct", mock.Anything, "nope", mock.Anything).
			Return(domain.Product{}, domain.ErrNotFound)

		mux := http.NewServeMux()
		httphandler.RegisterProducts(mux, writer, new(MockProductReader))

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(
			"PATCH", "/v1/products/nope", strings.NewReader("{}")))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListProductsHandler(t *testing.T) {
	reader := new(MockProductReader)
	reader.On("ListProducts", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Product{sampleProduct()}, nil)

	mux := http.NewServeMux()
	httphandler.RegisterProducts(mux, new(MockProductWriter), reader)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(
		"GET", "/v1/products?include_inactive=true&attr.resolution=4MP", nil))

	require.Equal(t, http.StatusOK, w.Code)

	f := reader.Calls[0].Arguments.Get(1).(domain.Filters)
	assert.True(t, f.IncludeInactive)
	require.Len(t, f.Attrs, 1)
	assert.Equal(t, "resolution", f.Attrs[0].Path)
}

func TestCheckoutView(t *testing.T) {
	reader := new(MockProductReader)
	reader.On("GetProduct", mock.Anything, "p-1").Return(sampleProduct(), nil)

	mux := http.NewServeMux()
	httphandler.RegisterCheckout(mux, reader)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(
		"GET", "/v1/checkout/products/p-1", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var view map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "p-1", view["id"])
	assert.NotContains(t, view, "specification")
}

func TestPostRecall(t *testing.T) {
	t.Run("DefaultsToRecalled", func(t *testing.T) {
		publisher := new(MockRecallPublisher)
		publisher.On("PublishRecall", mock.Anything, domain.RecallRule{
			SKU: "CAM-001", Recalled: true, Reason: "overheating",
		}).Return(nil)

		mux := http.NewServeMux()
		httphandler.RegisterRecalls(mux, publisher)

		body := `{"sku": "CAM-001", "reason": "overheating"}`
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(
			"POST", "/v1/recalls", strings.NewReader(body)))

		assert.Equal(t, http.StatusAccepted, w.Code)
		publisher.AssertExpectations(t)
	})

	t.Run("ExplicitUnrecall", func(t *testing.T) {
		publisher := new(MockRecallPublisher)
		publisher.On("PublishRecall", mock.Anything, domain.RecallRule{
			SKU: "CAM-001", Recalled: false,
		}).Return(nil)

		mux := http.NewServeMux()
		httphandler.RegisterRecalls(mux, publisher)

		body := `{"sku": "CAM-001", "recalled": false}`
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(
			"POST", "/v1/recalls", strings.NewReader(body)))

		assert.Equal(t, http.StatusAccepted, w.Code)
		publisher.AssertExpectations(t)
	})
}
