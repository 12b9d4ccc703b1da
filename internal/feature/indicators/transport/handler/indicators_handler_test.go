package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_analysis/internal/feature/indicators/domain"
	"stock_analysis/internal/feature/indicators/domain/entity"
)

// mockIndicatorsUsecase is a mock implementation of the IndicatorsUsecase interface.
type mockIndicatorsUsecase struct {
	ComputeFunc func(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error)
}

func (m *mockIndicatorsUsecase) Compute(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error) {
	if m.ComputeFunc != nil {
		return m.ComputeFunc(ctx, ticker, p, n, rfAnnual)
	}
	return nil, errors.New("not configured")
}

func setupRouter(uc IndicatorsUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewIndicatorsHandler(uc)
	r.GET("/ticker/:ticker", h.GetIndicators)
	r.GET("/ticker/:ticker/metric/:name", h.GetMetric)
	return r
}

func TestGetIndicators(t *testing.T) {
	sample := entity.IndicatorResult{"Price": 123.45, "rsi": 55.0}

	tests := []struct {
		name           string
		url            string
		computeFunc    func(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error)
		expectedStatus int
	}{
		{
			name: "正常系: 指標マップを返す",
			url:  "/ticker/AAPL",
			computeFunc: func(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error) {
				return sample, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "異常系: 未知のティッカーは404",
			url:  "/ticker/NOPE",
			computeFunc: func(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error) {
				return nil, domain.ErrTickerNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "異常系: 履歴不足は422",
			url:  "/ticker/NEWIPO",
			computeFunc: func(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error) {
				return nil, domain.ErrInsufficientHistory
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "異常系: プロバイダ障害は502",
			url:  "/ticker/AAPL",
			computeFunc: func(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error) {
				return nil, domain.ErrDataUnavailable
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name: "異常系: 計算失敗は500",
			url:  "/ticker/AAPL",
			computeFunc: func(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error) {
				return nil, &domain.ComputationError{Ticker: "AAPL", Err: errors.New("singular matrix")}
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "異常系: pの範囲違反は400",
			url:            "/ticker/AAPL?p=0.9",
			computeFunc:    nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: nの範囲違反は400",
			url:            "/ticker/AAPL?n=3",
			computeFunc:    nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&mockIndicatorsUsecase{ComputeFunc: tt.computeFunc})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestGetIndicators_PassesQueryParameters(t *testing.T) {
	var gotP, gotRF float64
	var gotN int
	mock := &mockIndicatorsUsecase{
		ComputeFunc: func(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error) {
			gotP, gotN, gotRF = p, n, rfAnnual
			return entity.IndicatorResult{}, nil
		},
	}
	r := setupRouter(mock)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ticker/AAPL?p=0.01&n=21&rf_ann=0.035", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.01, gotP)
	assert.Equal(t, 21, gotN)
	assert.Equal(t, 0.035, gotRF)
}

func TestGetIndicators_DefaultParameters(t *testing.T) {
	mock := &mockIndicatorsUsecase{
		ComputeFunc: func(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error) {
			assert.Equal(t, 0.05, p)
			assert.Equal(t, 14, n)
			assert.Equal(t, 0.02, rfAnnual)
			return entity.IndicatorResult{}, nil
		},
	}
	r := setupRouter(mock)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ticker/AAPL", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetMetric(t *testing.T) {
	sample := entity.IndicatorResult{"rsi": 55.0, "cagr": nil}
	mock := &mockIndicatorsUsecase{
		ComputeFunc: func(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error) {
			return sample, nil
		},
	}
	r := setupRouter(mock)

	t.Run("正常系: 単一指標を返す", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ticker/aapl/metric/rsi", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "AAPL", body["ticker"])
		assert.Equal(t, "rsi", body["metric"])
		assert.Equal(t, 55.0, body["value"])
	})

	t.Run("正常系: 値がnilでもキーが在れば200", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ticker/AAPL/metric/cagr", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("異常系: 未知の指標名は404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ticker/AAPL/metric/unknown", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
