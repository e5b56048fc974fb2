package historydelivery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/dream-bank/internal/domain"
	"github.com/go-petr/dream-bank/internal/middleware"
	"github.com/go-petr/dream-bank/internal/test"
	"github.com/go-petr/dream-bank/pkg/errorspkg"
	"github.com/go-petr/dream-bank/pkg/randompkg"
	"github.com/go-petr/dream-bank/pkg/tokenpkg"
)

func setupServer(t *testing.T, tokenMaker tokenpkg.Maker, service Service, now time.Time) *gin.Engine {
	t.Helper()

	h := NewHandler(service)
	h.now = func() time.Time { return now }

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()

	authRoutes := server.Group("/").Use(middleware.AuthMiddleware(tokenMaker))
	authRoutes.GET("/documents/:kind/:id/transactions", h.List)
	authRoutes.GET("/documents/:kind/:id/statement", h.Statement)
	authRoutes.GET("/counterparties", h.Counterparties)
	authRoutes.POST("/transactions/:id/viewed", h.MarkViewed)

	return server
}

type testCase struct {
	name          string
	method        string
	url           string
	auth          bool
	buildStubs    func(service *MockService)
	checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
}

func TestHistoryAPI(t *testing.T) {
	ownerID := randompkg.OwnerID()
	account := test.RandomAccount(ownerID)
	other := test.RandomAccount(randompkg.OwnerID())
	card := test.RandomCard(account)

	older := test.RandomTransaction(account.ID, other.ID)
	newer := test.RandomTransaction(other.ID, account.ID)
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	cardRef := domain.DocumentRef{Kind: domain.KindCard, ID: card.ID}
	historyURL := fmt.Sprintf("/documents/card/%d/transactions", card.ID)
	statementURL := fmt.Sprintf("/documents/card/%d/statement", card.ID)

	testCases := []testCase{
		{
			name:   "HistoryOK",
			method: http.MethodGet,
			url:    historyURL,
			auth:   true,
			buildStubs: func(service *MockService) {
				service.EXPECT().History(gomock.Any(), gomock.Eq(ownerID), gomock.Eq(cardRef)).
					Times(1).
					Return(account, []domain.Transaction{newer, older}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var got struct {
					Data historyData `json:"data"`
				}
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
				require.Equal(t, account.ID, got.Data.AccountID)
				require.True(t, account.Amount.Equal(got.Data.Balance))
				require.Len(t, got.Data.Transactions, 2)
				require.Equal(t, newer.ID, got.Data.Transactions[0].ID)
				require.Equal(t, older.ID, got.Data.Transactions[1].ID)
			},
		},
		{
			name:   "HistoryNoAuthorization",
			method: http.MethodGet,
			url:    historyURL,
			buildStubs: func(service *MockService) {
				service.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:   "HistoryInvalidKind",
			method: http.MethodGet,
			url:    "/documents/wallet/1/transactions",
			auth:   true,
			buildStubs: func(service *MockService) {
				service.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:   "HistoryInvalidOwner",
			method: http.MethodGet,
			url:    historyURL,
			auth:   true,
			buildStubs: func(service *MockService) {
				service.EXPECT().History(gomock.Any(), gomock.Eq(ownerID), gomock.Eq(cardRef)).
					Times(1).
					Return(domain.Account{}, nil, domain.ErrInvalidOwner)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusForbidden, recorder.Code)
			},
		},
		{
			name:   "HistoryNotFound",
			method: http.MethodGet,
			url:    historyURL,
			auth:   true,
			buildStubs: func(service *MockService) {
				service.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, nil, domain.ErrDocumentNotFound)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:   "StatementOK",
			method: http.MethodGet,
			url:    statementURL,
			auth:   true,
			buildStubs: func(service *MockService) {
				service.EXPECT().Statement(gomock.Any(), gomock.Eq(ownerID), gomock.Eq(cardRef), gomock.Eq(now)).
					Times(1).
					Return("Statement for *1234 to 2024-03-05.txt", "Account *1234\n", nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				require.Equal(t, `attachment; filename="Statement for *1234 to 2024-03-05.txt"`,
					recorder.Header().Get("Content-Disposition"))
				require.Contains(t, recorder.Header().Get("Content-Type"), "text/plain")
				require.Equal(t, "Account *1234\n", recorder.Body.String())
			},
		},
		{
			name:   "StatementInternalError",
			method: http.MethodGet,
			url:    statementURL,
			auth:   true,
			buildStubs: func(service *MockService) {
				service.EXPECT().Statement(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return("", "", errorspkg.ErrInternal)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
				require.Empty(t, recorder.Header().Get("Content-Disposition"))
			},
		},
		{
			name:   "CounterpartiesOK",
			method: http.MethodGet,
			url:    "/counterparties",
			auth:   true,
			buildStubs: func(service *MockService) {
				service.EXPECT().GetRelatedCounterparties(gomock.Any(), gomock.Eq(ownerID)).
					Times(1).
					Return([]string{"alice", "bob"}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var got struct {
					Data counterpartiesData `json:"data"`
				}
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
				require.Equal(t, []string{"alice", "bob"}, got.Data.Counterparties)
			},
		},
		{
			name:   "MarkViewedOK",
			method: http.MethodPost,
			url:    fmt.Sprintf("/transactions/%d/viewed", newer.ID),
			auth:   true,
			buildStubs: func(service *MockService) {
				viewed := newer
				viewed.WasDestinationViewed = true

				service.EXPECT().MarkViewed(gomock.Any(), gomock.Eq(newer.ID), gomock.Eq(ownerID)).
					Times(1).
					Return(viewed, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var got struct {
					Data transactionData `json:"data"`
				}
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
				require.True(t, got.Data.Transaction.WasDestinationViewed)
			},
		},
		{
			name:   "MarkViewedNotFound",
			method: http.MethodPost,
			url:    "/transactions/77/viewed",
			auth:   true,
			buildStubs: func(service *MockService) {
				service.EXPECT().MarkViewed(gomock.Any(), gomock.Eq(int64(77)), gomock.Eq(ownerID)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:   "MarkViewedInvalidID",
			method: http.MethodPost,
			url:    "/transactions/0/viewed",
			auth:   true,
			buildStubs: func(service *MockService) {
				service.EXPECT().MarkViewed(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server := setupServer(t, tokenMaker, service, now)

			recorder := httptest.NewRecorder()
			request, err := http.NewRequest(tc.method, tc.url, nil)
			require.NoError(t, err)

			if tc.auth {
				err = middleware.AddAuthorization(request, tokenMaker, middleware.AuthTypeBearer, ownerID, "user", time.Minute)
				require.NoError(t, err)
			}

			server.ServeHTTP(recorder, request)
			tc.checkResponse(t, recorder)
		})
	}
}
