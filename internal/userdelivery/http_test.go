package userdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/flowserve/ledger/internal/domain"
	"github.com/flowserve/ledger/pkg/currencypkg"
	"github.com/flowserve/ledger/pkg/errorspkg"
	"github.com/flowserve/ledger/pkg/randompkg"
	"github.com/flowserve/ledger/pkg/web"
)

func testServer(t *testing.T) (*gin.Engine, *MockService, *MockSessionMaker) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	service := NewMockService(ctrl)
	sessionMaker := NewMockSessionMaker(ctrl)
	handler := NewHandler(service, sessionMaker)

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()
	server.POST("/users", handler.Create)
	server.POST("/users/login", handler.Login)

	return server, service, sessionMaker
}

func TestCreate(t *testing.T) {
	username := randompkg.Owner()
	password := randompkg.String(10)
	email := randompkg.Email()

	testUser := domain.UserWithoutPassword{
		Username: username,
		FullName: username,
		Email:    email,
	}
	testAccount := domain.Account{
		ID:       1,
		Owner:    username,
		Kind:     domain.KindPrimary,
		Balance:  "0",
		Currency: currencypkg.USD,
	}
	testSession := domain.Session{
		Username:     username,
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService, sessionMaker *MockSessionMaker)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			requestBody: gin.H{
				"username": username,
				"password": password,
				"fullname": username,
				"email":    email,
			},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(username), gomock.Eq(password), gomock.Eq(username), gomock.Eq(email)).
					Times(1).
					Return(testUser, testAccount, nil)
				sessionMaker.EXPECT().Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return("access", time.Now().Add(15*time.Minute), testSession, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var response web.Response
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
				require.NotEmpty(t, response.AccessToken)
				require.NotEmpty(t, response.RefreshToken)
			},
		},
		{
			name: "InvalidUsername",
			requestBody: gin.H{
				"username": "user#1",
				"password": password,
				"fullname": username,
				"email":    email,
			},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "ShortPassword",
			requestBody: gin.H{
				"username": username,
				"password": "12345",
				"fullname": username,
				"email":    email,
			},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "UsernameAlreadyExists",
			requestBody: gin.H{
				"username": username,
				"password": password,
				"fullname": username,
				"email":    email,
			},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.UserWithoutPassword{}, domain.Account{}, domain.ErrUsernameAlreadyExists)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
		{
			name: "SessionError",
			requestBody: gin.H{
				"username": username,
				"password": password,
				"fullname": username,
				"email":    email,
			},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(testUser, testAccount, nil)
				sessionMaker.EXPECT().Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return("", time.Time{}, domain.Session{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, service, sessionMaker := testServer(t)
			tc.buildStubs(service, sessionMaker)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request, err := http.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)
			tc.checkResponse(recorder)
		})
	}
}

func TestLogin(t *testing.T) {
	username := randompkg.Owner()
	password := randompkg.String(10)

	testUser := domain.UserWithoutPassword{
		Username: username,
		FullName: username,
		Email:    randompkg.Email(),
	}
	testSession := domain.Session{
		Username:     username,
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService, sessionMaker *MockSessionMaker)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "OK",
			requestBody: gin.H{"username": username, "password": password},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().CheckPassword(gomock.Any(), gomock.Eq(username), gomock.Eq(password)).
					Times(1).
					Return(testUser, nil)
				sessionMaker.EXPECT().Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return("access", time.Now().Add(15*time.Minute), testSession, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name:        "UserNotFound",
			requestBody: gin.H{"username": username, "password": password},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().CheckPassword(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.UserWithoutPassword{}, domain.ErrUserNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:        "WrongPassword",
			requestBody: gin.H{"username": username, "password": password},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().CheckPassword(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.UserWithoutPassword{}, domain.ErrWrongPassword)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:        "MissingPassword",
			requestBody: gin.H{"username": username},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().CheckPassword(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, service, sessionMaker := testServer(t)
			tc.buildStubs(service, sessionMaker)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request, err := http.NewRequest(http.MethodPost, "/users/login", bytes.NewReader(body))
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)
			tc.checkResponse(recorder)
		})
	}
}
