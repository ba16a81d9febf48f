package testutil

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gradguide/backend/internal/infrastructure/persistence/models"
	"github.com/gradguide/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteDB(t *testing.T) {
	db := NewSQLiteDB(t)

	require.NoError(t, db.Create(&models.UserModel{ID: "u1"}).Error)
	var count int64
	require.NoError(t, db.Model(&models.UserModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	err := db.Create(&models.ApplicationModel{UserID: "ghost", Company: "Allens", Role: "Clerk"}).Error
	assert.Error(t, err, "foreign keys must be enforced")
}

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)

	mockDB.Mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))
	var one int
	require.NoError(t, mockDB.DB.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
	mockDB.ExpectationsWereMet(t)
}

func TestTestContext_Setters(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetRequestID("req-123")
	tc.SetSessionUser("u-ada")
	tc.SetParam("id", "7")
	tc.SetHeader("Idempotency-Key", "k1")

	assert.Equal(t, "req-123", middleware.GetRequestID(tc.Context))
	assert.Equal(t, "u-ada", middleware.GetUserID(tc.Context))
	assert.Equal(t, "7", tc.Context.Param("id"))
	assert.Equal(t, "k1", tc.Context.GetHeader("Idempotency-Key"))
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
}

func TestRunHTTPTestCases(t *testing.T) {
	handler := func(c *gin.Context) {
		if middleware.GetUserID(c) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "ERR_UNAUTHORIZED", "message": "Sign in required"},
			})
			return
		}
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": c.Param("id"), "company": body["company"]}})
	}

	RunHTTPTestCases(t, handler, []HTTPTestCase{
		{
			Name:           "anonymous",
			ExpectedStatus: http.StatusUnauthorized,
			ExpectedCode:   "ERR_UNAUTHORIZED",
		},
		{
			Name:           "signed in with params and body",
			Method:         http.MethodPut,
			Params:         map[string]string{"id": "3"},
			Body:           map[string]string{"company": "Allens"},
			UserID:         "u-ada",
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *TestContext) {
				AssertSuccessResponse(t, tc)
				resp := JSONResponseAs[struct {
					Data struct {
						ID      string `json:"id"`
						Company string `json:"company"`
					} `json:"data"`
				}](t, tc)
				assert.Equal(t, "3", resp.Data.ID)
				assert.Equal(t, "Allens", resp.Data.Company)
			},
		},
	})
}
