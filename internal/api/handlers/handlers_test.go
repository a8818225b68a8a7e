package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2026-05-01", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"2026-05-01T18:30:00Z", time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC), false},
		{"2026-05-01T20:30:00+02:00", time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC), false},
		{"01/05/2026", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseEventDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		param  string
		want   uint
		wantOK bool
	}{
		{"7", 7, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Params = gin.Params{{Key: "id", Value: tt.param}}

			id, ok := parseID(c, "Invalid event ID")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, id)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.JSONEq(t, `{"message":"Invalid event ID"}`, rec.Body.String())
			}
		})
	}
}
