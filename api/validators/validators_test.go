package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/marketrecon-backend/pkg/errors"
)

type manualBody struct {
	TransactionID string          `json:"transactionId" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		ok     bool
		fields []string
	}{
		{"valid", `{"transactionId":"` + uuid.NewString() + `","amount":"10.50"}`, true, nil},
		{"missing id", `{"amount":"10"}`, false, []string{"transactionId"}},
		{"zero amount", `{"transactionId":"` + uuid.NewString() + `","amount":"0"}`, false, []string{"amount"}},
		{"unknown field", `{"transactionId":"` + uuid.NewString() + `","amount":"1","extra":true}`, false, nil},
		{"malformed", `{`, false, nil},
		{"empty", ``, false, nil},
		{"two documents", `{"transactionId":"` + uuid.NewString() + `","amount":"1"} {}`, false, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dest manualBody
			err := DecodeJSONBody(req, &dest)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
			if len(tc.fields) > 0 {
				details, ok := pkgerrors.As(err).Details().(map[string]string)
				require.True(t, ok)
				for _, f := range tc.fields {
					assert.Contains(t, details, f)
				}
			}
		})
	}
}

func TestDecodeJSONBodyRejectsNilUUID(t *testing.T) {
	type body struct {
		AccountID uuid.UUID `json:"accountId" validate:"required"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"accountId":"`+uuid.Nil.String()+`"}`))
	var dest body
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["accountId"])
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?quantity=5&bad=x&big=500", nil)

	v, err := ParseQueryInt(req, "quantity", 10, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	v, err = ParseQueryInt(req, "missing", 10, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	_, err = ParseQueryInt(req, "bad", 10, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ParseQueryInt(req, "big", 10, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseQueryUUIDAndTime(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/?accountId="+id.String()+"&from=2026-03-01&to=2026-03-10T12:00:00-03:00&bad=nope", nil)

	got, err := ParseQueryUUID(req, "accountId")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	got, err = ParseQueryUUID(req, "absent")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseQueryUUID(req, "bad")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	from, err := ParseQueryTime(req, "from")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *from)

	to, err := ParseQueryTime(req, "to")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC), *to)

	_, err = ParseQueryTime(req, "bad")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseURLUUID(t *testing.T) {
	id := uuid.New()
	rc := chi.NewRouteContext()
	rc.URLParams.Add("id", id.String())
	rc.URLParams.Add("other", "nope")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	got, err := ParseURLUUID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseURLUUID(req, "other")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Loja", SanitizeString("  Loja  ", 0))
	assert.Equal(t, "Lo", SanitizeString("Loja", 2))
	assert.Equal(t, "São", SanitizeString("São Paulo", 3))
	assert.Equal(t, "LojaA", SanitizeString("Loja\x00A\n", 0))
}
