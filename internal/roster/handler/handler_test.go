package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmodels "daystar/internal/auth/models"
	userstore "daystar/internal/auth/store/user"
	"daystar/internal/platform/middleware"
	"daystar/internal/roster/models"
	"daystar/internal/roster/service"
	babysitterstore "daystar/internal/roster/store/babysitter"
	childstore "daystar/internal/roster/store/child"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/testutil"
)

const (
	managerToken = "manager-token"
	sitterToken  = "sitter-token"
)

// stubValidator maps fixed bearer tokens to claims so router tests can
// exercise the auth gate without minting real JWTs.
type stubValidator struct {
	claims map[string]*middleware.JWTClaims
}

func (v *stubValidator) ValidateToken(token string) (*middleware.JWTClaims, error) {
	claims, ok := v.claims[token]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token")
	}
	return claims, nil
}

func newRosterRouter(t *testing.T) http.Handler {
	t.Helper()

	svc := service.New(
		babysitterstore.NewInMemory(),
		childstore.NewInMemory(),
		userstore.NewInMemory(),
	)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	validator := &stubValidator{claims: map[string]*middleware.JWTClaims{
		managerToken: {UserID: id.UserID(uuid.New()), Role: string(authmodels.RoleManager), JTI: uuid.NewString()},
		sitterToken:  {UserID: id.UserID(uuid.New()), Role: string(authmodels.RoleBabysitter), JTI: uuid.NewString()},
	}}

	h := New(svc, logger, nil, validator, nil)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func asManager(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+managerToken)
	return req
}

func asBabysitter(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+sitterToken)
	return req
}

func TestRosterRoutesRequireAuth(t *testing.T) {
	router := newRosterRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/children/"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	testutil.AssertErrorCode(t, rr, "unauthorized")
}

func TestBabysitterWritesAreManagerOnly(t *testing.T) {
	router := newRosterRouter(t)

	payload := map[string]any{"firstName": "Eve"}
	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/babysitters/", payload)
	rr := testutil.DoRequest(router, asBabysitter(req))
	testutil.AssertStatus(t, rr, http.StatusForbidden)
	testutil.AssertErrorCode(t, rr, "forbidden")
}

func TestCreateAndListChildrenViaHandlers(t *testing.T) {
	router := newRosterRouter(t)

	// Babysitters may enroll children; no manager role needed.
	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/children/", validChildPayload())
	rr := testutil.DoRequest(router, asBabysitter(req))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	created := testutil.UnmarshalResponse[models.Child](t, rr)
	require.False(t, created.ID.IsNil())
	assert.Equal(t, "Amina Okello", created.FullName)
	assert.Equal(t, models.SessionFullDay, created.SessionType)
	assert.Equal(t, "None", created.Allergies)
	assert.Equal(t, "peanut-free snacks only", created.DietaryRestrictions)

	listReq := asBabysitter(testutil.NewRequest(t, http.MethodGet, "/api/children/"))
	listRR := testutil.DoRequest(router, listReq)
	testutil.AssertStatus(t, listRR, http.StatusOK)

	children := testutil.UnmarshalResponse[[]*models.Child](t, listRR)
	require.Len(t, *children, 1)
	assert.Equal(t, created.ID, (*children)[0].ID)
}

func TestCreateChildValidationEnvelope(t *testing.T) {
	router := newRosterRouter(t)

	payload := validChildPayload()
	payload["age"] = 0
	payload["parentPhone"] = ""

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/children/", payload)
	rr := testutil.DoRequest(router, asManager(req))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rr, "validation")

	resp := testutil.UnmarshalResponse[map[string]any](t, rr)
	fields, ok := (*resp)["fields"].(map[string]any)
	require.True(t, ok, "expected per-field messages in validation envelope")
	assert.Contains(t, fields, "age")
	assert.Contains(t, fields, "parentPhone")
}

func TestGetUnknownBabysitterReturnsNotFound(t *testing.T) {
	router := newRosterRouter(t)

	req := asManager(testutil.NewRequest(t, http.MethodGet, "/api/babysitters/"+uuid.NewString()))
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	testutil.AssertErrorCode(t, rr, "not_found")
}

func TestCreateBabysitterViaHandlers(t *testing.T) {
	router := newRosterRouter(t)

	payload := map[string]any{
		"firstName":      "Grace",
		"lastName":       "Mwangi",
		"email":          "grace@daystar.local",
		"phoneNumber":    "+254700000001",
		"nationalId":     "ID-1001",
		"dateOfBirth":    "1998-03-12",
		"nextOfKinName":  "Peter Mwangi",
		"nextOfKinPhone": "+254700000002",
	}
	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/babysitters/", payload)
	rr := testutil.DoRequest(router, asManager(req))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	created := testutil.UnmarshalResponse[models.Babysitter](t, rr)
	require.False(t, created.ID.IsNil())
	assert.Equal(t, "Grace", created.FirstName)
	require.NotNil(t, created.UserID, "email on create should provision a login")
}

func validChildPayload() map[string]any {
	return map[string]any{
		"fullName":            "Amina Okello",
		"age":                 4,
		"parentName":          "Joy Okello",
		"parentPhone":         "+254711000001",
		"sessionType":         "full-day",
		"dietaryRestrictions": "peanut-free snacks only",
	}
}
