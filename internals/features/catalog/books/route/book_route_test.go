package route

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"medialibrary_backend/internals/databases/dbtest"
	branchModel "medialibrary_backend/internals/features/catalog/branches/model"
	branchRepo "medialibrary_backend/internals/features/catalog/branches/repository"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	ErrorCode  string              `json:"error_code"`
	Errors     map[string][]string `json:"errors"`
	Data       any                 `json:"data"`
	Pagination map[string]any      `json:"pagination"`
}

func newCatalogApp(t *testing.T) (*fiber.App, uuid.UUID) {
	t.Helper()
	db := dbtest.New(t)
	br := branchModel.BranchModel{BranchName: "Central", BranchAddress: "a", BranchCity: "b", BranchPostalCode: "c", BranchPhone: "d", BranchEmail: "e"}
	require.NoError(t, branchRepo.CreateBranch(db, &br))

	app := fiber.New()
	BookPublicRoutes(app.Group("/api"), db)
	BookAdminRoutes(app.Group("/api/admin"), db)
	return app, br.BranchID
}

func request(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, sonic.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestCreateListAndGetBook(t *testing.T) {
	app, branchID := newCatalogApp(t)

	body := `{"title":"  Laskar Pelangi ","author":"Andrea Hirata","isbn":"9789793062792","category":"Fiction",
		"copies":[{"branch_id":"` + branchID.String() + `","count":2}]}`
	status, env := request(t, app, "POST", "/api/admin/catalog/books", body)
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	data := env.Data.(map[string]any)
	book := data["book"].(map[string]any)
	assert.Equal(t, "Laskar Pelangi", book["title"])
	assert.Len(t, data["copies"], 2)
	bookID := book["id"].(string)

	status, env = request(t, app, "POST", "/api/admin/catalog/books", body)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.ErrorCode)

	status, env = request(t, app, "GET", "/api/books?search=laskar&available=true", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, env.Data, 1)
	assert.EqualValues(t, 1, env.Pagination["total"])

	status, env = request(t, app, "GET", "/api/books/"+bookID, "")
	require.Equal(t, fiber.StatusOK, status)
	copies := env.Data.(map[string]any)["copies"].(map[string]any)
	assert.EqualValues(t, 2, copies["available"])

	status, env = request(t, app, "POST", "/api/admin/catalog/books/"+bookID+"/copies", `{"branch_id":"`+branchID.String()+`","count":3}`)
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	assert.Len(t, env.Data, 3)
}

func TestCatalogErrors(t *testing.T) {
	app, branchID := newCatalogApp(t)

	status, env := request(t, app, "GET", "/api/books/"+uuid.NewString(), "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.ErrorCode)

	status, _ = request(t, app, "GET", "/api/books/not-a-uuid", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = request(t, app, "GET", "/api/books?available=maybe", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = request(t, app, "GET", "/api/books?limit=-5", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, env = request(t, app, "POST", "/api/admin/catalog/books", `{"author":"x"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Errors, "title")

	status, _ = request(t, app, "POST", "/api/admin/catalog/books",
		`{"title":"T","author":"A","copies":[{"branch_id":"`+uuid.NewString()+`","count":1}]}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = request(t, app, "POST", "/api/admin/catalog/books/"+uuid.NewString()+"/copies",
		`{"branch_id":"`+branchID.String()+`","count":1}`)
	assert.Equal(t, fiber.StatusNotFound, status)
}
