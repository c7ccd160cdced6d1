package helper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSnake(t *testing.T) {
	cases := map[string]string{
		"BookID":      "book_id",
		"CardNumber":  "card_number",
		"book_id":     "book_id",
		"HTTPStatus":  "http_status",
		"Password":    "password",
		"UserID2Name": "user_id2_name",
	}
	for in, want := range cases {
		assert.Equal(t, want, toSnake(in), in)
	}
}

type sampleReq struct {
	BookID   string `json:"book_id" validate:"required,uuid"`
	Email    string `json:"email" validate:"required,email"`
	Plan     string `json:"plan" validate:"omitempty,oneof=basic-monthly premium-monthly"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestValidateUsesJSONNames(t *testing.T) {
	err := Validate(&sampleReq{BookID: "nope", Email: "x", Plan: "gold", Password: "123"})
	require.Error(t, err)

	var ve *ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"harus UUID"}, ve.Fields["book_id"])
	assert.Equal(t, []string{"format email tidak valid"}, ve.Fields["email"])
	assert.Equal(t, []string{"harus salah satu dari: basic-monthly premium-monthly"}, ve.Fields["plan"])
	assert.Equal(t, []string{"minimal 6"}, ve.Fields["password"])
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, Validate(&sampleReq{
		BookID:   "6f1c2a3e-8f1b-4c57-9a51-2f0a8f3e9d10",
		Email:    "reader@example.com",
		Password: "secret1",
	}))
}
