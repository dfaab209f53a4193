package main

import (
	"net/http"
	"testing"
)

func TestRegisterUserValidation(t *testing.T) {
	app := newTestApplication(t, newMockStorage())
	mux := app.mount()

	tests := []struct {
		name string
		body string
		code int
	}{
		{
			name: "valid payload",
			body: `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","password":"correct horse"}`,
			code: http.StatusCreated,
		},
		{
			name: "invalid email",
			body: `{"first_name":"Ada","last_name":"Lovelace","email":"not-an-email","password":"correct horse"}`,
			code: http.StatusBadRequest,
		},
		{
			name: "short password",
			body: `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","password":"short"}`,
			code: http.StatusBadRequest,
		},
		{
			name: "unknown field",
			body: `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","password":"correct horse","admin":true}`,
			code: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptestRequest(t, http.MethodPost, "/v1/authentication/user", tt.body)

			rr := executeRequest(req, mux)
			checkResponseCode(t, tt.code, rr.Code)
		})
	}
}
