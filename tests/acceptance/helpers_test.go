package acceptance

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/voyago/identity-service/internal/dto"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type authData struct {
	Token string      `json:"token"`
	User  dto.Profile `json:"user"`
}

func (s *Suite) postJSON(path string, body interface{}, token string) (*http.Response, envelope) {
	return s.doJSON(http.MethodPost, path, body, token)
}

func (s *Suite) doJSON(method, path string, body interface{}, token string) (*http.Response, envelope) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, s.BaseURL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var env envelope
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

// signup registers a fresh account and returns its token and profile.
func (s *Suite) signup(email string) authData {
	resp, env := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:     email,
		Password:  "Password123",
		FirstName: "Test",
		LastName:  "Traveler",
	}, "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Require().True(env.Success)

	var data authData
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	return data
}

// storedCode reads an OTP column straight from the database; the codes
// are otherwise only delivered by email.
func (s *Suite) storedCode(email, column string) string {
	query := fmt.Sprintf("SELECT %s FROM identities WHERE email = $1", column)

	var code sql.NullString
	err := s.Postgres.DB.QueryRow(query, email).Scan(&code)
	s.Require().NoError(err)
	s.Require().True(code.Valid, "expected a stored %s", column)
	return code.String
}

func (s *Suite) verificationCode(email string) string {
	return s.storedCode(email, "verification_code")
}

func (s *Suite) resetCode(email string) string {
	return s.storedCode(email, "reset_code")
}
